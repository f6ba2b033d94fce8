package cpu

import "fmt"

// TraceEntry describes one executed instruction, and the state of the
// registers after it completed.
type TraceEntry struct {
	PC     uint16
	Opcode uint8
	Name   string
	After  Snapshot
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("%04X %02X %-14s %s", e.PC, e.Opcode, e.Name, e.After)
}

// Trace keeps the most recently executed instructions in a ring
// buffer, for post mortem inspection.
type Trace struct {
	entries []TraceEntry
	next    int
	full    bool
}

// NewTrace returns a Trace holding up to depth entries.
func NewTrace(depth int) *Trace {
	if depth < 1 {
		depth = 1
	}
	return &Trace{entries: make([]TraceEntry, depth)}
}

func (t *Trace) record(pc uint16, opcode uint8, name string, after Snapshot) {
	t.entries[t.next] = TraceEntry{PC: pc, Opcode: opcode, Name: name, After: after}
	t.next++
	if t.next == len(t.entries) {
		t.next = 0
		t.full = true
	}
}

// Len returns the number of entries held.
func (t *Trace) Len() int {
	if t.full {
		return len(t.entries)
	}
	return t.next
}

// Tail returns up to the last n entries, oldest first.
func (t *Trace) Tail(n int) []TraceEntry {
	if n > t.Len() {
		n = t.Len()
	}
	tail := make([]TraceEntry, 0, n)
	for i := t.next - n; i < t.next; i++ {
		idx := i
		if idx < 0 {
			idx += len(t.entries)
		}
		tail = append(tail, t.entries[idx])
	}
	return tail
}
