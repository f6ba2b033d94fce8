package cartridge

import "time"

// RTC register selectors, written to 0x4000-0x5FFF.
const (
	rtcSeconds = 0x08
	rtcMinutes = 0x09
	rtcHours   = 0x0A
	rtcDaysLow = 0x0B
	rtcControl = 0x0C
)

const (
	rtcDayHigh = 1 << 0 // bit 8 of the day counter
	rtcHalt    = 1 << 6
	rtcCarry   = 1 << 7
)

// RTC is the real time clock found in MBC3 cartridges. The live
// registers advance with wall clock time, software reads a copy of
// them taken when the clock is latched.
type RTC struct {
	Seconds              uint8
	Minutes              uint8
	Hours                uint8
	DaysLower            uint8
	DaysHigherAndControl uint8

	latched [5]uint8

	lastUpdate time.Time
	remainder  time.Duration
	now        func() time.Time
}

func newRTC(now func() time.Time) *RTC {
	return &RTC{now: now, lastUpdate: now()}
}

// Update advances the live registers by the wall clock time passed
// since the last update. Nothing advances while the clock is halted.
func (r *RTC) Update() {
	current := r.now()
	delta := current.Sub(r.lastUpdate) + r.remainder
	r.lastUpdate = current

	if r.DaysHigherAndControl&rtcHalt != 0 {
		r.remainder = 0
		return
	}
	if delta < time.Second {
		r.remainder = delta
		return
	}
	r.remainder = delta % time.Second

	total := uint64(delta / time.Second)
	total += uint64(r.Seconds) + uint64(r.Minutes)*60 + uint64(r.Hours)*3600
	days := uint64(r.DaysLower) | uint64(r.DaysHigherAndControl&rtcDayHigh)<<8

	r.Seconds = uint8(total % 60)
	total /= 60
	r.Minutes = uint8(total % 60)
	total /= 60
	r.Hours = uint8(total % 24)
	days += total / 24

	if days >= 512 {
		days %= 512
		r.DaysHigherAndControl |= rtcCarry
	}
	r.DaysLower = uint8(days)
	r.DaysHigherAndControl = r.DaysHigherAndControl&^rtcDayHigh | uint8(days>>8)&rtcDayHigh
}

// Latch copies the live registers into the ones visible to software.
func (r *RTC) Latch() {
	r.Update()
	r.latched = [5]uint8{r.Seconds, r.Minutes, r.Hours, r.DaysLower, r.DaysHigherAndControl}
}

// Read returns the latched value of register reg.
func (r *RTC) Read(reg uint8) uint8 {
	if reg < rtcSeconds || reg > rtcControl {
		return 0xFF
	}
	return r.latched[reg-rtcSeconds]
}

// Write sets the live register reg. Unused bits are masked off.
func (r *RTC) Write(reg uint8, value uint8) {
	r.Update()
	switch reg {
	case rtcSeconds:
		r.Seconds = value & 0x3F
		r.remainder = 0
	case rtcMinutes:
		r.Minutes = value & 0x3F
	case rtcHours:
		r.Hours = value & 0x1F
	case rtcDaysLow:
		r.DaysLower = value
	case rtcControl:
		r.DaysHigherAndControl = value & 0xC1
	}
}
