// Package mmu provides the address bus of the Game Boy. Every read and
// write the CPU performs is decoded here and routed to the cartridge,
// one of the internal memories, or the register of the hardware
// component that owns it.
package mmu

import (
	"github.com/thelolagemann/dmgcore/internal/boot"
	"github.com/thelolagemann/dmgcore/internal/cartridge"
	"github.com/thelolagemann/dmgcore/internal/ram"
	"github.com/thelolagemann/dmgcore/internal/types"
	"github.com/thelolagemann/dmgcore/pkg/log"
)

// Timer is the view of the timer the bus needs to expose its
// registers.
type Timer interface {
	Div() uint8
	ResetDiv()
	TIMA() uint8
	SetTIMA(uint8)
	TMA() uint8
	SetTMA(uint8)
	TAC() uint8
	SetTAC(uint8)
}

// Serial is the view of the serial port the bus needs to expose its
// registers.
type Serial interface {
	ReadData() uint8
	WriteData(uint8)
	ReadControl() uint8
	WriteControl(uint8)
}

// Interrupts is the view of the interrupt controller the bus needs to
// expose IF and IE.
type Interrupts interface {
	ReadFlag() uint8
	WriteFlag(uint8)
	ReadEnable() uint8
	WriteEnable(uint8)
}

// region maps the half-open range [start, end) onto an Address.
type region struct {
	name       string
	start, end uint32
	types.Address
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB address space.
type MMU struct {
	// 64kB address space
	raw [65536]*types.Address

	// regions holds the address map, lowest address first.
	regions []region

	// 0x0000 - 0x7FFF - ROM
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	vRAM ram.RAM

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *WRAM

	// 0xFE00 - 0xFE9F - Object Attribute Memory (160B)
	oam ram.RAM

	// 0xFF00 - 0xFF7F - I/O Registers
	io         [0x80]*types.Address
	unmappedIO map[uint16]bool
	timer      Timer
	serial     Serial
	interrupts Interrupts

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	zRAM ram.RAM

	// 0x0000 - 0x00FF - Boot ROM, until BDIS is written
	bootROM     *boot.ROM
	bootEnabled bool

	// patch is applied to every byte read from the cartridge ROM
	patch func(address uint16, value uint8) uint8

	Log log.Logger
}

// Opt configures an MMU.
type Opt func(m *MMU)

// WithLogger sets the logger used to report accesses to unmapped
// registers.
func WithLogger(l log.Logger) Opt {
	return func(m *MMU) {
		m.Log = l
	}
}

// WithBootROM maps rom over the start of the cartridge ROM until the
// boot ROM disables itself through BDIS.
func WithBootROM(rom *boot.ROM) Opt {
	return func(m *MMU) {
		m.bootROM = rom
		m.bootEnabled = rom != nil
	}
}

// WithROMPatch sets a function that may replace any byte read from the
// cartridge ROM, such as a Game Genie.
func WithROMPatch(patch func(address uint16, value uint8) uint8) Opt {
	return func(m *MMU) {
		m.patch = patch
	}
}

// NewMMU returns a new MMU routing to the given components.
func NewMMU(cart cartridge.Cartridge, timer Timer, serial Serial, irq Interrupts, opts ...Opt) *MMU {
	m := &MMU{
		Cart:       cart,
		vRAM:       ram.NewRAM(0x2000),
		wRAM:       NewWRAM(),
		oam:        ram.NewRAM(0xA0),
		zRAM:       ram.NewRAM(0x7F),
		timer:      timer,
		serial:     serial,
		interrupts: irq,
		unmappedIO: make(map[uint16]bool),
		Log:        log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.init()

	return m
}

func (m *MMU) init() {
	m.regions = []region{
		{"ROM", 0x0000, 0x8000, types.Address{Read: m.readROM, Write: m.Cart.Write}},
		{"VRAM", 0x8000, 0xA000, types.Address{
			Read:  readOffset(m.vRAM.Read, types.VRAMStart),
			Write: writeOffset(m.vRAM.Write, types.VRAMStart),
		}},
		{"External RAM", 0xA000, 0xC000, types.Address{Read: m.Cart.Read, Write: m.Cart.Write}},
		{"WRAM", 0xC000, 0xE000, types.Address{Read: m.wRAM.Read, Write: m.wRAM.Write}},
		{"Echo RAM", 0xE000, 0xFE00, types.Address{
			Read:  readOffset(m.wRAM.Read, types.EchoOffset),
			Write: writeOffset(m.wRAM.Write, types.EchoOffset),
		}},
		{"OAM", 0xFE00, 0xFEA0, types.Address{
			Read:  readOffset(m.oam.Read, types.OAMStart),
			Write: writeOffset(m.oam.Write, types.OAMStart),
		}},
		{"Unusable", 0xFEA0, 0xFF00, types.Address{Read: readUnmapped, Write: writeUnmapped}},
		{"I/O", 0xFF00, 0xFF80, types.Address{Read: m.readIO, Write: m.writeIO}},
		{"HRAM", 0xFF80, 0xFFFF, types.Address{
			Read:  readOffset(m.zRAM.Read, types.HRAMStart),
			Write: writeOffset(m.zRAM.Write, types.HRAMStart),
		}},
		{"IE", 0xFFFF, 0x10000, types.Address{
			Read:  func(uint16) uint8 { return m.interrupts.ReadEnable() },
			Write: func(_ uint16, v uint8) { m.interrupts.WriteEnable(v) },
		}},
	}

	for i := range m.regions {
		r := &m.regions[i]
		for addr := r.start; addr < r.end; addr++ {
			m.raw[addr] = &r.Address
		}
	}

	// hardware registers
	m.registerIO(types.SB, m.serial.ReadData, m.serial.WriteData)
	m.registerIO(types.SC, m.serial.ReadControl, m.serial.WriteControl)
	m.registerIO(types.DIV, m.timer.Div, func(uint8) { m.timer.ResetDiv() })
	m.registerIO(types.TIMA, m.timer.TIMA, m.timer.SetTIMA)
	m.registerIO(types.TMA, m.timer.TMA, m.timer.SetTMA)
	m.registerIO(types.TAC, m.timer.TAC, m.timer.SetTAC)
	m.registerIO(types.IF, m.interrupts.ReadFlag, m.interrupts.WriteFlag)
	m.registerIO(types.BDIS, func() uint8 { return 0xFF }, func(v uint8) {
		if v != 0 && m.bootEnabled {
			m.bootEnabled = false
			m.Log.Debugf("mmu: boot ROM disabled")
		}
	})
}

func (m *MMU) readROM(addr uint16) uint8 {
	if m.bootEnabled && addr < boot.Size {
		return m.bootROM.Read(addr)
	}
	v := m.Cart.Read(addr)
	if m.patch != nil {
		return m.patch(addr, v)
	}
	return v
}

// BootROMEnabled reports whether the boot ROM is still mapped.
func (m *MMU) BootROMEnabled() bool {
	return m.bootEnabled
}

// registerIO routes the I/O register at addr to read and write.
func (m *MMU) registerIO(addr types.HardwareAddress, read func() uint8, write func(uint8)) {
	m.io[addr-types.IOStart] = &types.Address{
		Read:  func(uint16) uint8 { return read() },
		Write: func(_ uint16, v uint8) { write(v) },
	}
}

func (m *MMU) readIO(addr uint16) uint8 {
	if reg := m.io[addr-types.IOStart]; reg != nil {
		return reg.Read(addr)
	}
	return 0xFF
}

func (m *MMU) writeIO(addr uint16, value uint8) {
	if reg := m.io[addr-types.IOStart]; reg != nil {
		reg.Write(addr, value)
		return
	}
	if !m.unmappedIO[addr] {
		m.unmappedIO[addr] = true
		m.Log.Debugf("mmu: write to unmapped register 0x%04X (0x%02X)", addr, value)
	}
}

func readUnmapped(uint16) uint8 {
	return 0xFF
}

func writeUnmapped(uint16, uint8) {}

func readOffset(read func(uint16) uint8, offset uint16) func(uint16) uint8 {
	return func(addr uint16) uint8 {
		return read(addr - offset)
	}
}

func writeOffset(write func(uint16, uint8), offset uint16) func(uint16, uint8) {
	return func(addr uint16, v uint8) {
		write(addr-offset, v)
	}
}

// Read returns the byte at the given address.
func (m *MMU) Read(address uint16) uint8 {
	return m.raw[address].Read(address)
}

// Write writes value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	m.raw[address].Write(address, value)
}

// Read16 returns the little-endian 16-bit value at address.
func (m *MMU) Read16(address uint16) uint16 {
	return uint16(m.Read(address)) | uint16(m.Read(address+1))<<8
}

// Write16 writes value to address in little-endian order.
func (m *MMU) Write16(address uint16, value uint16) {
	m.Write(address, uint8(value))
	m.Write(address+1, uint8(value>>8))
}

// Region returns the name of the region address belongs to.
func (m *MMU) Region(address uint16) string {
	for _, r := range m.regions {
		if uint32(address) >= r.start && uint32(address) < r.end {
			return r.name
		}
	}
	return ""
}
