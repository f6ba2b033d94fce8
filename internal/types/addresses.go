package types

// Address represents a memory address in the Game Boy's memory,
// which can be read from or written to. It is used to abstract
// away the actual memory addresses, and instead use a more
// readable and understandable interface.
type Address struct {
	// Read is a function that is called when the CPU reads from
	// the address.
	Read func(address uint16) uint8
	// Write is a function that is called when the CPU writes to
	// the address.
	Write func(address uint16, value uint8)
}

// HardwareAddress is the bus address of one of the memory mapped
// hardware registers found in the I/O block (0xFF00 - 0xFF7F) or at
// the very top of the address space (0xFFFF).
type HardwareAddress = uint16

const (
	// SB holds the next byte to be shifted out of the serial port.
	SB HardwareAddress = 0xFF01
	// SC is the serial control register.
	//
	//  Bit 7 - Transfer Start Flag (0=No transfer, 1=Start)
	//  Bit 0 - Shift Clock (0=External Clock, 1=Internal Clock)
	SC HardwareAddress = 0xFF02
	// DIV exposes the upper 8 bits of the timer's internal 16-bit
	// accumulator. Writing any value to it resets the accumulator.
	DIV HardwareAddress = 0xFF04
	// TIMA is incremented whenever the monitored accumulator bit
	// falls from 1 to 0. When it overflows it is reloaded from TMA
	// and a timer interrupt is requested.
	TIMA HardwareAddress = 0xFF05
	// TMA is the value loaded into TIMA after an overflow.
	TMA HardwareAddress = 0xFF06
	// TAC controls the timer.
	//
	//  Bit 2   - Timer Enable
	//  Bit 1-0 - Input Clock Select
	//            00: CPU Clock / 1024
	//            01: CPU Clock / 16
	//            10: CPU Clock / 64
	//            11: CPU Clock / 256
	TAC HardwareAddress = 0xFF07
	// IF is the interrupt request register.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// BDIS unmaps the boot ROM when written with a non-zero value.
	BDIS HardwareAddress = 0xFF50
	// IE is the interrupt enable register, laid out the same as IF.
	IE HardwareAddress = 0xFFFF
)

// Memory regions of the address space, expressed as half-open
// ranges [Start, End).
const (
	ROMBank0Start    uint16 = 0x0000
	ROMBankNStart    uint16 = 0x4000
	VRAMStart        uint16 = 0x8000
	ExternalRAMStart uint16 = 0xA000
	WRAMStart        uint16 = 0xC000
	EchoStart        uint16 = 0xE000
	OAMStart         uint16 = 0xFE00
	UnusableStart    uint16 = 0xFEA0
	IOStart          uint16 = 0xFF00
	HRAMStart        uint16 = 0xFF80
	EchoOffset       uint16 = EchoStart - WRAMStart
)
