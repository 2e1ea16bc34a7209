// Package cpu defines the fixed-layout register snapshot that is the unit of
// context transfer between processes. The snapshot is always copied, never
// shared: a process control block owns its stored snapshot outright and the
// context switcher owns the live one.
package cpu

import "fmt"

// Reset values for a fresh register set. RFlags carries the interrupt-enable
// bit; the selectors are the kernel's default code and data segments.
const (
	ResetRFlags = 0x202
	KernelCS    = 0x08
	KernelDS    = 0x10
)

// Registers is a snapshot of all integer general-purpose registers plus the
// instruction pointer, flags register and segment selectors. The field order
// is fixed and significant: the syscall trap frame addresses the saved
// general-purpose registers by position.
type Registers struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	RBP uint64
	RSP uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64

	RIP    uint64
	RFlags uint64

	CS uint64
	SS uint64
	DS uint64
	ES uint64
	FS uint64
	GS uint64
}

// NewRegisters returns a register set holding the reset values a process
// starts from: zeroed general-purpose registers, interrupts enabled and the
// kernel's default segment selectors.
func NewRegisters() Registers {
	return Registers{
		RFlags: ResetRFlags,
		CS:     KernelCS,
		SS:     KernelDS,
		DS:     KernelDS,
		ES:     KernelDS,
		FS:     KernelDS,
		GS:     KernelDS,
	}
}

// String renders a register dump in two columns.
func (r Registers) String() string {
	return fmt.Sprintf(
		"RAX = %16x RBX = %16x\n"+
			"RCX = %16x RDX = %16x\n"+
			"RSI = %16x RDI = %16x\n"+
			"RBP = %16x RSP = %16x\n"+
			"R8  = %16x R9  = %16x\n"+
			"R10 = %16x R11 = %16x\n"+
			"R12 = %16x R13 = %16x\n"+
			"R14 = %16x R15 = %16x\n"+
			"RIP = %16x RFL = %16x\n"+
			"CS  = %16x SS  = %16x\n"+
			"DS  = %16x ES  = %16x\n"+
			"FS  = %16x GS  = %16x",
		r.RAX, r.RBX, r.RCX, r.RDX, r.RSI, r.RDI, r.RBP, r.RSP,
		r.R8, r.R9, r.R10, r.R11, r.R12, r.R13, r.R14, r.R15,
		r.RIP, r.RFlags, r.CS, r.SS, r.DS, r.ES, r.FS, r.GS)
}
