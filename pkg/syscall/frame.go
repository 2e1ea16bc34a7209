package syscall

import "microkern/pkg/cpu"

// The trap entry pushes every general-purpose register that might hold caller
// state onto the current stack in a fixed order: R15 first, down to RAX last,
// followed by one alignment word so the stack is 16-byte aligned before the
// dispatcher is called. Frame is the resulting stack image, indexed from the
// lowest address (the stack pointer after the alignment adjustment).
//
// The entry routine re-reads the syscall number and arguments from their slot
// offsets rather than from live registers, which the trap mechanism may have
// clobbered. The caller's convention is: RAX carries the syscall number, then
// RDI, RSI, RDX, R10, R8 carry arguments 0 through 4 and R9 carries argument
// 5, the value that travels on the stack across the dispatcher call.
type Frame [frameWords]uint64

// Slot indices into the frame, in push order reversed. The byte offset of a
// slot from the adjusted stack pointer is 8*slot; SlotRAX sits at +8.
const (
	SlotAlign = iota
	SlotRAX
	SlotRBX
	SlotRCX
	SlotRDX
	SlotRSI
	SlotRDI
	SlotRBP
	SlotR8
	SlotR9
	SlotR10
	SlotR11
	SlotR12
	SlotR13
	SlotR14
	SlotR15

	frameWords
)

// SlotOffset returns the byte offset of a slot from the adjusted stack
// pointer.
func SlotOffset(slot int) uintptr {
	return uintptr(slot) * 8
}

// Push builds the trap frame for a register set, modelling the entry
// routine's push sequence.
func Push(regs cpu.Registers) *Frame {
	var f Frame
	f[SlotRAX] = regs.RAX
	f[SlotRBX] = regs.RBX
	f[SlotRCX] = regs.RCX
	f[SlotRDX] = regs.RDX
	f[SlotRSI] = regs.RSI
	f[SlotRDI] = regs.RDI
	f[SlotRBP] = regs.RBP
	f[SlotR8] = regs.R8
	f[SlotR9] = regs.R9
	f[SlotR10] = regs.R10
	f[SlotR11] = regs.R11
	f[SlotR12] = regs.R12
	f[SlotR13] = regs.R13
	f[SlotR14] = regs.R14
	f[SlotR15] = regs.R15
	return &f
}

// Pop writes the saved slots back into a register set, modelling the entry
// routine's pop sequence before the trap returns. Only the frame-saved
// general-purpose registers change; RIP, RSP, flags and selectors belong to
// the hardware trap frame and are untouched here.
func (f *Frame) Pop(regs *cpu.Registers) {
	regs.RAX = f[SlotRAX]
	regs.RBX = f[SlotRBX]
	regs.RCX = f[SlotRCX]
	regs.RDX = f[SlotRDX]
	regs.RSI = f[SlotRSI]
	regs.RDI = f[SlotRDI]
	regs.RBP = f[SlotRBP]
	regs.R8 = f[SlotR8]
	regs.R9 = f[SlotR9]
	regs.R10 = f[SlotR10]
	regs.R11 = f[SlotR11]
	regs.R12 = f[SlotR12]
	regs.R13 = f[SlotR13]
	regs.R14 = f[SlotR14]
	regs.R15 = f[SlotR15]
}

// Args extracts the syscall number and argument bundle from the saved slots.
func (f *Frame) Args() (uint64, Args) {
	return f[SlotRAX], Args{
		Arg0: f[SlotRDI],
		Arg1: f[SlotRSI],
		Arg2: f[SlotRDX],
		Arg3: f[SlotR10],
		Arg4: f[SlotR8],
		Arg5: f[SlotR9],
	}
}

// Entry is the privileged trap entry: it reads the call from the frame,
// dispatches it and writes the encoded result into the saved RAX slot, so
// that after the pops the caller observes its return register updated and
// every other register restored. Entry itself cannot fail; every error is
// expressed through the result encoding.
func Entry(f *Frame, d *Dispatcher) {
	num, args := f.Args()
	res := d.Handle(num, args)
	f[SlotRAX] = res.Encode()
}
