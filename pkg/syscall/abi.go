// Package syscall implements the user-to-kernel call boundary: the syscall
// number space, the argument and result encodings that cross the privilege
// boundary as raw bits, the saved-register trap frame, and the dispatcher
// that routes a call number to a kernel operation.
package syscall

import "fmt"

// Number identifies a system call. The numeric values are part of the ABI.
type Number uint64

const (
	SendMessage Number = iota
	ReceiveMessage
	AllocateMemory
	DeallocateMemory
	CreateProcess
	ExitProcess
	Yield
	GetPid
	MapMemory
	UnmapMemory

	numSyscalls
)

// String returns the call name.
func (n Number) String() string {
	switch n {
	case SendMessage:
		return "SendMessage"
	case ReceiveMessage:
		return "ReceiveMessage"
	case AllocateMemory:
		return "AllocateMemory"
	case DeallocateMemory:
		return "DeallocateMemory"
	case CreateProcess:
		return "CreateProcess"
	case ExitProcess:
		return "ExitProcess"
	case Yield:
		return "Yield"
	case GetPid:
		return "GetPid"
	case MapMemory:
		return "MapMemory"
	case UnmapMemory:
		return "UnmapMemory"
	default:
		return fmt.Sprintf("Unknown(%d)", uint64(n))
	}
}

// Args is the fixed six-argument bundle of a system call. Arguments 0 through
// 4 travel in registers; argument 5 is passed on the stack per the calling
// convention.
type Args struct {
	Arg0 uint64
	Arg1 uint64
	Arg2 uint64
	Arg3 uint64
	Arg4 uint64
	Arg5 uint64
}

// Errno is a system call error code. The values are enumerated in a fixed
// order starting at 0 and must never be reordered: they cross the privilege
// boundary as raw bits.
type Errno uint64

const (
	ErrnoInvalidSyscall Errno = iota
	ErrnoInvalidArgument
	ErrnoPermissionDenied
	ErrnoOutOfMemory
	ErrnoProcessNotFound
	ErrnoInvalidProcessID
	ErrnoMessageQueueFull
	ErrnoNoMessageAvailable
	ErrnoInvalidMemoryRegion
	ErrnoCapabilityDenied
	ErrnoNoCurrentProcess
)

// String returns the error description.
func (e Errno) String() string {
	switch e {
	case ErrnoInvalidSyscall:
		return "invalid syscall number"
	case ErrnoInvalidArgument:
		return "invalid argument"
	case ErrnoPermissionDenied:
		return "permission denied"
	case ErrnoOutOfMemory:
		return "out of memory"
	case ErrnoProcessNotFound:
		return "process not found"
	case ErrnoInvalidProcessID:
		return "invalid process ID"
	case ErrnoMessageQueueFull:
		return "message queue full"
	case ErrnoNoMessageAvailable:
		return "no message available"
	case ErrnoInvalidMemoryRegion:
		return "invalid memory region"
	case ErrnoCapabilityDenied:
		return "capability denied"
	case ErrnoNoCurrentProcess:
		return "no current process"
	default:
		return fmt.Sprintf("errno(%d)", uint64(e))
	}
}

// Error makes Errno usable as an error value inside the kernel.
func (e Errno) Error() string { return e.String() }

// ErrorFlag is the reserved high bit of the 64-bit return register. Set, the
// low 63 bits carry an Errno; clear, the whole word is a success value.
const ErrorFlag uint64 = 1 << 63

// Result is the tagged outcome of a system call.
type Result struct {
	value uint64
	errno Errno
	isErr bool
}

// Success builds a successful result carrying value.
func Success(value uint64) Result {
	return Result{value: value}
}

// Failure builds an error result carrying errno.
func Failure(errno Errno) Result {
	return Result{errno: errno, isErr: true}
}

// IsError reports whether the result is an error.
func (r Result) IsError() bool { return r.isErr }

// Value returns the success value. Meaningful only when IsError is false.
func (r Result) Value() uint64 { return r.value }

// Errno returns the error code. Meaningful only when IsError is true.
func (r Result) Errno() Errno { return r.errno }

// Encode packs the result into the single 64-bit return register.
func (r Result) Encode() uint64 {
	if r.isErr {
		return ErrorFlag | uint64(r.errno)
	}
	return r.value
}

// Decode unpacks a raw return register into a Result. The inverse of Encode;
// user-side stubs use it to interpret the trap return value.
func Decode(raw uint64) Result {
	if raw&ErrorFlag != 0 {
		return Failure(Errno(raw &^ ErrorFlag))
	}
	return Success(raw)
}
