package syscall

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"microkern/pkg/process"
)

// MaxProcessNameLen bounds the name a CreateProcess call may pass. Longer
// names are rejected rather than truncated.
const MaxProcessNameLen = 256

// YieldNoneReady is returned by the Yield call when no process is Ready. It
// is deliberately distinct from pid 0, which identifies the kernel's own
// process.
const YieldNoneReady = ^uint64(0)

// MemoryReader is the bounds-checked view into caller memory the dispatcher
// uses to decode pointer arguments. The memory subsystem is an external
// collaborator; only this narrow read surface is consumed here.
type MemoryReader interface {
	// ReadBytes copies length bytes starting at addr. It returns an error
	// for any range that is not fully readable.
	ReadBytes(addr, length uint64) ([]byte, error)
}

// Kernel is the set of kernel operations the dispatcher routes into.
type Kernel interface {
	// CreateProcess registers a new process and returns its pid.
	CreateProcess(name string, priority process.Priority, stackSize, heapSize uint64) (process.PID, error)
	// ExitCurrent terminates the current process with the given exit code.
	ExitCurrent(exitCode int64) error
	// Yield asks the scheduler for the next Ready process.
	Yield() (process.PID, bool)
	// CurrentPID returns the calling process identity.
	CurrentPID() (process.PID, bool)
}

// Dispatcher routes a call number and argument bundle to the matching kernel
// operation. It is a pure routing layer: all state lives behind the Kernel
// interface.
type Dispatcher struct {
	kernel Kernel
	mem    MemoryReader
}

// NewDispatcher builds a dispatcher over the given kernel operations and
// caller-memory reader.
func NewDispatcher(kernel Kernel, mem MemoryReader) *Dispatcher {
	return &Dispatcher{kernel: kernel, mem: mem}
}

// Handle routes one system call. Unknown numbers yield ErrnoInvalidSyscall.
func (d *Dispatcher) Handle(num uint64, args Args) Result {
	switch Number(num) {
	case SendMessage:
		return d.sendMessage(args)
	case ReceiveMessage:
		return d.receiveMessage(args)
	case AllocateMemory:
		return d.allocateMemory(args)
	case DeallocateMemory:
		return d.deallocateMemory(args)
	case CreateProcess:
		return d.createProcess(args)
	case ExitProcess:
		return d.exitProcess(args)
	case Yield:
		return d.yield(args)
	case GetPid:
		return d.getPid(args)
	case MapMemory:
		return d.mapMemory(args)
	case UnmapMemory:
		return d.unmapMemory(args)
	default:
		return Failure(ErrnoInvalidSyscall)
	}
}

// createProcess decodes (name ptr, name len, priority code, stack size, heap
// size) and delegates to the kernel. The name is copied out of caller memory
// through the bounds-checked reader; a priority code outside 0..3 falls back
// to Normal.
func (d *Dispatcher) createProcess(args Args) Result {
	if args.Arg1 == 0 || args.Arg1 > MaxProcessNameLen {
		return Failure(ErrnoInvalidArgument)
	}
	raw, err := d.mem.ReadBytes(args.Arg0, args.Arg1)
	if err != nil {
		return Failure(ErrnoInvalidArgument)
	}

	priority := process.PriorityNormal
	if args.Arg2 <= uint64(process.PriorityCritical) {
		priority = process.Priority(args.Arg2)
	}

	pid, err := d.kernel.CreateProcess(string(raw), priority, args.Arg3, args.Arg4)
	if err != nil {
		return Failure(mapProcessError(err))
	}
	return Success(uint64(pid))
}

func (d *Dispatcher) exitProcess(args Args) Result {
	if err := d.kernel.ExitCurrent(int64(args.Arg0)); err != nil {
		return Failure(mapProcessError(err))
	}
	return Success(0)
}

func (d *Dispatcher) yield(Args) Result {
	pid, ok := d.kernel.Yield()
	if !ok {
		return Success(YieldNoneReady)
	}
	return Success(uint64(pid))
}

func (d *Dispatcher) getPid(Args) Result {
	pid, ok := d.kernel.CurrentPID()
	if !ok {
		return Failure(ErrnoNoCurrentProcess)
	}
	return Success(uint64(pid))
}

// The message and memory calls are not yet wired to their subsystems. They
// validate nothing and succeed with value 0 so that callers written against
// the final ABI keep working.

func (d *Dispatcher) sendMessage(args Args) Result {
	log.WithField("args", args).Debug("SendMessage: not yet wired")
	return Success(0)
}

func (d *Dispatcher) receiveMessage(args Args) Result {
	log.WithField("args", args).Debug("ReceiveMessage: not yet wired")
	return Success(0)
}

func (d *Dispatcher) allocateMemory(args Args) Result {
	log.WithField("size", args.Arg0).Debug("AllocateMemory: not yet wired")
	return Success(0)
}

func (d *Dispatcher) deallocateMemory(args Args) Result {
	log.WithField("addr", args.Arg0).Debug("DeallocateMemory: not yet wired")
	return Success(0)
}

func (d *Dispatcher) mapMemory(args Args) Result {
	log.WithFields(log.Fields{"addr": args.Arg0, "size": args.Arg1}).Debug("MapMemory: not yet wired")
	return Success(0)
}

func (d *Dispatcher) unmapMemory(args Args) Result {
	log.WithField("addr", args.Arg0).Debug("UnmapMemory: not yet wired")
	return Success(0)
}

// mapProcessError converts in-kernel process errors onto the wire error
// codes.
func mapProcessError(err error) Errno {
	switch {
	case errors.Is(err, process.ErrProcessNotFound):
		return ErrnoProcessNotFound
	case errors.Is(err, process.ErrNoCurrentProcess):
		return ErrnoNoCurrentProcess
	case errors.Is(err, process.ErrInvalidProcessID):
		return ErrnoInvalidProcessID
	case errors.Is(err, process.ErrInsufficientMemory):
		return ErrnoOutOfMemory
	case errors.Is(err, process.ErrPermissionDenied):
		return ErrnoPermissionDenied
	default:
		return ErrnoInvalidArgument
	}
}
