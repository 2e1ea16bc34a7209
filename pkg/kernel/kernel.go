// Package kernel assembles the process layer into a bootable whole: the
// process table, the scheduler, the context switcher and the syscall
// dispatcher, driven by a timer tick. It is the privilege boundary the
// demo binary and the collaborating subsystems talk to.
package kernel

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"microkern/pkg/process"
	"microkern/pkg/syscall"
	"microkern/pkg/tracing"
)

// Version identifies the kernel build in tracing output.
const Version = "0.1.0"

// Stats is the whole-system snapshot surfaced to diagnostic tooling.
type Stats struct {
	BootID    string
	Ticks     uint64
	Processes process.SystemStats
	Scheduler process.SchedulerStats
}

// Kernel owns the process table, the scheduler, the context switcher and the
// syscall dispatcher. All cross-component sequencing (tick accounting,
// preemption, yield, exit) goes through it so the pieces never call each
// other directly.
type Kernel struct {
	table *process.Table
	sched *process.Scheduler
	ctx   *process.ContextSwitcher
	disp  *syscall.Dispatcher
	mem   *MemoryBank

	cfg Config

	mu     sync.Mutex
	booted bool
	bootID string
	ticks  uint64
}

// New builds a kernel from the given configuration. The kernel is not
// runnable until Boot is called.
func New(cfg Config) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	if cfg.Trace.Enabled {
		if err := tracing.Init("microkern", Version, cfg.Trace.Output); err != nil {
			return nil, err
		}
	}

	table := process.NewTable()
	sched := process.NewScheduler(table)
	sched.SetAlgorithm(process.Algorithm(cfg.Scheduler.Algorithm))

	k := &Kernel{
		table: table,
		sched: sched,
		ctx:   process.NewContextSwitcher(table),
		mem:   NewMemoryBank(process.UserHeapBase, 1<<20),
		cfg:   cfg,
	}
	k.disp = syscall.NewDispatcher(k, k.mem)
	return k, nil
}

// Boot seeds the kernel's own PCB as pid 0, makes it current, loads its
// registers as the live set and stamps the boot with a fresh identifier.
// Calling Boot twice is a no-op.
func (k *Kernel) Boot() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.booted {
		return
	}

	k.table.InstallKernel()
	if err := k.ctx.Restore(process.KernelPID); err != nil {
		log.WithError(err).Error("boot: restoring kernel registers")
	}

	k.booted = true
	k.bootID = uuid.NewString()
	log.WithFields(log.Fields{
		"bootID":    k.bootID,
		"algorithm": k.sched.Algorithm(),
		"timerHz":   k.cfg.Scheduler.TimerHz,
	}).Info("kernel booted")
}

// BootID returns the identifier stamped at boot, or "" before Boot.
func (k *Kernel) BootID() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.bootID
}

// Table exposes the process table to collaborators and tooling.
func (k *Kernel) Table() *process.Table {
	return k.table
}

// Memory exposes the memory bank callers write syscall arguments into.
func (k *Kernel) Memory() *MemoryBank {
	return k.mem
}

// OnTick is the timer interrupt path: charge one tick of CPU time to the
// current process, burn one tick of its slice, and preempt when the slice
// is spent.
func (k *Kernel) OnTick() {
	k.mu.Lock()
	k.ticks++
	k.mu.Unlock()

	if pid, ok := k.table.Current(); ok {
		k.table.UpdateCPUTime(pid, 1)
	}

	k.sched.Tick()
	if k.sched.ShouldPreempt() {
		k.ScheduleNext()
	}
}

// Run drives OnTick at the configured timer rate until ctx is cancelled.
func (k *Kernel) Run(ctx context.Context) {
	interval := time.Second / time.Duration(k.cfg.Scheduler.TimerHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.OnTick()
		}
	}
}

// ScheduleNext moves the current process back to Ready, asks the scheduler
// for a successor, switches the table to it and performs the register-level
// context switch. It reports the scheduled pid, or false when nothing is
// Ready.
func (k *Kernel) ScheduleNext() (process.PID, bool) {
	_, span := tracing.StartSpan(context.Background(), "kernel.schedule")

	from, hasFrom := k.table.Current()
	preempted := false
	if hasFrom {
		preempted = k.table.Preempt(from) == nil
	}

	next, ok := k.sched.SelectNext()
	if !ok {
		// Nothing Ready. Put the preempted process back on the CPU.
		if preempted {
			_ = k.table.SwitchTo(from)
		}
		tracing.EndSpan(span, nil)
		return 0, false
	}

	if err := k.table.SwitchTo(next); err != nil {
		tracing.EndSpan(span, err)
		log.WithError(err).WithField("pid", next).Error("schedule: switching table")
		return 0, false
	}

	var fromPID *process.PID
	if hasFrom {
		fromPID = &from
	}
	if err := k.ctx.Switch(fromPID, next); err != nil {
		tracing.EndSpan(span, err)
		log.WithError(err).WithField("pid", next).Error("schedule: context switch")
		return 0, false
	}

	span.WithAttributes(map[string]string{"to": strconv.FormatUint(uint64(next), 10)})
	tracing.EndSpan(span, nil)
	return next, true
}

// Syscall is the trap entry used by callers that present a full saved-register
// frame: the number and arguments are decoded from the frame and the encoded
// result lands in the frame's RAX slot.
func (k *Kernel) Syscall(f *syscall.Frame) {
	num, _ := f.Args()
	_, span := tracing.StartSpan(context.Background(), "kernel.syscall")
	span.WithAttributes(map[string]string{"syscall": syscall.Number(num).String()})
	syscall.Entry(f, k.disp)
	tracing.EndSpan(span, nil)
}

// Handle routes a syscall presented as bare number and arguments, for
// collaborators that have already unpacked a frame.
func (k *Kernel) Handle(num uint64, args syscall.Args) syscall.Result {
	return k.disp.Handle(num, args)
}

// CreateProcess registers a new process with the table.
func (k *Kernel) CreateProcess(name string, priority process.Priority, stackSize, heapSize uint64) (process.PID, error) {
	return k.table.Create(name, priority, stackSize, heapSize)
}

// ExitCurrent terminates the calling process and schedules its successor.
func (k *Kernel) ExitCurrent(exitCode int64) error {
	pid, ok := k.table.Current()
	if !ok {
		return process.ErrNoCurrentProcess
	}
	if err := k.table.Terminate(pid, exitCode); err != nil {
		return err
	}
	k.ScheduleNext()
	return nil
}

// Yield gives up the rest of the current slice and schedules the next Ready
// process.
func (k *Kernel) Yield() (process.PID, bool) {
	k.sched.ForceSwitch()
	return k.ScheduleNext()
}

// CurrentPID reports the process currently on the CPU.
func (k *Kernel) CurrentPID() (process.PID, bool) {
	return k.table.Current()
}

// Stats snapshots the whole system.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	bootID := k.bootID
	ticks := k.ticks
	k.mu.Unlock()

	return Stats{
		BootID:    bootID,
		Ticks:     ticks,
		Processes: k.table.SystemStats(),
		Scheduler: k.sched.Stats(),
	}
}
