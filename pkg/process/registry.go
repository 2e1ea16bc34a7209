package process

import (
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"microkern/pkg/cpu"
)

// ProcessInfo is the (pid, name, state) tuple returned by List.
type ProcessInfo struct {
	PID   PID
	Name  string
	State State
}

// Candidate is the per-PCB view the scheduler reads when making a decision.
type Candidate struct {
	PID          PID
	State        State
	Priority     Priority
	CreationTime uint64
	MemoryUsage  uint64
}

// Stats summarises one process for diagnostic tooling.
type Stats struct {
	PID          PID
	Name         string
	State        State
	Priority     Priority
	CPUTime      uint64
	MemoryUsage  uint64
	CreationTime uint64
}

// SystemStats summarises the whole table.
type SystemStats struct {
	Total      int
	Running    int
	Ready      int
	Blocked    int
	Terminated int
	Current    *PID
}

// Table owns the mapping from process identifier to PCB, issues identifiers
// and enforces the process state machine. It is also the single owner of the
// "current process" value; the scheduler and context switcher read and update
// it through the Table rather than keeping private copies.
//
// The table lock is a plain mutex that is never held across a blocking
// operation, so it is safe to take from interrupt-driven paths on a single
// core.
type Table struct {
	mu         sync.Mutex
	procs      map[PID]*PCB
	nextPID    uint64
	seq        uint64
	current    PID
	hasCurrent bool
}

// NewTable creates an empty process table. User pids are issued from 1; the
// kernel's own PCB is installed separately by InstallKernel.
func NewTable() *Table {
	return &Table{
		procs:   make(map[PID]*PCB),
		nextPID: 1,
	}
}

// InstallKernel seeds the table with the kernel's own PCB: pid 0, Critical
// priority, already Running, and marks it current. Called once at boot before
// any other process exists.
func (t *Table) InstallKernel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.procs[KernelPID]; ok {
		return
	}

	pcb := &PCB{
		PID:              KernelPID,
		Name:             "kernel",
		State:            StateRunning,
		Priority:         PriorityCritical,
		Registers:        cpu.NewRegisters(),
		StackTop:         KernelStackBase,
		StackSize:        0x10000,
		HeapStart:        UserHeapBase,
		HeapSize:         0x1000000,
		WorkingDirectory: "/",
		CreationTime:     t.seq,
		MemoryUsage:      0x10000,
	}
	t.seq++
	t.procs[KernelPID] = pcb
	t.current = KernelPID
	t.hasCurrent = true

	log.WithField("pid", KernelPID).Info("process table initialized with kernel process")
}

// Create allocates the next unused pid and builds a PCB in state Ready. The
// stack and heap are placed at deterministic per-pid addresses so that
// regions of equal size never overlap across processes. The parent is the
// current process, if any.
func (t *Table) Create(name string, priority Priority, stackSize, heapSize uint64) (PID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pid := PID(t.nextPID)
	t.nextPID++

	if _, ok := t.procs[pid]; ok {
		return 0, ErrProcessAlreadyExists
	}

	var parent *PID
	if t.hasCurrent {
		p := t.current
		parent = &p
	}

	pcb := &PCB{
		PID:              pid,
		ParentPID:        parent,
		Name:             name,
		State:            StateReady,
		Priority:         priority,
		Registers:        cpu.NewRegisters(),
		StackTop:         UserStackCeiling - uint64(pid)*stackSize,
		StackSize:        stackSize,
		HeapStart:        UserHeapBase + uint64(pid)*heapSize,
		HeapSize:         heapSize,
		WorkingDirectory: "/",
		CreationTime:     t.seq,
		MemoryUsage:      stackSize + heapSize,
	}
	t.seq++
	t.procs[pid] = pcb

	log.WithFields(log.Fields{
		"pid":      pid,
		"name":     name,
		"priority": priority,
	}).Info("created process")

	return pid, nil
}

// Terminate sets the target to Terminated, records the exit code and clears
// "current" if the target was current. The PCB storage is not released; the
// block remains queryable until Reap. Terminating an already terminated pid
// is a no-op success.
func (t *Table) Terminate(pid PID, exitCode int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return ErrProcessNotFound
	}
	if pcb.State == StateTerminated {
		return nil
	}

	pcb.State = StateTerminated
	pcb.ExitCode = &exitCode

	if t.hasCurrent && t.current == pid {
		t.hasCurrent = false
	}

	log.WithFields(log.Fields{
		"pid":  pid,
		"exit": exitCode,
	}).Info("terminated process")

	return nil
}

// Reap removes a terminated PCB from the table, releasing its slot.
func (t *Table) Reap(pid PID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return ErrProcessNotFound
	}
	if pcb.State != StateTerminated {
		return ErrInvalidTransition
	}
	delete(t.procs, pid)
	return nil
}

// BlockCurrent transitions the current process Running -> Blocked and clears
// "current".
func (t *Table) BlockCurrent() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasCurrent {
		return ErrNoCurrentProcess
	}
	pcb, ok := t.procs[t.current]
	if !ok {
		return ErrProcessNotFound
	}
	if err := pcb.transition(StateBlocked); err != nil {
		return err
	}
	log.WithField("pid", t.current).Info("blocked process")
	t.hasCurrent = false
	return nil
}

// Unblock transitions a process Blocked -> Ready. Any other source state is
// an error.
func (t *Table) Unblock(pid PID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return ErrProcessNotFound
	}
	if pcb.State != StateBlocked {
		return ErrProcessNotBlocked
	}
	pcb.State = StateReady
	log.WithField("pid", pid).Info("unblocked process")
	return nil
}

// SwitchTo transitions the target to Running and sets it as current. This is
// pure bookkeeping; register copies are the context switcher's job.
func (t *Table) SwitchTo(pid PID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok || pcb.State == StateTerminated {
		return ErrProcessNotFound
	}
	if err := pcb.transition(StateRunning); err != nil {
		return err
	}
	t.current = pid
	t.hasCurrent = true
	return nil
}

// Preempt transitions a Running process back to Ready. The "current" value is
// left in place; the following scheduling decision moves it.
func (t *Table) Preempt(pid PID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return ErrProcessNotFound
	}
	return pcb.transition(StateReady)
}

// Current returns the current process pid, if any.
func (t *Table) Current() (PID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.hasCurrent
}

// SetCurrent records pid as the current process without touching its state.
// The scheduler and context switcher use it to advance the shared "current"
// value.
func (t *Table) SetCurrent(pid PID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.procs[pid]; !ok {
		return ErrProcessNotFound
	}
	t.current = pid
	t.hasCurrent = true
	return nil
}

// ClearCurrent drops the current process value.
func (t *Table) ClearCurrent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hasCurrent = false
}

// Get returns a copy of the PCB for pid. The copy keeps the table's exclusive
// ownership of the stored block.
func (t *Table) Get(pid PID) (*PCB, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return nil, ErrProcessNotFound
	}
	return pcb.clone(), nil
}

// List returns (pid, name, state) tuples for every process in pid order,
// terminated ones included.
func (t *Table) List() []ProcessInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ProcessInfo, 0, len(t.procs))
	for _, pid := range t.pidsLocked() {
		pcb := t.procs[pid]
		out = append(out, ProcessInfo{PID: pid, Name: pcb.Name, State: pcb.State})
	}
	return out
}

// Count returns the number of PCBs in the table.
func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.procs)
}

// Candidates returns the scheduler's view of every PCB in pid order.
func (t *Table) Candidates() []Candidate {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Candidate, 0, len(t.procs))
	for _, pid := range t.pidsLocked() {
		pcb := t.procs[pid]
		out = append(out, Candidate{
			PID:          pid,
			State:        pcb.State,
			Priority:     pcb.Priority,
			CreationTime: pcb.CreationTime,
			MemoryUsage:  pcb.MemoryUsage,
		})
	}
	return out
}

// SaveRegisters copies a register snapshot into the target PCB.
func (t *Table) SaveRegisters(pid PID, regs cpu.Registers) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return ErrProcessNotFound
	}
	pcb.Registers = regs
	return nil
}

// LoadRegisters copies the target PCB's stored register snapshot out.
func (t *Table) LoadRegisters(pid PID) (cpu.Registers, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return cpu.Registers{}, ErrProcessNotFound
	}
	return pcb.Registers, nil
}

// UpdateCPUTime charges delta ticks to pid's accounting. Unknown pids are
// ignored; accounting is best effort.
func (t *Table) UpdateCPUTime(pid PID, delta uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pcb, ok := t.procs[pid]; ok {
		pcb.CPUTime += delta
	}
}

// SetPriority changes the scheduling priority of a process.
func (t *Table) SetPriority(pid PID, priority Priority) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return ErrProcessNotFound
	}
	pcb.Priority = priority
	return nil
}

// ProcessStats returns the diagnostic summary for one process.
func (t *Table) ProcessStats(pid PID) (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcb, ok := t.procs[pid]
	if !ok {
		return Stats{}, ErrProcessNotFound
	}
	return Stats{
		PID:          pcb.PID,
		Name:         pcb.Name,
		State:        pcb.State,
		Priority:     pcb.Priority,
		CPUTime:      pcb.CPUTime,
		MemoryUsage:  pcb.MemoryUsage,
		CreationTime: pcb.CreationTime,
	}, nil
}

// SystemStats returns counts per state and the current pid.
func (t *Table) SystemStats() SystemStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := SystemStats{Total: len(t.procs)}
	for _, pcb := range t.procs {
		switch pcb.State {
		case StateRunning:
			s.Running++
		case StateReady:
			s.Ready++
		case StateBlocked:
			s.Blocked++
		case StateTerminated:
			s.Terminated++
		}
	}
	if t.hasCurrent {
		cur := t.current
		s.Current = &cur
	}
	return s
}

// pidsLocked returns all pids in ascending order. Caller holds t.mu.
func (t *Table) pidsLocked() []PID {
	pids := make([]PID, 0, len(t.procs))
	for pid := range t.procs {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}
