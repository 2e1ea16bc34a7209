package process

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Algorithm selects the scheduling policy.
type Algorithm string

const (
	// RoundRobin cycles over the Ready set in pid order.
	RoundRobin Algorithm = "round-robin"
	// PriorityScheduling picks the highest-priority Ready process.
	PriorityScheduling Algorithm = "priority"
	// FirstComeFirstServed picks the oldest Ready process.
	FirstComeFirstServed Algorithm = "fcfs"
	// ShortestJobFirst picks the Ready process with the smallest static
	// memory footprint. The footprint is a stand-in for job size; no CPU
	// burst estimate exists in this kernel.
	ShortestJobFirst Algorithm = "sjf"
)

// TimeSlice is the tick budget a Running process is allotted before
// preemption is due. The slice length is the same for every priority level.
const TimeSlice = 100

// SchedulerStats is the observability snapshot exposed to diagnostic tooling.
type SchedulerStats struct {
	Current        *PID
	SliceRemaining uint64
	TotalSwitches  uint64
	Algorithm      Algorithm
}

// Scheduler selects the next ready process under a configurable policy and
// tracks time-slice consumption. It reads candidates and the shared "current"
// value through the Table; it keeps no private copy of either.
type Scheduler struct {
	mu             sync.Mutex
	table          *Table
	sliceRemaining uint64
	switches       uint64
	algorithm      Algorithm
}

// NewScheduler creates a round-robin scheduler over the given table with a
// full time slice.
func NewScheduler(table *Table) *Scheduler {
	return &Scheduler{
		table:          table,
		sliceRemaining: TimeSlice,
		algorithm:      RoundRobin,
	}
}

// SetAlgorithm switches the scheduling policy.
func (s *Scheduler) SetAlgorithm(algorithm Algorithm) {
	s.mu.Lock()
	s.algorithm = algorithm
	s.mu.Unlock()
	log.WithField("algorithm", algorithm).Info("scheduler algorithm set")
}

// Algorithm returns the active scheduling policy.
func (s *Scheduler) Algorithm() Algorithm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.algorithm
}

// SelectNext picks the next process to run from the Ready set, or reports
// false if no process is Ready. On success it records the selection as the
// shared current value, resets the time slice and bumps the switch counter.
// State changes remain the caller's job via Table.SwitchTo.
func (s *Scheduler) SelectNext() (PID, bool) {
	ready := readyCandidates(s.table.Candidates())
	if len(ready) == 0 {
		return 0, false
	}

	s.mu.Lock()
	algorithm := s.algorithm
	s.mu.Unlock()

	var next PID
	switch algorithm {
	case PriorityScheduling:
		next = pickByPriority(ready)
	case FirstComeFirstServed:
		next = pickByCreation(ready)
	case ShortestJobFirst:
		next = pickByFootprint(ready)
	default:
		cur, hasCur := s.table.Current()
		next = pickRoundRobin(ready, cur, hasCur)
	}

	if err := s.table.SetCurrent(next); err != nil {
		return 0, false
	}

	s.mu.Lock()
	s.sliceRemaining = TimeSlice
	s.switches++
	s.mu.Unlock()

	return next, true
}

// Tick decrements the remaining time slice by one, floored at zero. Called
// once per timer interrupt, strictly before any preemption check for that
// tick.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sliceRemaining > 0 {
		s.sliceRemaining--
	}
}

// ShouldPreempt reports whether the current process has exhausted its slice.
func (s *Scheduler) ShouldPreempt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sliceRemaining == 0
}

// ForceSwitch exhausts the slice immediately so the next preemption check
// fires. Used to implement cooperative yield.
func (s *Scheduler) ForceSwitch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sliceRemaining = 0
}

// ResetSlice refills the time slice without a scheduling decision.
func (s *Scheduler) ResetSlice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sliceRemaining = TimeSlice
}

// TotalSwitches returns the number of scheduling decisions made.
func (s *Scheduler) TotalSwitches() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switches
}

// Stats returns the scheduler's observability snapshot.
func (s *Scheduler) Stats() SchedulerStats {
	var cur *PID
	if pid, ok := s.table.Current(); ok {
		cur = &pid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStats{
		Current:        cur,
		SliceRemaining: s.sliceRemaining,
		TotalSwitches:  s.switches,
		Algorithm:      s.algorithm,
	}
}

// readyCandidates filters a candidate snapshot down to Ready processes. The
// snapshot arrives in pid order and the order is preserved, which is what
// makes every tie-break below resolve to the lowest pid.
func readyCandidates(all []Candidate) []Candidate {
	ready := all[:0:0]
	for _, c := range all {
		if c.State == StateReady {
			ready = append(ready, c)
		}
	}
	return ready
}

// pickRoundRobin returns the successor of the current process in pid order,
// wrapping. When there is no current process, or it is not Ready itself, the
// first Ready process wins.
func pickRoundRobin(ready []Candidate, current PID, hasCurrent bool) PID {
	if hasCurrent {
		for i, c := range ready {
			if c.PID == current {
				return ready[(i+1)%len(ready)].PID
			}
		}
	}
	return ready[0].PID
}

// pickByPriority returns the Ready process with the numerically highest
// priority, lowest pid winning ties.
func pickByPriority(ready []Candidate) PID {
	best := ready[0]
	for _, c := range ready[1:] {
		if c.Priority > best.Priority {
			best = c
		}
	}
	return best.PID
}

// pickByCreation returns the Ready process with the smallest creation
// sequence number, lowest pid winning ties.
func pickByCreation(ready []Candidate) PID {
	best := ready[0]
	for _, c := range ready[1:] {
		if c.CreationTime < best.CreationTime {
			best = c
		}
	}
	return best.PID
}

// pickByFootprint returns the Ready process with the smallest memory
// footprint, lowest pid winning ties.
func pickByFootprint(ready []Candidate) PID {
	best := ready[0]
	for _, c := range ready[1:] {
		if c.MemoryUsage < best.MemoryUsage {
			best = c
		}
	}
	return best.PID
}
