package process

// State is a process lifecycle state.
type State string

const (
	// StateReady indicates the process is runnable and waiting for the CPU.
	StateReady State = "ready"
	// StateRunning indicates the process is currently executing.
	StateRunning State = "running"
	// StateBlocked indicates the process is waiting for I/O or an event.
	StateBlocked State = "blocked"
	// StateTerminated indicates the process has finished. Terminated is
	// absorbing: no transition leads out of it.
	StateTerminated State = "terminated"
)

// StateTransition represents a valid state transition.
type StateTransition struct {
	From State
	To   State
}

// ValidTransitions defines all valid state transitions.
var ValidTransitions = []StateTransition{
	// Scheduled: Ready -> Running
	{From: StateReady, To: StateRunning},
	// Preempted or yielded: Running -> Ready
	{From: StateRunning, To: StateReady},
	// Blocking call: Running -> Blocked
	{From: StateRunning, To: StateBlocked},
	// Unblocked: Blocked -> Ready
	{From: StateBlocked, To: StateReady},
	// Explicit termination from any live state
	{From: StateReady, To: StateTerminated},
	{From: StateRunning, To: StateTerminated},
	{From: StateBlocked, To: StateTerminated},
}

// IsValidTransition checks if a state transition is valid.
func IsValidTransition(from, to State) bool {
	for _, t := range ValidTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// transition applies a state change to a PCB, enforcing the machine. The
// caller holds the table lock.
func (p *PCB) transition(to State) error {
	if p.State == to {
		return nil
	}
	if !IsValidTransition(p.State, to) {
		return ErrInvalidTransition
	}
	p.State = to
	return nil
}
