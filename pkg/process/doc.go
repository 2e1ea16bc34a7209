/*
Package process implements the microkernel's process layer: process
identity, the process control block registry, the scheduling policy and
the context switch orchestration.

The package is built around three singletons that the kernel wires
together at boot:

  - Table: owns every process control block (PCB), issues process
    identifiers and enforces the process state machine. It is the single
    source of truth for which process is "current".
  - Scheduler: selects the next ready process under a configurable
    policy and tracks time-slice consumption and preemption decisions.
  - ContextSwitcher: performs the save-then-restore sequencing between
    two PCBs. It is the only component permitted to mutate the live
    register set; everything else manipulates stored snapshots through
    pid-keyed Table lookups.

# Process States

Processes move through four states:

  - Ready: runnable, waiting for the CPU
  - Running: currently executing
  - Blocked: waiting for I/O or an event
  - Terminated: finished; the PCB stays queryable until reaped

Terminated is absorbing. A terminated PCB keeps its exit code and
remains visible to Get and List so that diagnostic tooling can collect
it, matching a zombie-like retention policy.

# Scheduling

Four policies are available: round-robin, priority, first-come
first-served and shortest-job-first. Every policy restricts itself to
Ready processes and breaks ties by ascending pid. The time slice is a
fixed 100 ticks regardless of priority.

# Usage

	table := process.NewTable()
	sched := process.NewScheduler(table)
	ctx := process.NewContextSwitcher(table)

	pid, err := table.Create("worker", process.PriorityNormal, 0x4000, 0x10000)
	if err != nil {
		// handle error
	}

	if next, ok := sched.SelectNext(); ok {
		cur, hasCur := table.Current()
		var from *process.PID
		if hasCur {
			from = &cur
		}
		_ = table.SwitchTo(next)
		_ = ctx.Switch(from, next)
	}
	_ = pid
*/
package process
