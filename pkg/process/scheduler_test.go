package process

import "testing"

func newReadyTable(t *testing.T, n int) (*Table, []PID) {
	t.Helper()
	table := NewTable()
	pids := make([]PID, 0, n)
	for i := 0; i < n; i++ {
		pid, err := table.Create("p", PriorityNormal, 0x1000, 0x1000)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		pids = append(pids, pid)
	}
	return table, pids
}

// TestRoundRobinCycle tests that round-robin cycles p1, p2, p3, p1 over a
// stable Ready set with no current process at the start.
func TestRoundRobinCycle(t *testing.T) {
	table, pids := newReadyTable(t, 3)
	sched := NewScheduler(table)

	want := []PID{pids[0], pids[1], pids[2], pids[0]}
	for i, w := range want {
		got, ok := sched.SelectNext()
		if !ok {
			t.Fatalf("SelectNext() call %d returned none", i)
		}
		if got != w {
			t.Errorf("SelectNext() call %d = %d, want %d", i, got, w)
		}
	}
}

// TestRoundRobinSkipsNonReady tests that only Ready processes are candidates.
func TestRoundRobinSkipsNonReady(t *testing.T) {
	table, pids := newReadyTable(t, 3)
	sched := NewScheduler(table)

	table.Terminate(pids[1], 0)

	first, _ := sched.SelectNext()
	second, _ := sched.SelectNext()
	if first != pids[0] || second != pids[2] {
		t.Errorf("SelectNext() = %d then %d, want %d then %d", first, second, pids[0], pids[2])
	}
}

// TestRoundRobinCurrentNotReady tests that a current process outside the
// Ready set does not shift the rotation: selection falls back to the first
// Ready process in pid order.
func TestRoundRobinCurrentNotReady(t *testing.T) {
	table, pids := newReadyTable(t, 3)
	sched := NewScheduler(table)

	if err := table.SwitchTo(pids[1]); err != nil {
		t.Fatalf("SwitchTo() error = %v", err)
	}

	got, ok := sched.SelectNext()
	if !ok {
		t.Fatal("SelectNext() returned none")
	}
	if got != pids[0] {
		t.Errorf("SelectNext() = %d, want %d (first Ready in pid order)", got, pids[0])
	}
}

// TestSelectNextEmpty tests the empty Ready set.
func TestSelectNextEmpty(t *testing.T) {
	table := NewTable()
	sched := NewScheduler(table)

	if _, ok := sched.SelectNext(); ok {
		t.Error("SelectNext() on empty table returned a pid")
	}

	// A selection that returns none must not count as a switch.
	if sched.TotalSwitches() != 0 {
		t.Errorf("TotalSwitches() = %d, want 0", sched.TotalSwitches())
	}
}

// TestPriorityTieBreak tests that the lowest pid wins among equal top
// priorities.
func TestPriorityTieBreak(t *testing.T) {
	table := NewTable()
	p1, _ := table.Create("n", PriorityNormal, 1, 1)
	p2, _ := table.Create("c1", PriorityCritical, 1, 1)
	p3, _ := table.Create("c2", PriorityCritical, 1, 1)

	sched := NewScheduler(table)
	sched.SetAlgorithm(PriorityScheduling)

	got, ok := sched.SelectNext()
	if !ok || got != p2 {
		t.Errorf("SelectNext() = %d,%v, want %d (lowest pid among Critical)", got, ok, p2)
	}
	_, _ = p1, p3
}

// TestFCFSOrder tests first-come first-served selection.
func TestFCFSOrder(t *testing.T) {
	table := NewTable()
	p1, _ := table.Create("old", PriorityLow, 1, 1)
	p2, _ := table.Create("new", PriorityCritical, 1, 1)

	sched := NewScheduler(table)
	sched.SetAlgorithm(FirstComeFirstServed)

	got, _ := sched.SelectNext()
	if got != p1 {
		t.Errorf("SelectNext() = %d, want %d (oldest creation, priority ignored)", got, p1)
	}
	_ = p2
}

// TestSJFPicksSmallestFootprint tests shortest-job-first selection by static
// memory footprint.
func TestSJFPicksSmallestFootprint(t *testing.T) {
	table := NewTable()
	p1, _ := table.Create("big", PriorityNormal, 0x10000, 0x10000)
	p2, _ := table.Create("small", PriorityNormal, 0x100, 0x100)

	sched := NewScheduler(table)
	sched.SetAlgorithm(ShortestJobFirst)

	got, _ := sched.SelectNext()
	if got != p2 {
		t.Errorf("SelectNext() = %d, want %d (smallest footprint)", got, p2)
	}
	_ = p1
}

// TestTickPreemption tests that the 100th tick after a selection makes
// ShouldPreempt true and no earlier tick does.
func TestTickPreemption(t *testing.T) {
	table, _ := newReadyTable(t, 1)
	sched := NewScheduler(table)

	if _, ok := sched.SelectNext(); !ok {
		t.Fatal("SelectNext() returned none")
	}

	for i := 1; i < TimeSlice; i++ {
		sched.Tick()
		if sched.ShouldPreempt() {
			t.Fatalf("ShouldPreempt() true after %d ticks, want false before %d", i, TimeSlice)
		}
	}
	sched.Tick()
	if !sched.ShouldPreempt() {
		t.Errorf("ShouldPreempt() false after %d ticks, want true", TimeSlice)
	}

	// The counter floors at zero.
	sched.Tick()
	if !sched.ShouldPreempt() {
		t.Error("ShouldPreempt() false after extra tick")
	}
}

// TestForceSwitch tests cooperative yield.
func TestForceSwitch(t *testing.T) {
	table, _ := newReadyTable(t, 1)
	sched := NewScheduler(table)
	sched.SelectNext()

	if sched.ShouldPreempt() {
		t.Fatal("ShouldPreempt() true right after selection")
	}
	sched.ForceSwitch()
	if !sched.ShouldPreempt() {
		t.Error("ShouldPreempt() false after ForceSwitch")
	}

	sched.ResetSlice()
	if sched.ShouldPreempt() {
		t.Error("ShouldPreempt() true after ResetSlice")
	}
}

// TestSchedulerStats tests the stats snapshot.
func TestSchedulerStats(t *testing.T) {
	table, pids := newReadyTable(t, 2)
	sched := NewScheduler(table)

	sched.SelectNext()
	sched.SelectNext()
	sched.Tick()

	stats := sched.Stats()
	if stats.TotalSwitches != 2 {
		t.Errorf("TotalSwitches = %d, want 2", stats.TotalSwitches)
	}
	if stats.SliceRemaining != TimeSlice-1 {
		t.Errorf("SliceRemaining = %d, want %d", stats.SliceRemaining, TimeSlice-1)
	}
	if stats.Algorithm != RoundRobin {
		t.Errorf("Algorithm = %s, want %s", stats.Algorithm, RoundRobin)
	}
	if stats.Current == nil || *stats.Current != pids[1] {
		t.Errorf("Current = %v, want %d", stats.Current, pids[1])
	}
}

// TestSelectResetsSlice tests that each selection refills the time slice.
func TestSelectResetsSlice(t *testing.T) {
	table, _ := newReadyTable(t, 2)
	sched := NewScheduler(table)

	sched.SelectNext()
	for i := 0; i < TimeSlice; i++ {
		sched.Tick()
	}
	if !sched.ShouldPreempt() {
		t.Fatal("slice not exhausted")
	}

	sched.SelectNext()
	if sched.ShouldPreempt() {
		t.Error("ShouldPreempt() true after fresh selection, slice not reset")
	}
}
