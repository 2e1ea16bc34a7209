package process

import (
	"testing"

	"microkern/pkg/cpu"
)

// TestSaveRestoreRoundTrip tests that a saved snapshot restores byte for
// byte.
func TestSaveRestoreRoundTrip(t *testing.T) {
	table := NewTable()
	ctx := NewContextSwitcher(table)
	pid, _ := table.Create("rt", PriorityNormal, 0x1000, 0x1000)

	live := ctx.Live()
	live.RAX = 0x1111
	live.RBX = 0x2222
	live.R15 = 0x3333
	live.RIP = 0x400123
	ctx.SetLive(live)

	if err := ctx.Save(pid); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Clobber the live set, then restore.
	clobbered := cpu.NewRegisters()
	clobbered.RAX = 0xdead
	clobbered.RIP = 0xdead
	ctx.SetLive(clobbered)
	if err := ctx.Restore(pid); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if got := ctx.Live(); got != live {
		t.Errorf("restored registers differ from saved:\ngot:\n%s\nwant:\n%s", got, live)
	}
}

// TestSwitchSequencing tests the switch(None, p1) then switch(Some(p1), p2)
// sequence: p1's PCB holds the registers that were live just before the
// second switch, and p2 is current.
func TestSwitchSequencing(t *testing.T) {
	table := NewTable()
	ctx := NewContextSwitcher(table)
	p1, _ := table.Create("one", PriorityNormal, 1, 1)
	p2, _ := table.Create("two", PriorityNormal, 1, 1)

	if err := ctx.Switch(nil, p1); err != nil {
		t.Fatalf("Switch(nil, p1) error = %v", err)
	}

	live := ctx.Live()
	live.RAX = 0xfeed
	live.RSP = 0x7000
	ctx.SetLive(live)

	if err := ctx.Switch(&p1, p2); err != nil {
		t.Fatalf("Switch(p1, p2) error = %v", err)
	}

	saved, _ := table.Get(p1)
	if saved.Registers != live {
		t.Errorf("p1 saved registers = %+v, want the pre-switch live set", saved.Registers)
	}
	cur, ok := table.Current()
	if !ok || cur != p2 {
		t.Errorf("Current() = %d,%v, want %d,true", cur, ok, p2)
	}
}

// TestSwitchSaveFailure tests that a failing save aborts the switch.
func TestSwitchSaveFailure(t *testing.T) {
	table := NewTable()
	ctx := NewContextSwitcher(table)
	p1, _ := table.Create("one", PriorityNormal, 1, 1)
	table.SwitchTo(p1)

	missing := PID(99)
	before := ctx.Live()

	if err := ctx.Switch(&missing, p1); err != ErrProcessNotFound {
		t.Fatalf("Switch(missing, p1) error = %v, want %v", err, ErrProcessNotFound)
	}
	if ctx.Live() != before {
		t.Error("live registers changed although save failed before restore")
	}
}

// TestSwitchRestoreFailure tests that the saved state stays valid when the
// restore side fails.
func TestSwitchRestoreFailure(t *testing.T) {
	table := NewTable()
	ctx := NewContextSwitcher(table)
	p1, _ := table.Create("one", PriorityNormal, 1, 1)

	live := ctx.Live()
	live.RBX = 0xabc
	ctx.SetLive(live)

	if err := ctx.Switch(&p1, PID(99)); err != ErrProcessNotFound {
		t.Fatalf("Switch(p1, missing) error = %v, want %v", err, ErrProcessNotFound)
	}

	saved, _ := table.Get(p1)
	if saved.Registers != live {
		t.Error("p1 saved state corrupted by failed restore")
	}
}

// TestKernelStackBase tests the fixed kernel stack address.
func TestKernelStackBase(t *testing.T) {
	ctx := NewContextSwitcher(NewTable())
	if ctx.KernelStackBase() != KernelStackBase {
		t.Errorf("KernelStackBase() = %#x, want %#x", ctx.KernelStackBase(), uint64(KernelStackBase))
	}
}
