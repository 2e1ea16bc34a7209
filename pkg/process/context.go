package process

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"microkern/pkg/cpu"
)

// ContextSwitcher performs save-then-restore sequencing between two PCBs and
// owns the live register set. No other component may mutate live registers;
// everything else works on stored snapshots through the Table.
type ContextSwitcher struct {
	mu              sync.Mutex
	table           *Table
	live            cpu.Registers
	kernelStackBase uint64
}

// NewContextSwitcher creates a switcher over the given table with a reset
// live register set.
func NewContextSwitcher(table *Table) *ContextSwitcher {
	return &ContextSwitcher{
		table:           table,
		live:            cpu.NewRegisters(),
		kernelStackBase: KernelStackBase,
	}
}

// Live returns a copy of the live register set.
func (c *ContextSwitcher) Live() cpu.Registers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// SetLive replaces the live register set. Used by the trap path after the
// saved frame has been popped back into registers.
func (c *ContextSwitcher) SetLive(regs cpu.Registers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = regs
}

// KernelStackBase returns the fixed base address of the kernel stack.
func (c *ContextSwitcher) KernelStackBase() uint64 {
	return c.kernelStackBase
}

// Save copies the live register snapshot into the target PCB.
func (c *ContextSwitcher) Save(pid PID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(pid)
}

// Restore copies the target PCB's stored snapshot into the live register set
// and marks the target current.
func (c *ContextSwitcher) Restore(pid PID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restore(pid)
}

// Switch saves from (when present) and then restores to. The switcher lock is
// held for the whole sequence. On a save failure the restore is not
// attempted; on a restore failure the saved state of from remains valid.
func (c *ContextSwitcher) Switch(from *PID, to PID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if from != nil {
		if err := c.save(*from); err != nil {
			return err
		}
	}
	if err := c.restore(to); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from": pidOrNone(from),
		"to":   to,
	}).Debug("context switch")
	return nil
}

func (c *ContextSwitcher) save(pid PID) error {
	return c.table.SaveRegisters(pid, c.live)
}

func (c *ContextSwitcher) restore(pid PID) error {
	regs, err := c.table.LoadRegisters(pid)
	if err != nil {
		return err
	}
	c.live = regs
	return c.table.SetCurrent(pid)
}

func pidOrNone(pid *PID) interface{} {
	if pid == nil {
		return "none"
	}
	return *pid
}
