package process

import "microkern/pkg/cpu"

// PID is an opaque process identifier, unique for the lifetime of the kernel
// and never reused. Identifiers are issued monotonically starting at 1; 0 is
// reserved for the kernel's own bookkeeping process.
type PID uint64

// KernelPID identifies the kernel's own PCB, installed at boot.
const KernelPID PID = 0

// Priority is the scheduling priority of a process. Larger values win under
// priority scheduling.
type Priority int

const (
	// PriorityLow is the lowest priority level.
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ResourceKind classifies the resource a capability grants access to.
type ResourceKind int

const (
	// ResourceFile grants access to a file catalog entry.
	ResourceFile ResourceKind = iota
	ResourceDevice
	ResourceMemory
	ResourceNetwork
	ResourceSystem
)

// Capability grants a process a set of permissions on one resource.
type Capability struct {
	// Resource is the kind of resource the capability covers.
	Resource ResourceKind
	// ResourceID identifies the resource instance.
	ResourceID uint64
	// Read, Write, Execute and Admin are the granted permissions.
	Read    bool
	Write   bool
	Execute bool
	Admin   bool
}

// Virtual address plan for per-process stack and heap placement. Stacks grow
// down from just under the canonical user-space ceiling; heaps grow up from a
// low base. Offsetting both by pid keeps regions of equal size from
// overlapping across processes.
const (
	// UserStackCeiling is the top of the highest user stack.
	UserStackCeiling = 0x7FFF_FFFF_F000
	// UserHeapBase is the start of the lowest user heap.
	UserHeapBase = 0x1000_0000
	// KernelStackBase is the kernel's own stack region.
	KernelStackBase = 0xFFFF_8000_0000_0000
)

// PCB is a process control block: the per-process record of identity, state,
// resources and the stored register snapshot. PCBs are owned exclusively by
// the Table; other components access them only through pid-keyed lookups and
// never retain a reference.
type PCB struct {
	// PID is the unique process identifier.
	PID PID
	// ParentPID is the identifier of the creating process, nil for the
	// kernel PCB.
	ParentPID *PID
	// Name is the human-readable process name.
	Name string
	// State is the current lifecycle state.
	State State
	// Priority is the scheduling priority.
	Priority Priority
	// Registers is the stored register snapshot, copied on save/restore.
	Registers cpu.Registers
	// StackTop and StackSize describe the process stack region.
	StackTop  uint64
	StackSize uint64
	// HeapStart and HeapSize describe the process heap region.
	HeapStart uint64
	HeapSize  uint64
	// PageTable is an opaque handle installed by the memory collaborator,
	// nil until then.
	PageTable *uint64
	// Capabilities lists the resource grants held by the process.
	Capabilities []Capability
	// OpenFiles lists open file handles.
	OpenFiles []uint64
	// WorkingDirectory is the current directory path.
	WorkingDirectory string
	// ExitCode is set only once the process is Terminated.
	ExitCode *int64
	// CreationTime is a monotonic creation sequence number, used by
	// first-come first-served scheduling.
	CreationTime uint64
	// CPUTime is the accumulated tick count charged to the process.
	CPUTime uint64
	// MemoryUsage is the static footprint: stack size plus heap size.
	MemoryUsage uint64
}

// clone returns a deep copy of the PCB. Queries hand copies out so that the
// Table keeps exclusive ownership of the stored block.
func (p *PCB) clone() *PCB {
	c := *p
	if p.ParentPID != nil {
		pp := *p.ParentPID
		c.ParentPID = &pp
	}
	if p.PageTable != nil {
		pt := *p.PageTable
		c.PageTable = &pt
	}
	if p.ExitCode != nil {
		ec := *p.ExitCode
		c.ExitCode = &ec
	}
	c.Capabilities = append([]Capability(nil), p.Capabilities...)
	c.OpenFiles = append([]uint64(nil), p.OpenFiles...)
	return &c
}
