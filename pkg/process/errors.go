package process

import "errors"

// Process management errors. These are returned as ordinary values up to the
// syscall dispatcher, which maps them onto the wire error codes before they
// cross the privilege boundary.
var (
	// ErrProcessNotFound is returned when a pid has no PCB, or its PCB is
	// terminated and the operation is not a query.
	ErrProcessNotFound = errors.New("process not found")
	// ErrProcessAlreadyExists is returned when a pid collides in the table.
	ErrProcessAlreadyExists = errors.New("process already exists")
	// ErrNoCurrentProcess is returned by operations that need a current
	// process when none is set.
	ErrNoCurrentProcess = errors.New("no current process")
	// ErrProcessNotBlocked is returned by Unblock when the target is in any
	// state other than Blocked.
	ErrProcessNotBlocked = errors.New("process not blocked")
	// ErrInsufficientMemory is returned when a PCB's stack or heap cannot be
	// placed.
	ErrInsufficientMemory = errors.New("insufficient memory")
	// ErrInvalidProcessID is returned for identifiers outside the issued
	// range.
	ErrInvalidProcessID = errors.New("invalid process ID")
	// ErrPermissionDenied is returned when a capability check fails.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidTransition is returned for a state change the process state
	// machine does not allow.
	ErrInvalidTransition = errors.New("invalid state transition")
)
