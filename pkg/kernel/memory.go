package kernel

import (
	"errors"
)

// ErrBadAddress is returned for reads or writes outside the bank.
var ErrBadAddress = errors.New("kernel: address range outside memory bank")

// MemoryBank is a bounded byte region standing in for the memory subsystem.
// The syscall dispatcher reads pointer arguments through it; the demo and
// tests write process names into it before issuing CreateProcess.
type MemoryBank struct {
	base uint64
	data []byte
}

// NewMemoryBank maps size bytes starting at base.
func NewMemoryBank(base, size uint64) *MemoryBank {
	return &MemoryBank{base: base, data: make([]byte, size)}
}

// Base returns the first mapped address.
func (m *MemoryBank) Base() uint64 {
	return m.base
}

// Size returns the mapped length in bytes.
func (m *MemoryBank) Size() uint64 {
	return uint64(len(m.data))
}

// ReadBytes copies length bytes starting at addr. The whole range must fall
// inside the bank.
func (m *MemoryBank) ReadBytes(addr, length uint64) ([]byte, error) {
	off, err := m.offset(addr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[off:off+length])
	return out, nil
}

// WriteBytes copies data into the bank starting at addr.
func (m *MemoryBank) WriteBytes(addr uint64, data []byte) error {
	off, err := m.offset(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(m.data[off:], data)
	return nil
}

// WriteString places s at addr and returns its length, ready to pass as the
// (pointer, length) pair of a CreateProcess call.
func (m *MemoryBank) WriteString(addr uint64, s string) (uint64, error) {
	if err := m.WriteBytes(addr, []byte(s)); err != nil {
		return 0, err
	}
	return uint64(len(s)), nil
}

func (m *MemoryBank) offset(addr, length uint64) (uint64, error) {
	if addr < m.base {
		return 0, ErrBadAddress
	}
	off := addr - m.base
	if off > uint64(len(m.data)) || length > uint64(len(m.data))-off {
		return 0, ErrBadAddress
	}
	return off, nil
}
