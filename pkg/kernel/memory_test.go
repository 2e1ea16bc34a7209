package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBankRoundTrip(t *testing.T) {
	bank := NewMemoryBank(0x1000, 64)

	require.NoError(t, bank.WriteBytes(0x1010, []byte("hello")))
	got, err := bank.ReadBytes(0x1010, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestMemoryBankWriteString(t *testing.T) {
	bank := NewMemoryBank(0x1000, 64)

	n, err := bank.WriteString(0x1000, "init")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)

	got, err := bank.ReadBytes(0x1000, n)
	require.NoError(t, err)
	assert.Equal(t, "init", string(got))
}

func TestMemoryBankBounds(t *testing.T) {
	bank := NewMemoryBank(0x1000, 64)

	tests := []struct {
		name   string
		addr   uint64
		length uint64
	}{
		{"below base", 0xFFF, 1},
		{"past end", 0x1000, 65},
		{"straddles end", 0x103F, 2},
		{"far past end", 0x9000, 1},
		{"length overflow", 0x1000, ^uint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bank.ReadBytes(tt.addr, tt.length)
			assert.ErrorIs(t, err, ErrBadAddress)
		})
	}
}

func TestMemoryBankReadReturnsCopy(t *testing.T) {
	bank := NewMemoryBank(0x1000, 16)
	require.NoError(t, bank.WriteBytes(0x1000, []byte{1, 2, 3}))

	got, err := bank.ReadBytes(0x1000, 3)
	require.NoError(t, err)
	got[0] = 99

	again, err := bank.ReadBytes(0x1000, 3)
	require.NoError(t, err)
	assert.Equal(t, byte(1), again[0])
}
