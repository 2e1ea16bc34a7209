package syscall

import "testing"

// TestErrnoValuesStable tests the fixed wire values of the error codes.
func TestErrnoValuesStable(t *testing.T) {
	tests := []struct {
		errno Errno
		want  uint64
	}{
		{ErrnoInvalidSyscall, 0},
		{ErrnoInvalidArgument, 1},
		{ErrnoPermissionDenied, 2},
		{ErrnoOutOfMemory, 3},
		{ErrnoProcessNotFound, 4},
		{ErrnoInvalidProcessID, 5},
		{ErrnoMessageQueueFull, 6},
		{ErrnoNoMessageAvailable, 7},
		{ErrnoInvalidMemoryRegion, 8},
		{ErrnoCapabilityDenied, 9},
		{ErrnoNoCurrentProcess, 10},
	}
	for _, tt := range tests {
		if uint64(tt.errno) != tt.want {
			t.Errorf("%s = %d, want %d", tt.errno, uint64(tt.errno), tt.want)
		}
	}
}

// TestSyscallNumbersStable tests the fixed wire values of the call numbers.
func TestSyscallNumbersStable(t *testing.T) {
	tests := []struct {
		num  Number
		want uint64
	}{
		{SendMessage, 0},
		{ReceiveMessage, 1},
		{AllocateMemory, 2},
		{DeallocateMemory, 3},
		{CreateProcess, 4},
		{ExitProcess, 5},
		{Yield, 6},
		{GetPid, 7},
		{MapMemory, 8},
		{UnmapMemory, 9},
	}
	for _, tt := range tests {
		if uint64(tt.num) != tt.want {
			t.Errorf("%s = %d, want %d", tt.num, uint64(tt.num), tt.want)
		}
	}
}

// TestResultEncoding tests the high-bit error encoding.
func TestResultEncoding(t *testing.T) {
	if got := Success(42).Encode(); got != 42 {
		t.Errorf("Success(42).Encode() = %#x, want 42", got)
	}

	raw := Failure(ErrnoProcessNotFound).Encode()
	if raw&ErrorFlag == 0 {
		t.Errorf("Failure encoding %#x missing error flag", raw)
	}
	if raw&^ErrorFlag != uint64(ErrnoProcessNotFound) {
		t.Errorf("Failure encoding low bits = %d, want %d", raw&^ErrorFlag, uint64(ErrnoProcessNotFound))
	}
}

// TestResultDecodeRoundTrip tests Decode as the inverse of Encode.
func TestResultDecodeRoundTrip(t *testing.T) {
	ok := Decode(Success(7).Encode())
	if ok.IsError() || ok.Value() != 7 {
		t.Errorf("Decode(Success(7)) = %+v, want success 7", ok)
	}

	bad := Decode(Failure(ErrnoCapabilityDenied).Encode())
	if !bad.IsError() || bad.Errno() != ErrnoCapabilityDenied {
		t.Errorf("Decode(Failure) = %+v, want %s", bad, ErrnoCapabilityDenied)
	}
}

// TestSuccessValueNearFlag tests that a large success value below the flag
// bit survives the round trip.
func TestSuccessValueNearFlag(t *testing.T) {
	v := ErrorFlag - 1
	r := Decode(Success(v).Encode())
	if r.IsError() || r.Value() != v {
		t.Errorf("Decode(Success(%#x)) = %+v, want success", v, r)
	}
}
