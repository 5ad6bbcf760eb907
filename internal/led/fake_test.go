package led

import (
	"errors"
	"testing"
)

func TestFakeIndicatorSet(t *testing.T) {
	f := NewFakeIndicator()

	f.Set(true)
	f.Set(true)
	f.Set(false)

	if f.On {
		t.Error("expected indicator off")
	}
	want := []bool{true, true, false}
	if len(f.Writes) != len(want) {
		t.Fatalf("recorded %d writes, want %d", len(f.Writes), len(want))
	}
	for i := range want {
		if f.Writes[i] != want[i] {
			t.Errorf("write %d: got %v, want %v", i, f.Writes[i], want[i])
		}
	}
}

func TestFakeIndicatorSetError(t *testing.T) {
	f := NewFakeIndicator()
	f.SetError = errors.New("simulated error")

	if err := f.Set(true); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Writes) != 0 {
		t.Errorf("expected no recorded writes on error, got %d", len(f.Writes))
	}
}

func TestFakeIndicatorClose(t *testing.T) {
	f := NewFakeIndicator()
	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}
