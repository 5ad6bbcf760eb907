package led

// FakeIndicator records indicator writes for test assertions.
type FakeIndicator struct {
	// On is the current indicator state.
	On bool

	// Writes records every state written via Set, in order.
	Writes []bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeIndicator creates a FakeIndicator for testing.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the indicator state.
func (f *FakeIndicator) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.On = on
	f.Writes = append(f.Writes, on)
	return nil
}

// Close marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.Closed = true
	return nil
}
