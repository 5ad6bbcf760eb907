package adc

import "errors"

// FakeDevice is a test double that returns scripted raw samples and records
// written output levels.
type FakeDevice struct {
	// Samples contains scripted raw readings to return.
	// Each call to ReadSample() consumes the next sample.
	Samples []int

	// index tracks current position in Samples
	index int

	// Levels records every level written via WriteLevel.
	Levels []uint8

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by ReadSample()
	ReadError error

	// WriteError, if set, will be returned by WriteLevel()
	WriteError error
}

// NewFakeDevice creates a FakeDevice with the given samples.
func NewFakeDevice(samples []int) *FakeDevice {
	return &FakeDevice{Samples: samples}
}

// ReadSample returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeDevice) ReadSample() (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// WriteLevel records the written level.
func (f *FakeDevice) WriteLevel(level uint8) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Levels = append(f.Levels, level)
	return nil
}

// Close marks the device as closed.
func (f *FakeDevice) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the device to the beginning of samples.
func (f *FakeDevice) Reset() {
	f.index = 0
	f.Levels = nil
	f.Closed = false
}
