// Package adc provides access to the MCU analog front end with hardware
// abstraction. The real implementation talks line-oriented serial to the
// front end board; the fake allows testing without hardware.
package adc

// MaxSample is the full-scale raw reading of the front end's converter
// (10-bit ADC).
const MaxSample = 1023

// Device is the analog front end: raw photodiode samples in, PWM amplitude
// levels out.
type Device interface {
	// ReadSample returns the next raw reading (0..MaxSample).
	ReadSample() (int, error)

	// WriteLevel sets the PWM output duty level.
	WriteLevel(level uint8) error

	// Close releases the underlying transport.
	Close() error
}
