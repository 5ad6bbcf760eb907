// Package led drives the receive-status indicator LED with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package led

// Indicator reflects the receiver session state on a binary output:
// on while a carrier session is active, off while idle or calibrating.
type Indicator interface {
	// Set drives the indicator on or off.
	Set(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM line number the indicator LED is wired to.
const DefaultPin = 17
