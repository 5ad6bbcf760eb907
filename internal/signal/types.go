// Package signal contains the pure sampling/detection/reconstruction logic
// for the IR receiver. This package has NO external dependencies (no serial,
// MQTT, OS, or time.Sleep). Time is always injectable via time.Time parameters.
package signal

import "time"

// Silence is the output midpoint representing "no amplitude". It is the
// unique value driven at startup and on confirmed signal loss.
const Silence uint8 = 128

// State represents the receiver session state.
type State string

const (
	StateCalibrating State = "CALIBRATING"
	StateIdle        State = "IDLE"
	StateActive      State = "ACTIVE"
)

// DropoutPolicy selects how the reconstructor behaves while the carrier is
// momentarily absent within the loss-timeout budget.
type DropoutPolicy string

const (
	// PolicyHold repeats the last output level unchanged.
	PolicyHold DropoutPolicy = "hold"
	// PolicyFade nudges the output one unit toward Silence per missed tick.
	PolicyFade DropoutPolicy = "fade"
)

// EventType represents a session transition event.
type EventType string

const (
	EventSignalDetected EventType = "SIGNAL_DETECTED"
	EventSignalLost     EventType = "SIGNAL_LOST"
)

// Event represents a session transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Baseline  int
	Deviation int           // |raw - baseline| at the detecting sample (SIGNAL_DETECTED only)
	Session   time.Duration // length of the ended session (SIGNAL_LOST only)
}

// Input is a single raw ADC sample with its sample time.
type Input struct {
	Raw  int
	Time time.Time
}

// Output is the reconstructor's verdict for one tick.
type Output struct {
	// Level is the amplitude to drive, meaningful only when Write is true.
	Level uint8
	// Write is false on idle no-op ticks: the physical output is left at
	// whatever a previous cycle set.
	Write bool
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Detected int
	Lost     int
}

// Config holds the tuning constants for detection and reconstruction.
// These are tied to the physical sensor and must come from configuration,
// not constants baked into the logic.
type Config struct {
	// Threshold is the deviation from baseline above which a sample counts
	// as carrier-present.
	Threshold int
	// LossTimeout is the number of consecutive carrier-absent samples
	// tolerated before a session is declared ended.
	LossTimeout int
	// ClampWindow is the span of raw units below baseline mapped onto the
	// full output range. Readings beyond it saturate.
	ClampWindow int
	// Policy selects the dropout behavior on hold ticks.
	Policy DropoutPolicy
}
