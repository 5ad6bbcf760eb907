// Package status provides a thread-safe status tracker for the ir-receiver daemon.
// It is read by HTTP handlers and included in MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/ir-receiver/internal/signal"
)

// Config contains daemon configuration for display.
type Config struct {
	SampleRateHz    int
	Threshold       int
	LossTimeout     int
	BaselineSamples int
	Port            string
	Broker          string
	HTTPAddr        string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         signal.State
	Baseline      int
	Level         uint8
	Counts        signal.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     signal.StateCalibrating,
			Level:     signal.Silence,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets receiver state, baseline, output level, and event counts.
// Called from runLoop on every sample tick.
func (t *Tracker) Update(state signal.State, baseline int, level uint8, counts signal.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Baseline = baseline
	t.snap.Level = level
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
