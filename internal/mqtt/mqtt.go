// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/ir-receiver/internal/signal"
)

// Topic is the MQTT topic for receiver session events.
const Topic = "audio/ir/receiver/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "audio/ir/receiver/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a session event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event signal.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown,
// heartbeat, recalibration).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "RECALIBRATED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Baseline   int    // measured ambient baseline (RECALIBRATED only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Receiver ReceiverPayload `json:"receiver"`
}

// ReceiverPayload contains the session event details.
type ReceiverPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Baseline  int    `json:"baseline"`
	Deviation int    `json:"deviation,omitempty"`
	SessionMs int64  `json:"session_ms,omitempty"`
}

// FormatPayload creates the JSON payload for a session event.
func FormatPayload(event signal.Event) ([]byte, error) {
	payload := Payload{
		Receiver: ReceiverPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Baseline:  event.Baseline,
			Deviation: event.Deviation,
			SessionMs: event.Session.Milliseconds(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
	Baseline  int    `json:"baseline,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Baseline:  event.Baseline,
		},
	}
	return json.Marshal(payload)
}
