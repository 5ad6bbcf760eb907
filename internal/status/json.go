package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	Baseline      int        `json:"baseline"`
	Level         uint8      `json:"level"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Detected int `json:"detected"`
	Lost     int `json:"lost"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SampleRateHz    int    `json:"sample_rate_hz"`
	Threshold       int    `json:"threshold"`
	LossTimeout     int    `json:"loss_timeout"`
	BaselineSamples int    `json:"baseline_samples"`
	Port            string `json:"port"`
	Broker          string `json:"broker"`
	HTTPAddr        string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		State:         state,
		Baseline:      snap.Baseline,
		Level:         snap.Level,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Detected: snap.Counts.Detected,
			Lost:     snap.Counts.Lost,
		},
		Config: ConfigJSON{
			SampleRateHz:    snap.Config.SampleRateHz,
			Threshold:       snap.Config.Threshold,
			LossTimeout:     snap.Config.LossTimeout,
			BaselineSamples: snap.Config.BaselineSamples,
			Port:            snap.Config.Port,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
