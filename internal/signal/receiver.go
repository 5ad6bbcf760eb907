package signal

import "time"

// Receiver tracks session state and reconstructs the output amplitude from
// raw photodiode samples. All mutable loop state lives here so the control
// algorithm can be driven from any host loop, including tests feeding
// synthetic samples and timestamps.
type Receiver struct {
	cfg Config

	baseline     int
	receiving    bool
	lossCount    int
	lastOutput   uint8
	sessionStart time.Time
	counts       EventCounts
}

// NewReceiver creates a receiver with the given tuning. The baseline must be
// established (SetBaseline) before any sample is classified.
func NewReceiver(cfg Config) *Receiver {
	if cfg.ClampWindow <= 0 {
		cfg.ClampWindow = 1
	}
	return &Receiver{cfg: cfg, lastOutput: Silence}
}

// SetBaseline replaces the ambient baseline wholesale and resets session
// state to idle silence. Called after startup calibration and on demand
// after a recalibration.
func (r *Receiver) SetBaseline(baseline int) {
	r.baseline = baseline
	r.receiving = false
	r.lossCount = 0
	r.lastOutput = Silence
}

// Baseline returns the ambient baseline in effect.
func (r *Receiver) Baseline() int { return r.baseline }

// State returns the current session state.
func (r *Receiver) State() State {
	if r.receiving {
		return StateActive
	}
	return StateIdle
}

// LastOutput returns the last amplitude level written to the output.
func (r *Receiver) LastOutput() uint8 { return r.lastOutput }

// Counts returns the session event counts since startup.
func (r *Receiver) Counts() EventCounts { return r.counts }

// Process classifies one raw sample and computes the output for this tick.
// Events are returned on session transitions only.
func (r *Receiver) Process(in Input) (Output, []Event) {
	dev := in.Raw - r.baseline
	if dev < 0 {
		dev = -dev
	}
	present := dev > r.cfg.Threshold

	if present {
		r.lossCount = 0
		var events []Event
		if !r.receiving {
			r.receiving = true
			r.sessionStart = in.Time
			r.counts.Detected++
			events = append(events, Event{
				Timestamp: in.Time,
				Type:      EventSignalDetected,
				Baseline:  r.baseline,
				Deviation: dev,
			})
		}
		r.lastOutput = r.mapAmplitude(in.Raw)
		return Output{Level: r.lastOutput, Write: true}, events
	}

	if !r.receiving {
		// Idle and quiet: leave the output alone.
		return Output{}, nil
	}

	r.lossCount++
	if r.lossCount > r.cfg.LossTimeout {
		r.receiving = false
		r.lossCount = 0
		r.lastOutput = Silence
		r.counts.Lost++
		return Output{Level: Silence, Write: true}, []Event{{
			Timestamp: in.Time,
			Type:      EventSignalLost,
			Baseline:  r.baseline,
			Session:   in.Time.Sub(r.sessionStart),
		}}
	}

	// Momentary dropout within the timeout budget. The hysteresis absorbs
	// single-sample misses so the output does not chatter between signal
	// and silence.
	if r.cfg.Policy == PolicyHold {
		return Output{Level: r.lastOutput, Write: true}, nil
	}
	if r.lastOutput > Silence {
		r.lastOutput--
	} else if r.lastOutput < Silence {
		r.lastOutput++
	}
	return Output{Level: r.lastOutput, Write: true}, nil
}

// mapAmplitude maps a raw reading onto [0,255], inverted: stronger IR
// illumination pulls the photodiode reading below baseline, so baseline maps
// to 0 and baseline-ClampWindow maps to 255. Readings outside the window
// saturate rather than wrap.
func (r *Receiver) mapAmplitude(raw int) uint8 {
	lo := r.baseline - r.cfg.ClampWindow
	if raw < lo {
		raw = lo
	}
	if raw > r.baseline {
		raw = r.baseline
	}
	return uint8((r.baseline - raw) * 255 / r.cfg.ClampWindow)
}
