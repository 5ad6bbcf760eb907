package signal

// Calibrator accumulates raw readings and produces their integer-truncated
// mean as the ambient baseline. Calibration cannot fail, only produce a poor
// result: there is no validation that the readings are physically sensible.
// The settle delay between readings is the responsibility of the loop that
// feeds it.
type Calibrator struct {
	target int
	count  int
	sum    int
}

// NewCalibrator creates a calibrator that averages the given number of
// readings.
func NewCalibrator(samples int) *Calibrator {
	if samples <= 0 {
		samples = 1
	}
	return &Calibrator{target: samples}
}

// Add feeds one raw reading. It returns true once enough readings have been
// collected; further readings are ignored.
func (c *Calibrator) Add(raw int) bool {
	if c.count < c.target {
		c.sum += raw
		c.count++
	}
	return c.count >= c.target
}

// Done reports whether enough readings have been collected.
func (c *Calibrator) Done() bool { return c.count >= c.target }

// Baseline returns the integer mean of the readings collected so far.
func (c *Calibrator) Baseline() int {
	if c.count == 0 {
		return 0
	}
	return c.sum / c.count
}

// Reset discards collected readings so the calibrator can be reused for a
// recalibration.
func (c *Calibrator) Reset() {
	c.sum = 0
	c.count = 0
}
