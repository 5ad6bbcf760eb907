package signal

import "time"

// Scheduler decides when the next sample is due. The deadline advances by a
// fixed interval from the previous deadline, not from "now", so variable
// processing time does not accumulate drift. If a cycle overruns the
// interval the next Fire returns true immediately; there is no backlog
// compensation beyond that catch-up firing.
type Scheduler struct {
	next     time.Time
	interval time.Duration
}

// NewScheduler creates a scheduler whose first tick is due at start.
func NewScheduler(start time.Time, interval time.Duration) *Scheduler {
	return &Scheduler{next: start, interval: interval}
}

// Fire reports whether a tick is due at now. When it is, the deadline is
// advanced by exactly one interval.
func (s *Scheduler) Fire(now time.Time) bool {
	if now.Before(s.next) {
		return false
	}
	s.next = s.next.Add(s.interval)
	return true
}

// Next returns the current deadline.
func (s *Scheduler) Next() time.Time { return s.next }

// Interval returns the fixed sample interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }
