package signal

import (
	"testing"
	"time"
)

const sampleInterval = 125 * time.Microsecond

func TestSchedulerNotDueBeforeDeadline(t *testing.T) {
	start := testStart()
	s := NewScheduler(start.Add(sampleInterval), sampleInterval)

	if s.Fire(start) {
		t.Error("fired before deadline")
	}
	if s.Fire(start.Add(124 * time.Microsecond)) {
		t.Error("fired 1µs before deadline")
	}
}

func TestSchedulerFiresAtExactDeadline(t *testing.T) {
	start := testStart()
	s := NewScheduler(start, sampleInterval)

	if !s.Fire(start) {
		t.Error("did not fire at exact deadline")
	}
	if got, want := s.Next(), start.Add(sampleInterval); !got.Equal(want) {
		t.Errorf("next deadline: got %v, want %v", got, want)
	}
}

func TestSchedulerAdvancesFromDeadlineNotFromNow(t *testing.T) {
	// Firing late must not push the schedule back: the deadline advances by
	// exactly one interval from the previous deadline.
	start := testStart()
	s := NewScheduler(start, sampleInterval)

	late := start.Add(300 * time.Microsecond)
	if !s.Fire(late) {
		t.Fatal("did not fire when past deadline")
	}
	if got, want := s.Next(), start.Add(sampleInterval); !got.Equal(want) {
		t.Errorf("next deadline: got %v, want %v (advance from previous deadline)", got, want)
	}

	// The missed tick is still due, so the next check fires immediately.
	if !s.Fire(late) {
		t.Error("expected immediate catch-up fire")
	}
}

func TestSchedulerFixedRateOverManyTicks(t *testing.T) {
	start := testStart()
	s := NewScheduler(start, sampleInterval)

	fired := 0
	// Poll at a finer granularity than the interval; exactly one fire per
	// interval boundary.
	for i := 0; i <= 8000; i++ {
		now := start.Add(time.Duration(i) * 25 * time.Microsecond)
		if s.Fire(now) {
			fired++
		}
	}
	// 8000 polls of 25µs cover 200ms = 1600 intervals, plus the tick due at start.
	if fired != 1601 {
		t.Errorf("fired %d times, want 1601", fired)
	}
	if got, want := s.Next(), start.Add(1601*sampleInterval); !got.Equal(want) {
		t.Errorf("final deadline: got %v, want %v", got, want)
	}
}

func TestSchedulerOneFirePerInvocation(t *testing.T) {
	// Even when far behind, each invocation triggers exactly one cycle;
	// catch-up happens across subsequent invocations.
	start := testStart()
	s := NewScheduler(start, sampleInterval)

	way := start.Add(10 * sampleInterval)
	for i := 0; i < 10; i++ {
		if !s.Fire(way) {
			t.Fatalf("catch-up fire %d did not trigger", i)
		}
	}
	if s.Fire(way.Add(-1)) {
		t.Error("fired with deadline in the future after catch-up")
	}
}
