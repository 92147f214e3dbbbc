// Package clock supplies the time source used to stamp domain timestamps.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source injected into every component that stamps
// created/issued/paid times.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// Real reads the host clock in UTC.
type Real struct{}

func NewReal() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

func (r Real) Today() time.Time {
	return truncateToDay(r.Now())
}

// Simulated is a settable clock for tests and simulation runs.
type Simulated struct {
	mu  sync.Mutex
	now time.Time
}

func NewSimulated(start time.Time) *Simulated {
	return &Simulated{now: start}
}

func (s *Simulated) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Simulated) Today() time.Time {
	return truncateToDay(s.Now())
}

// TimeOfDay formats the current simulated time as HH:MM:SS.
func (s *Simulated) TimeOfDay() string {
	return s.Now().Format("15:04:05")
}

// Advance moves the clock forward by d and returns the new time.
func (s *Simulated) Advance(d time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
	return s.now
}

func (s *Simulated) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
