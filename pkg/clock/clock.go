package clock

import "time"

// Clock abstracts wall time so staleness windows can be tested without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// New returns a Clock backed by the system clock.
func New() Clock {
	return realClock{}
}

// Fake is a Clock whose current time is set by the test.
type Fake struct {
	Current time.Time
}

func NewFake(t time.Time) *Fake {
	return &Fake{Current: t}
}

func (f *Fake) Now() time.Time {
	return f.Current
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
