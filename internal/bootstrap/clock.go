package bootstrap

import "time"

// Timer is a pending call scheduled on a Clock.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred calls. Tests substitute a manual clock so that
// ticks can be stepped deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}
