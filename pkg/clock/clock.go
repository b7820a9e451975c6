// Package clock lets time-dependent code run against a fake clock in tests.
//
// Production code takes a Clock and uses Real(). Tests use Fake() and move
// time forward with Advance, which fires due AfterFunc callbacks
// synchronously and in deadline order.
package clock

import "time"

type Clock interface {
	Now() time.Time
	// AfterFunc calls f once d has elapsed. The returned Timer can cancel
	// the call.
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	// Stop reports whether the call was cancelled before it fired.
	Stop() bool
}

type realClock struct{}

func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
