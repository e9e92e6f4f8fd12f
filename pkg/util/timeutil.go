package util

import "time"

// Clock returns the current time. Components accept one so tests can pin time.
type Clock func() time.Time

// NowUTC is the production Clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// OrDefault returns c, or NowUTC when c is nil.
func (c Clock) OrDefault() Clock {
	if c == nil {
		return NowUTC
	}
	return c
}
