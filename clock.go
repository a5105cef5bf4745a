// clock.go
package main

import "time"

// Clock lets the rate limiter run against a controllable time source.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
