package service

import "time"

// Clock abstracts time so duration logging stays deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock returns a fixed time.
type TestClock struct {
	FixedTime time.Time
}

// Now returns the fixed time.
func (t TestClock) Now() time.Time {
	return t.FixedTime
}
