// Package clock abstracts wall time for log entries, hints and battle
// timestamps
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-battle/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fixed always reports the same instant. Replays that use it produce
// byte-identical states.
type Fixed struct {
	At time.Time
}

// Now returns f.At
func (f Fixed) Now() time.Time {
	return f.At
}
