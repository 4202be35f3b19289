package engine

import (
	"context"
	"time"
)

// DefaultPace is the pause between two applied effects in an animated battle
const DefaultPace = 500 * time.Millisecond

// Pacer is called after every applied effect so a client can render each
// intermediate state. It returns the context error once the context is done.
type Pacer interface {
	Pause(ctx context.Context) error
}

type sleepPacer struct {
	d time.Duration
}

// Sleep pauses for d between effects
func Sleep(d time.Duration) Pacer {
	return &sleepPacer{d: d}
}

func (p *sleepPacer) Pause(ctx context.Context) error {
	if p.d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type nonePacer struct{}

// None never waits. Headless runs and tests use it.
func None() Pacer {
	return nonePacer{}
}

func (nonePacer) Pause(ctx context.Context) error {
	return ctx.Err()
}
