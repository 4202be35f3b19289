// Package random provides reproducible implementations of the rpg-toolkit
// dice.Roller and the few helpers the battle rules need on top of it.
package random

import (
	"fmt"
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Seeded is a dice.Roller backed by a PCG source. Two rollers built from the
// same seed and stream produce the same rolls.
type Seeded struct {
	rng *rand.Rand
}

var _ dice.Roller = (*Seeded)(nil)

// NewSeeded creates a roller for the given seed and stream
func NewSeeded(seed, stream uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, stream))}
}

// Roll returns a value in [1, size]
func (s *Seeded) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("random: invalid die size %d", size)
	}
	return s.rng.IntN(size) + 1, nil
}

// RollN rolls count dice of the given size
func (s *Seeded) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("random: invalid dice count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Index returns a uniform index in [0, n) drawn from r
func Index(r dice.Roller, n int) (int, error) {
	v, err := r.Roll(n)
	if err != nil {
		return 0, err
	}
	return v - 1, nil
}

// Shuffle permutes items in place with a Fisher-Yates pass driven by r
func Shuffle[T any](r dice.Roller, items []T) error {
	for i := len(items) - 1; i > 0; i-- {
		j, err := Index(r, i+1)
		if err != nil {
			return err
		}
		items[i], items[j] = items[j], items[i]
	}
	return nil
}
