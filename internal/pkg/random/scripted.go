package random

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Scripted replays a fixed list of rolls. Tests use it to force a choice
// in the planner or the shuffle.
type Scripted struct {
	rolls []int
	next  int
}

var _ dice.Roller = (*Scripted)(nil)

// NewScripted creates a roller that returns rolls in order
func NewScripted(rolls ...int) *Scripted {
	return &Scripted{rolls: rolls}
}

// Roll returns the next scripted value
func (s *Scripted) Roll(size int) (int, error) {
	if s.next >= len(s.rolls) {
		return 0, fmt.Errorf("random: script exhausted after %d rolls", len(s.rolls))
	}
	v := s.rolls[s.next]
	s.next++
	if v < 1 || v > size {
		return 0, fmt.Errorf("random: scripted roll %d outside d%d", v, size)
	}
	return v, nil
}

// RollN returns the next count scripted values
func (s *Scripted) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Remaining reports how many scripted rolls are left
func (s *Scripted) Remaining() int {
	return len(s.rolls) - s.next
}
