package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

// Spawn is one planned placement: play Card onto Position
type Spawn struct {
	Card     battle.BattleCard
	Position battle.Position
}

// PlaceUnits plans the enemy's placements for a turn. Cards are picked from
// the hand at random and never considered twice. A card the remaining energy
// cannot pay for is dropped under PolicySkipUnaffordable and ends planning
// under PolicyStopOnUnaffordable. Each spawn takes a random free column of
// spawnRow. Planning stops when the energy, the hand or the free columns run
// out. Nothing is mutated; the caller applies the spawns in order.
func PlaceUnits(
	hand []battle.BattleCard,
	energy int,
	spawnRow int,
	occupiedX []int,
	r dice.Roller,
	policy battle.PlacementPolicy,
) ([]Spawn, error) {
	pool := make([]battle.BattleCard, len(hand))
	copy(pool, hand)

	taken := make(map[int]bool, len(occupiedX))
	for _, x := range occupiedX {
		taken[x] = true
	}

	var spawns []Spawn
	for energy > 0 && len(pool) > 0 {
		idx, err := random.Index(r, len(pool))
		if err != nil {
			return nil, errors.Wrap(err, "failed to pick a card")
		}
		card := pool[idx]
		pool = append(pool[:idx:idx], pool[idx+1:]...)

		if card.Cost > energy {
			if policy == battle.PolicyStopOnUnaffordable {
				break
			}
			continue
		}

		free := freeColumns(taken)
		if len(free) == 0 {
			break
		}
		col, err := random.Index(r, len(free))
		if err != nil {
			return nil, errors.Wrap(err, "failed to pick a column")
		}
		x := free[col]

		spawns = append(spawns, Spawn{Card: card, Position: battle.Pos(x, spawnRow)})
		taken[x] = true
		energy -= card.Cost
	}

	return spawns, nil
}

func freeColumns(taken map[int]bool) []int {
	free := make([]int, 0, battle.GridWidth)
	for x := 0; x < battle.GridWidth; x++ {
		if !taken[x] {
			free = append(free, x)
		}
	}
	return free
}

// occupiedColumns lists the columns of row that hold a unit of either side
func occupiedColumns(state *battle.State, row int) []int {
	var xs []int
	for _, f := range []*battle.FactionState{&state.Player, &state.Enemy} {
		for _, u := range f.Units {
			if u.Position.Y == row {
				xs = append(xs, u.Position.X)
			}
		}
	}
	return xs
}
