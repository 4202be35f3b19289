package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

func unitOf(t *testing.T, id int, kind battle.UnitKind, f battle.Faction, x, y int) battle.Unit {
	t.Helper()
	ct, err := battle.LookupCardType(kind)
	require.NoError(t, err)
	return battle.Unit{
		UnitTemplate:  ct.Unit,
		ID:            id,
		CurrentHealth: ct.Unit.MaxHealth,
		Position:      battle.Pos(x, y),
		Faction:       f,
	}
}

func cardOf(t *testing.T, id int, kind battle.UnitKind) battle.BattleCard {
	t.Helper()
	ct, err := battle.LookupCardType(kind)
	require.NoError(t, err)
	return battle.BattleCard{ID: id, Cost: ct.Cost, Unit: ct.Unit}
}

func cardsOf(t *testing.T, firstID int, kinds ...battle.UnitKind) []battle.BattleCard {
	t.Helper()
	out := make([]battle.BattleCard, len(kinds))
	for i, k := range kinds {
		out[i] = cardOf(t, firstID+i, k)
	}
	return out
}

// boardState builds a consistent state holding only the given units
func boardState(phase battle.Phase, units ...battle.Unit) *battle.State {
	s := &battle.State{
		ID:         "battle_test",
		Seed:       1,
		Round:      1,
		Phase:      phase,
		NextUnitID: 1,
		NextCardID: 1,
		Rules:      battle.Rules{Placement: battle.PolicySkipUnaffordable},
		Player: battle.FactionState{
			Faction: battle.FactionPlayer, MaxEnergy: 3, Energy: 3,
			Health: battle.DefaultFactionHealth, MaxHealth: battle.DefaultFactionHealth,
		},
		Enemy: battle.FactionState{
			Faction: battle.FactionEnemy, MaxEnergy: 3, Energy: 3,
			Health: battle.DefaultFactionHealth, MaxHealth: battle.DefaultFactionHealth,
		},
	}
	for _, u := range units {
		fs := s.Faction(u.Faction)
		fs.Units = append(fs.Units, u)
		if u.ID >= s.NextUnitID {
			s.NextUnitID = u.ID + 1
		}
	}
	return s
}

// cancelPacer cancels the run on its n-th pause
type cancelPacer struct {
	n      int
	calls  int
	cancel context.CancelFunc
}

func (p *cancelPacer) Pause(ctx context.Context) error {
	p.calls++
	if p.calls == p.n {
		p.cancel()
	}
	return ctx.Err()
}

// recorder is an engine.Observer that keeps everything it is told
type recorder struct {
	snapshots []*battle.State
	logs      []battle.LogEntry
	hints     []battle.AttackHint
}

func (r *recorder) OnSnapshot(state *battle.State) {
	r.snapshots = append(r.snapshots, state)
}

func (r *recorder) OnLog(_ string, entry battle.LogEntry) {
	r.logs = append(r.logs, entry)
}

func (r *recorder) OnHint(_ string, hint battle.AttackHint) {
	r.hints = append(r.hints, hint)
}

func positionOf(s *battle.State, id int) battle.Position {
	u := s.Unit(id)
	if u == nil {
		return battle.Pos(-1, -1)
	}
	return u.Position
}
