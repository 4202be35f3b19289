package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// CreateTestBattle builds a small consistent battle waiting for player
// placement. Every slice is non-nil so the state compares equal after a
// clone or a JSON round trip.
func CreateTestBattle(t *testing.T, id string) *battle.State {
	t.Helper()

	footman, err := battle.LookupCardType(battle.UnitKindFootman)
	require.NoError(t, err)
	knight, err := battle.LookupCardType(battle.UnitKindKnight)
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return &battle.State{
		ID:         id,
		Seed:       42,
		Round:      1,
		Phase:      battle.PhasePlayerPlace,
		NextUnitID: 3,
		NextCardID: 5,
		Map: battle.BattleMap{Tiles: []battle.TerrainTile{
			{Position: battle.Pos(4, 3), Terrain: battle.TerrainForest},
		}},
		Rules: battle.Rules{Placement: battle.PolicySkipUnaffordable},
		Player: battle.FactionState{
			Faction: battle.FactionPlayer,
			Units: []battle.Unit{
				{UnitTemplate: footman.Unit, ID: 2, CurrentHealth: 2, Position: battle.Pos(3, 5), Faction: battle.FactionPlayer},
			},
			Piles: battle.Piles{
				Deck:    []battle.BattleCard{{ID: 3, Cost: footman.Cost, Unit: footman.Unit}},
				Hand:    []battle.BattleCard{{ID: 4, Cost: knight.Cost, Unit: knight.Unit}},
				Discard: []battle.BattleCard{},
			},
			CardCount: 2,
			Energy:    2, MaxEnergy: battle.DefaultMaxEnergy,
			Health: battle.DefaultFactionHealth, MaxHealth: battle.DefaultFactionHealth,
		},
		Enemy: battle.FactionState{
			Faction: battle.FactionEnemy,
			Units: []battle.Unit{
				{UnitTemplate: knight.Unit, ID: 1, CurrentHealth: knight.Unit.MaxHealth, Position: battle.Pos(3, 1), Faction: battle.FactionEnemy},
			},
			Piles: battle.Piles{
				Deck:    []battle.BattleCard{{ID: 1, Cost: footman.Cost, Unit: footman.Unit}},
				Hand:    []battle.BattleCard{},
				Discard: []battle.BattleCard{{ID: 2, Cost: knight.Cost, Unit: knight.Unit}},
			},
			CardCount: 2,
			Energy:    0, MaxEnergy: battle.DefaultMaxEnergy,
			Health: battle.DefaultFactionHealth, MaxHealth: battle.DefaultFactionHealth,
		},
		Log: []battle.LogEntry{
			{Seq: 1, Phase: battle.PhaseEnemyDraw, Message: "Battle started", At: created},
			{Seq: 2, Round: 1, Phase: battle.PhaseEnemyDraw, Message: "Round 1", At: created},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}
