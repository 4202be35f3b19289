// Package engine holds the battle rules: drawing, enemy placement, move and
// attack resolution and the phase state machine that applies them.
//
// The engine is a reducer. Every operation takes a *battle.State, works on a
// clone and returns the new state; the caller owns persistence.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-battle/internal/engine Engine

import (
	"context"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// Engine runs battles
type Engine interface {
	// NewBattle builds the opening state: shuffled decks, map, empty board
	NewBattle(ctx context.Context, input *NewBattleInput) (*battle.State, error)

	// Advance runs one non-interactive phase. When ctx is cancelled between
	// two effects it returns the state applied so far along with the error.
	Advance(ctx context.Context, state *battle.State) (*battle.State, error)

	// RunUntilInput advances until the player has to act or the battle ends
	RunUntilInput(ctx context.Context, state *battle.State) (*battle.State, error)

	// Player input, valid during the player's place phase
	PlaceUnit(ctx context.Context, input *PlaceUnitInput) (*PlaceUnitOutput, error)
	EndTurn(ctx context.Context, state *battle.State) (*battle.State, error)

	// Footprint projects a unit's move and attack tiles
	Footprint(state *battle.State, unitID int) (*battle.Footprint, error)
}
