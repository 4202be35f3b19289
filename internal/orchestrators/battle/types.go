package battle

import (
	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// StartBattleInput defines the request for starting a battle
type StartBattleInput struct {
	// Empty decks are generated from the seed
	PlayerDeck []battle.UnitKind
	EnemyDeck  []battle.UnitKind
	// Nil picks a seed from the clock
	Seed *uint64
	// Zero means battle.DefaultFactionHealth
	PlayerHealth    int
	EnemyHealth     int
	TerrainBlocking bool
	// Empty means battle.PolicySkipUnaffordable
	Placement battle.PlacementPolicy
	// Nil generates a map from the seed
	Map *battle.BattleMap
}

// StartBattleOutput defines the response for starting a battle
type StartBattleOutput struct {
	Battle *battle.State
}

// GetBattleInput defines the request for getting a battle
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput defines the response for getting a battle
type GetBattleOutput struct {
	Battle *battle.State
}

// PlaceUnitInput defines the request for placing a unit from a card
type PlaceUnitInput struct {
	BattleID string
	CardID   int
	Position battle.Position
}

// PlaceUnitOutput defines the response for placing a unit. A rejected
// placement is not an error; Reason and Message say why.
type PlaceUnitOutput struct {
	Battle   *battle.State
	Unit     *battle.Unit
	Rejected bool
	Reason   engine.RejectReason
	Message  string
}

// EndTurnInput defines the request for ending the player's turn
type EndTurnInput struct {
	BattleID string
}

// EndTurnOutput defines the response for ending the player's turn
type EndTurnOutput struct {
	Battle *battle.State
}

// GetFootprintInput defines the request for a unit's projected tiles
type GetFootprintInput struct {
	BattleID string
	UnitID   int
}

// GetFootprintOutput defines the response for a unit's projected tiles
type GetFootprintOutput struct {
	Footprint *battle.Footprint
}

// DeleteBattleInput defines the request for deleting a battle
type DeleteBattleInput struct {
	BattleID string
}

// DeleteBattleOutput defines the response for deleting a battle
type DeleteBattleOutput struct{}
