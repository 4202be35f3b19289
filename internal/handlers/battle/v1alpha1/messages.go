package v1alpha1

import (
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// StartBattleRequest starts a new battle
type StartBattleRequest struct {
	PlayerDeck      []string          `json:"player_deck,omitempty"`
	EnemyDeck       []string          `json:"enemy_deck,omitempty"`
	Seed            *uint64           `json:"seed,omitempty"`
	PlayerHealth    int               `json:"player_health,omitempty"`
	EnemyHealth     int               `json:"enemy_health,omitempty"`
	TerrainBlocking bool              `json:"terrain_blocking,omitempty"`
	Placement       string            `json:"placement,omitempty"`
	Map             *battle.BattleMap `json:"map,omitempty"`
}

// StartBattleResponse holds the battle at its first player placement
type StartBattleResponse struct {
	Battle *battle.State `json:"battle"`
}

// GetBattleRequest fetches a battle
type GetBattleRequest struct {
	BattleID string `json:"battle_id"`
}

// GetBattleResponse holds the current battle state
type GetBattleResponse struct {
	Battle *battle.State `json:"battle"`
}

// PlaceUnitRequest plays a card from the player's hand
type PlaceUnitRequest struct {
	BattleID string `json:"battle_id"`
	CardID   int    `json:"card_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// PlaceUnitResponse reports the placement. Rejections are not errors.
type PlaceUnitResponse struct {
	Battle   *battle.State `json:"battle"`
	Unit     *battle.Unit  `json:"unit,omitempty"`
	Rejected bool          `json:"rejected,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// EndTurnRequest ends the player's turn
type EndTurnRequest struct {
	BattleID string `json:"battle_id"`
}

// EndTurnResponse holds the battle at the next player placement, or ended
type EndTurnResponse struct {
	Battle *battle.State `json:"battle"`
}

// GetFootprintRequest asks for a unit's projected tiles
type GetFootprintRequest struct {
	BattleID string `json:"battle_id"`
	UnitID   int    `json:"unit_id"`
}

// GetFootprintResponse holds the projected tiles
type GetFootprintResponse struct {
	Footprint *battle.Footprint `json:"footprint"`
}

// DeleteBattleRequest removes a battle
type DeleteBattleRequest struct {
	BattleID string `json:"battle_id"`
}

// DeleteBattleResponse is empty
type DeleteBattleResponse struct{}

// WatchBattleRequest subscribes to a battle's events. The stream opens with
// a snapshot of the stored state.
type WatchBattleRequest struct {
	BattleID string `json:"battle_id"`
}
