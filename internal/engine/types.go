package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

// Faction health bounds accepted at battle start
const (
	MinFactionHealth = 1
	MaxFactionHealth = 99
)

// NewBattleInput describes a battle to set up
type NewBattleInput struct {
	ID         string
	Seed       uint64
	PlayerDeck []battle.UnitKind
	EnemyDeck  []battle.UnitKind
	// Zero health means battle.DefaultFactionHealth
	PlayerHealth int
	EnemyHealth  int
	Rules        battle.Rules
	// Nil generates a random map from the seed
	Map *battle.BattleMap
}

// PlaceUnitInput is a player placement request
type PlaceUnitInput struct {
	State    *battle.State
	CardID   int
	Position battle.Position
}

// RejectReason says why a placement was refused
type RejectReason string

// Reject reasons
const (
	RejectNotEnoughEnergy RejectReason = "not_enough_energy"
	RejectCardNotInHand   RejectReason = "card_not_in_hand"
	RejectNoSpawnTile     RejectReason = "no_spawn_tile"
)

// PlaceUnitOutput carries the new state. A rejected placement changes
// nothing but the log.
type PlaceUnitOutput struct {
	State    *battle.State
	Unit     *battle.Unit
	Rejected bool
	Reason   RejectReason
	Message  string
}

// Observer receives everything the engine does as it happens. Calls are
// made synchronously from the engine and must not block.
type Observer interface {
	OnSnapshot(state *battle.State)
	OnLog(battleID string, entry battle.LogEntry)
	OnHint(battleID string, hint battle.AttackHint)
}

type nopObserver struct{}

func (nopObserver) OnSnapshot(*battle.State)         {}
func (nopObserver) OnLog(string, battle.LogEntry)    {}
func (nopObserver) OnHint(string, battle.AttackHint) {}

// RollerFactory builds the random source for one phase of one battle
type RollerFactory func(seed, stream uint64) dice.Roller

// SeededRollers is the default RollerFactory
func SeededRollers(seed, stream uint64) dice.Roller {
	return random.NewSeeded(seed, stream)
}
