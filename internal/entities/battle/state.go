package battle

import (
	"fmt"
	"time"
)

// Phase is a step of the turn state machine
type Phase string

// Phases, in round order. PhaseEnded is terminal.
const (
	PhaseEnemyDraw   Phase = "enemy_draw"
	PhaseEnemyPlace  Phase = "enemy_place"
	PhaseEnemyAct    Phase = "enemy_act"
	PhasePlayerDraw  Phase = "player_draw"
	PhasePlayerPlace Phase = "player_place"
	PhasePlayerAct   Phase = "player_act"
	PhaseEnded       Phase = "ended"
)

// Outcome is the result of an ended battle, from the player's side
type Outcome string

// Outcomes
const (
	OutcomeNone Outcome = ""
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Defaults for a new battle
const (
	DefaultMaxEnergy     = 3
	DefaultFactionHealth = 10
)

// PlacementPolicy decides what the enemy planner does with a card it cannot afford
type PlacementPolicy string

// Placement policies
const (
	// PolicySkipUnaffordable drops the card and keeps drawing from the hand
	PolicySkipUnaffordable PlacementPolicy = "skip"
	// PolicyStopOnUnaffordable ends placement for the turn
	PolicyStopOnUnaffordable PlacementPolicy = "stop"
)

// Rules are per-battle rule toggles
type Rules struct {
	TerrainBlocking bool            `json:"terrain_blocking"`
	Placement       PlacementPolicy `json:"placement"`
}

// ActStage is the part of a unit's action the cursor points at
type ActStage string

// Act stages
const (
	StageMove   ActStage = "move"
	StageAttack ActStage = "attack"
)

// ActCursor records how far an act phase got, so a cancelled phase can resume.
// Units act in ascending ID order; every unit with ID <= LastActed is done.
type ActCursor struct {
	LastActed int      `json:"last_acted"`
	UnitID    int      `json:"unit_id,omitempty"`
	Stage     ActStage `json:"stage,omitempty"`
	Step      int      `json:"step,omitempty"`
}

// FactionState is everything one side owns
type FactionState struct {
	Faction Faction `json:"faction"`
	Units   []Unit  `json:"units"`
	Piles   Piles   `json:"piles"`
	// CardCount is the number of cards the faction started with
	CardCount    int `json:"card_count"`
	Energy       int `json:"energy"`
	MaxEnergy    int `json:"max_energy"`
	StealCredits int `json:"steal_credits"`
	Health       int `json:"health"`
	MaxHealth    int `json:"max_health"`
}

// Unit finds a unit by ID
func (f *FactionState) Unit(id int) *Unit {
	for i := range f.Units {
		if f.Units[i].ID == id {
			return &f.Units[i]
		}
	}
	return nil
}

// RemoveUnit drops a unit by ID
func (f *FactionState) RemoveUnit(id int) bool {
	for i := range f.Units {
		if f.Units[i].ID == id {
			f.Units = append(f.Units[:i:i], f.Units[i+1:]...)
			return true
		}
	}
	return false
}

// Refill sets energy to max plus any stolen credits and clears the credits
func (f *FactionState) Refill() {
	f.Energy = f.MaxEnergy + f.StealCredits
	f.StealCredits = 0
}

func (f FactionState) clone() FactionState {
	out := f
	out.Units = make([]Unit, len(f.Units))
	copy(out.Units, f.Units)
	out.Piles = f.Piles.Clone()
	return out
}

// State is the whole battle. The engine never mutates a State it was given;
// every step works on a Clone and returns it.
type State struct {
	ID         string       `json:"id"`
	Seed       uint64       `json:"seed"`
	Round      int          `json:"round"`
	Phase      Phase        `json:"phase"`
	Outcome    Outcome      `json:"outcome,omitempty"`
	Cursor     ActCursor    `json:"cursor"`
	NextUnitID int          `json:"next_unit_id"`
	NextCardID int          `json:"next_card_id"`
	Map        BattleMap    `json:"map"`
	Rules      Rules        `json:"rules"`
	Player     FactionState `json:"player"`
	Enemy      FactionState `json:"enemy"`
	Log        []LogEntry   `json:"log"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Clone returns a deep copy. Unit templates are shared, they are immutable.
func (s *State) Clone() *State {
	out := *s
	out.Map = s.Map.Clone()
	out.Player = s.Player.clone()
	out.Enemy = s.Enemy.clone()
	out.Log = make([]LogEntry, len(s.Log))
	copy(out.Log, s.Log)
	return &out
}

// Faction returns the state of one side
func (s *State) Faction(f Faction) *FactionState {
	if f == FactionPlayer {
		return &s.Player
	}
	return &s.Enemy
}

// Unit finds a unit of either faction by ID
func (s *State) Unit(id int) *Unit {
	if u := s.Player.Unit(id); u != nil {
		return u
	}
	return s.Enemy.Unit(id)
}

// UnitAt returns the unit standing on p, if any
func (s *State) UnitAt(p Position) *Unit {
	for _, f := range []*FactionState{&s.Player, &s.Enemy} {
		for i := range f.Units {
			if f.Units[i].Position.Equal(p) {
				return &f.Units[i]
			}
		}
	}
	return nil
}

// Ended reports whether the battle is over
func (s *State) Ended() bool {
	return s.Phase == PhaseEnded
}

// Validate checks the board and pile invariants
func (s *State) Validate() error {
	occupied := make(map[Position]int)
	ids := make(map[int]bool)
	for _, f := range []*FactionState{&s.Player, &s.Enemy} {
		for _, u := range f.Units {
			if u.Faction != f.Faction {
				return fmt.Errorf("unit %d listed under %s but belongs to %s", u.ID, f.Faction, u.Faction)
			}
			if !InBounds(u.Position) {
				return fmt.Errorf("unit %d is off the grid at %s", u.ID, u.Position)
			}
			if other, ok := occupied[u.Position]; ok {
				return fmt.Errorf("units %d and %d share %s", other, u.ID, u.Position)
			}
			occupied[u.Position] = u.ID
			if u.CurrentHealth <= 0 || u.CurrentHealth > u.MaxHealth {
				return fmt.Errorf("unit %d has health %d/%d", u.ID, u.CurrentHealth, u.MaxHealth)
			}
			if ids[u.ID] || u.ID <= 0 || u.ID >= s.NextUnitID {
				return fmt.Errorf("unit id %d is duplicated or was never issued", u.ID)
			}
			ids[u.ID] = true
		}
		if total := f.Piles.Total(); total != f.CardCount {
			return fmt.Errorf("%s holds %d cards, started with %d", f.Faction, total, f.CardCount)
		}
		if len(f.Piles.Hand) > HandSize {
			return fmt.Errorf("%s hand holds %d cards", f.Faction, len(f.Piles.Hand))
		}
	}
	return nil
}

// MustBeConsistent panics when an invariant is broken. A broken invariant
// means a rules bug, never bad input.
func (s *State) MustBeConsistent() {
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("battle %s: invariant violated: %v", s.ID, err))
	}
}
