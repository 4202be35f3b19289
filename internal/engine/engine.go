package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

// DefaultHintDuration is how long a client shows an attack hint
const DefaultHintDuration = 500 * time.Millisecond

// setupStream is the random stream NewBattle draws from. Phase streams are
// never zero.
const setupStream = 0

// Config holds the engine's collaborators
type Config struct {
	Pacer Pacer
	Clock clock.Clock
	// Optional, events are dropped when nil
	Observer Observer
	// Optional, defaults to SeededRollers
	Rollers RollerFactory
	// Optional, defaults to DefaultHintDuration
	HintDuration time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Pacer == nil {
		vb.RequiredField("Pacer")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.HintDuration < 0 {
		vb.Field("HintDuration", "must not be negative")
	}

	return vb.Build()
}

type engine struct {
	pacer        Pacer
	clock        clock.Clock
	observer     Observer
	rollers      RollerFactory
	hintDuration time.Duration
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	e := &engine{
		pacer:        cfg.Pacer,
		clock:        cfg.Clock,
		observer:     cfg.Observer,
		rollers:      cfg.Rollers,
		hintDuration: cfg.HintDuration,
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	if e.rollers == nil {
		e.rollers = SeededRollers
	}
	if e.hintDuration == 0 {
		e.hintDuration = DefaultHintDuration
	}

	return e, nil
}

func (e *engine) NewBattle(ctx context.Context, input *NewBattleInput) (*battle.State, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	playerHealth := orDefault(input.PlayerHealth, battle.DefaultFactionHealth)
	enemyHealth := orDefault(input.EnemyHealth, battle.DefaultFactionHealth)
	rules := input.Rules
	if rules.Placement == "" {
		rules.Placement = battle.PolicySkipUnaffordable
	}

	vb := errors.NewValidationBuilder()
	if input.ID == "" {
		vb.RequiredField("ID")
	}
	if len(input.PlayerDeck) == 0 {
		vb.RequiredField("PlayerDeck")
	}
	if len(input.EnemyDeck) == 0 {
		vb.RequiredField("EnemyDeck")
	}
	errors.ValidateRange("PlayerHealth", playerHealth, MinFactionHealth, MaxFactionHealth, vb)
	errors.ValidateRange("EnemyHealth", enemyHealth, MinFactionHealth, MaxFactionHealth, vb)
	switch rules.Placement {
	case battle.PolicySkipUnaffordable, battle.PolicyStopOnUnaffordable:
	default:
		vb.Fieldf("Rules.Placement", "unknown placement policy %q", rules.Placement)
	}
	if input.Map != nil {
		if err := validateMap(*input.Map); err != nil {
			vb.Field("Map", err.Error())
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	state := &battle.State{
		ID:         input.ID,
		Seed:       input.Seed,
		Phase:      battle.PhaseEnemyDraw,
		NextUnitID: 1,
		NextCardID: 1,
		Rules:      rules,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	r := e.rollers(input.Seed, setupStream)

	player, err := buildFaction(state, battle.FactionPlayer, input.PlayerDeck, playerHealth, r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build player deck")
	}
	state.Player = player

	enemy, err := buildFaction(state, battle.FactionEnemy, input.EnemyDeck, enemyHealth, r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build enemy deck")
	}
	state.Enemy = enemy

	if input.Map != nil {
		state.Map = input.Map.Clone()
	} else {
		state.Map, err = battle.GenerateMap(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate map")
		}
	}

	t := e.newTurn(state)
	t.log("Battle started", 0, 0)
	t.state.MustBeConsistent()

	return t.state, nil
}

func buildFaction(
	state *battle.State,
	f battle.Faction,
	kinds []battle.UnitKind,
	health int,
	r dice.Roller,
) (battle.FactionState, error) {
	cards := make([]battle.BattleCard, 0, len(kinds))
	for _, kind := range kinds {
		ct, err := battle.LookupCardType(kind)
		if err != nil {
			return battle.FactionState{}, err
		}
		cards = append(cards, battle.BattleCard{ID: state.NextCardID, Cost: ct.Cost, Unit: ct.Unit})
		state.NextCardID++
	}
	if err := random.Shuffle(r, cards); err != nil {
		return battle.FactionState{}, err
	}

	return battle.FactionState{
		Faction: f,
		Units:   []battle.Unit{},
		Piles: battle.Piles{
			Deck:    cards,
			Hand:    []battle.BattleCard{},
			Discard: []battle.BattleCard{},
		},
		CardCount: len(cards),
		Energy:    battle.DefaultMaxEnergy,
		MaxEnergy: battle.DefaultMaxEnergy,
		Health:    health,
		MaxHealth: health,
	}, nil
}

func validateMap(m battle.BattleMap) error {
	seen := make(map[battle.Position]bool, len(m.Tiles))
	for _, tile := range m.Tiles {
		if !battle.InBounds(tile.Position) {
			return fmt.Errorf("tile %s is off the grid", tile.Position)
		}
		if seen[tile.Position] {
			return fmt.Errorf("tile %s is listed twice", tile.Position)
		}
		seen[tile.Position] = true
		switch tile.Terrain {
		case battle.TerrainPlain, battle.TerrainForest, battle.TerrainMountain, battle.TerrainWater:
		default:
			return fmt.Errorf("tile %s has unknown terrain %q", tile.Position, tile.Terrain)
		}
	}
	return nil
}

func (e *engine) Advance(ctx context.Context, state *battle.State) (*battle.State, error) {
	if state == nil {
		return nil, errors.InvalidArgument("state is required")
	}

	switch state.Phase {
	case battle.PhaseEnded:
		return state, errors.FailedPreconditionf("battle %s has ended", state.ID)
	case battle.PhasePlayerPlace:
		return state, errors.FailedPreconditionf("battle %s is waiting for the player", state.ID)
	}

	if err := ctx.Err(); err != nil {
		return state, errors.Wrapf(err, "battle %s: %s canceled", state.ID, state.Phase)
	}

	t := e.newTurn(state)

	var err error
	switch state.Phase {
	case battle.PhaseEnemyDraw:
		err = t.draw(battle.FactionEnemy, battle.PhaseEnemyPlace)
	case battle.PhaseEnemyPlace:
		err = t.placeEnemy(ctx)
	case battle.PhaseEnemyAct:
		err = t.act(ctx, battle.FactionEnemy, battle.PhasePlayerDraw)
	case battle.PhasePlayerDraw:
		err = t.draw(battle.FactionPlayer, battle.PhasePlayerPlace)
	case battle.PhasePlayerAct:
		err = t.act(ctx, battle.FactionPlayer, battle.PhaseEnemyDraw)
	default:
		return state, errors.Internalf("battle %s is in unknown phase %q", state.ID, state.Phase)
	}

	t.state.MustBeConsistent()

	if err != nil {
		return t.state, errors.Wrapf(err, "battle %s: %s interrupted", state.ID, state.Phase)
	}
	return t.state, nil
}

func (e *engine) RunUntilInput(ctx context.Context, state *battle.State) (*battle.State, error) {
	if state == nil {
		return nil, errors.InvalidArgument("state is required")
	}

	for !state.Ended() && state.Phase != battle.PhasePlayerPlace {
		next, err := e.Advance(ctx, state)
		if err != nil {
			return next, err
		}
		state = next
	}
	return state, nil
}

func (e *engine) PlaceUnit(ctx context.Context, input *PlaceUnitInput) (*PlaceUnitOutput, error) {
	if input == nil || input.State == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	if input.State.Phase != battle.PhasePlayerPlace {
		return nil, errors.FailedPreconditionf("cannot place units during %s", input.State.Phase)
	}

	t := e.newTurn(input.State)
	fs := &t.state.Player
	pos := input.Position

	card, ok := fs.Piles.HandCard(input.CardID)
	if !ok {
		return t.reject(RejectCardNotInHand, fmt.Sprintf("Card %d is not in your hand", input.CardID)), nil
	}
	if !battle.InBounds(pos) || pos.Y != battle.FactionPlayer.SpawnRow() {
		return t.reject(RejectNoSpawnTile, fmt.Sprintf("Units can only be placed on row %d", battle.FactionPlayer.SpawnRow())), nil
	}
	if t.state.UnitAt(pos) != nil {
		return t.reject(RejectNoSpawnTile, fmt.Sprintf("Tile %s is occupied", pos)), nil
	}
	if card.Cost > fs.Energy {
		return t.reject(RejectNotEnoughEnergy, fmt.Sprintf("Not enough energy, %d required", card.Cost)), nil
	}

	unit := t.spawn(battle.FactionPlayer, card, pos)
	t.state.MustBeConsistent()

	return &PlaceUnitOutput{
		State: t.state,
		Unit:  &unit,
	}, nil
}

func (e *engine) EndTurn(ctx context.Context, state *battle.State) (*battle.State, error) {
	if state == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	if state.Phase != battle.PhasePlayerPlace {
		return nil, errors.FailedPreconditionf("cannot end the turn during %s", state.Phase)
	}

	t := e.newTurn(state)
	t.state.Phase = battle.PhasePlayerAct
	t.state.Cursor = battle.ActCursor{}
	t.snapshot()

	return t.state, nil
}

func (e *engine) Footprint(state *battle.State, unitID int) (*battle.Footprint, error) {
	if state == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	u := state.Unit(unitID)
	if u == nil {
		return nil, errors.NotFoundf("unit %d not found", unitID)
	}

	fp := &battle.Footprint{
		UnitID:  u.ID,
		Moves:   make([]battle.Position, 0, len(u.MovePattern)),
		Attacks: make([]battle.Position, 0, len(u.AttackPattern)),
	}

	pos := u.Position
	for _, step := range u.MovePattern {
		pos = battle.Offset(pos, step, u.Faction)
		fp.Moves = append(fp.Moves, pos)
	}
	for _, offset := range u.AttackPattern {
		fp.Attacks = append(fp.Attacks, battle.Offset(pos, offset, u.Faction))
	}

	return fp, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
