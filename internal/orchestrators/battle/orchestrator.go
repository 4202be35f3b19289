// Package battle owns running battles: it loads state from the repository,
// runs engine commands one at a time per battle and saves the result.
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
	battlerepo "github.com/KirkDiggler/rpg-battle/internal/repositories/battle"
)

// Deck generation when a start request leaves a deck empty
const (
	DefaultDeckArchetypes = 4

	// streams for generated decks, clear of the engine's phase streams
	playerDeckStream = 1<<32 + 1
	enemyDeckStream  = 1<<32 + 2
)

// Service defines the battle operations exposed to handlers
type Service interface {
	// StartBattle creates a battle and runs it to the first player placement
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)

	// PlaceUnit plays a card from the player's hand onto the spawn row
	PlaceUnit(ctx context.Context, input *PlaceUnitInput) (*PlaceUnitOutput, error)

	// EndTurn runs the player's act phase, the enemy's round and the
	// player's draw, stopping at the next placement or the end of the battle.
	// A battle left between phases by an interrupted run is resumed from
	// where it stopped.
	EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error)

	GetFootprint(ctx context.Context, input *GetFootprintInput) (*GetFootprintOutput, error)
	DeleteBattle(ctx context.Context, input *DeleteBattleInput) (*DeleteBattleOutput, error)
}

// BattleCloser ends the event streams of a deleted battle
type BattleCloser interface {
	CloseBattle(battleID string)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	Engine      engine.Engine
	Repository  battlerepo.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	// Optional
	Streams BattleCloser
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	engine  engine.Engine
	repo    battlerepo.Repository
	idGen   idgen.Generator
	clock   clock.Clock
	streams BattleCloser
	locks   *lockTable
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		engine:  cfg.Engine,
		repo:    cfg.Repository,
		idGen:   cfg.IDGenerator,
		clock:   cfg.Clock,
		streams: cfg.Streams,
		locks:   newLockTable(),
	}, nil
}

func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	seed := uint64(o.clock.Now().UnixNano())
	if input.Seed != nil {
		seed = *input.Seed
	}

	playerDeck, err := deckOrGenerated(input.PlayerDeck, seed, playerDeckStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate player deck")
	}
	enemyDeck, err := deckOrGenerated(input.EnemyDeck, seed, enemyDeckStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate enemy deck")
	}

	id := o.idGen.Generate()

	state, err := o.engine.NewBattle(ctx, &engine.NewBattleInput{
		ID:           id,
		Seed:         seed,
		PlayerDeck:   playerDeck,
		EnemyDeck:    enemyDeck,
		PlayerHealth: input.PlayerHealth,
		EnemyHealth:  input.EnemyHealth,
		Rules: battle.Rules{
			TerrainBlocking: input.TerrainBlocking,
			Placement:       input.Placement,
		},
		Map: input.Map,
	})
	if err != nil {
		return nil, err
	}

	unlock := o.locks.lock(id)
	defer unlock()

	if _, err := o.repo.Create(ctx, battlerepo.CreateInput{State: state}); err != nil {
		return nil, errors.Wrapf(err, "failed to store battle %s", id)
	}

	slog.Info("Battle started",
		"battle_id", id,
		"seed", seed,
		"player_cards", len(playerDeck),
		"enemy_cards", len(enemyDeck))

	state, err = o.run(ctx, state, o.engine.RunUntilInput)
	if err != nil {
		return nil, err
	}

	return &StartBattleOutput{Battle: state}, nil
}

func deckOrGenerated(deck []battle.UnitKind, seed, stream uint64) ([]battle.UnitKind, error) {
	if len(deck) > 0 {
		return deck, nil
	}
	return battle.GenerateDeck(random.NewSeeded(seed, stream), DefaultDeckArchetypes, battle.DefaultDeckSize)
}

func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	state, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	return &GetBattleOutput{Battle: state}, nil
}

func (o *orchestrator) PlaceUnit(ctx context.Context, input *PlaceUnitInput) (*PlaceUnitOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	unlock := o.locks.lock(input.BattleID)
	defer unlock()

	state, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	out, err := o.engine.PlaceUnit(ctx, &engine.PlaceUnitInput{
		State:    state,
		CardID:   input.CardID,
		Position: input.Position,
	})
	if err != nil {
		return nil, err
	}

	// rejections are logged in the battle, so they are saved too
	if err := o.save(ctx, out.State); err != nil {
		return nil, err
	}

	if out.Rejected {
		slog.Info("Placement rejected",
			"battle_id", input.BattleID,
			"card_id", input.CardID,
			"reason", out.Reason)
	} else if out.Unit != nil {
		slog.Debug("Unit placed",
			"battle_id", input.BattleID,
			"card_id", input.CardID,
			entityAttr("unit", out.Unit))
	}

	return &PlaceUnitOutput{
		Battle:   out.State,
		Unit:     out.Unit,
		Rejected: out.Rejected,
		Reason:   out.Reason,
		Message:  out.Message,
	}, nil
}

func (o *orchestrator) EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	unlock := o.locks.lock(input.BattleID)
	defer unlock()

	state, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	if resumable(state) {
		slog.Info("Resuming battle", "battle_id", state.ID, "round", state.Round, "phase", state.Phase)
	} else {
		state, err = o.engine.EndTurn(ctx, state)
		if err != nil {
			return nil, err
		}
	}

	state, err = o.run(ctx, state, o.engine.RunUntilInput)
	if err != nil {
		return nil, err
	}

	return &EndTurnOutput{Battle: state}, nil
}

// resumable reports whether a stored battle was interrupted mid-run and
// still waits for the engine rather than for the player
func resumable(state *battle.State) bool {
	return state.Phase != battle.PhasePlayerPlace && !state.Ended()
}

func (o *orchestrator) GetFootprint(ctx context.Context, input *GetFootprintInput) (*GetFootprintOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	state, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	fp, err := o.engine.Footprint(state, input.UnitID)
	if err != nil {
		return nil, err
	}

	return &GetFootprintOutput{Footprint: fp}, nil
}

func (o *orchestrator) DeleteBattle(ctx context.Context, input *DeleteBattleInput) (*DeleteBattleOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	unlock := o.locks.lock(input.BattleID)
	defer unlock()

	if _, err := o.repo.Delete(ctx, battlerepo.DeleteInput{ID: input.BattleID}); err != nil {
		return nil, err
	}

	if o.streams != nil {
		o.streams.CloseBattle(input.BattleID)
	}

	slog.Info("Battle deleted", "battle_id", input.BattleID)

	return &DeleteBattleOutput{}, nil
}

func (o *orchestrator) load(ctx context.Context, battleID string) (*battle.State, error) {
	out, err := o.repo.Get(ctx, battlerepo.GetInput{ID: battleID})
	if err != nil {
		return nil, err
	}
	return out.State, nil
}

// run advances the battle and saves whatever it reached, including the
// partial state of a cancelled run
func (o *orchestrator) run(
	ctx context.Context,
	state *battle.State,
	step func(context.Context, *battle.State) (*battle.State, error),
) (*battle.State, error) {
	next, runErr := step(ctx, state)
	if next == nil {
		return nil, runErr
	}

	if err := o.save(ctx, next); err != nil {
		return nil, err
	}

	if runErr != nil {
		slog.Warn("Battle interrupted",
			"battle_id", next.ID,
			"round", next.Round,
			"phase", next.Phase,
			"error", runErr)
		return nil, runErr
	}

	if next.Ended() {
		slog.Info("Battle ended",
			"battle_id", next.ID,
			"round", next.Round,
			"outcome", next.Outcome)
	}

	return next, nil
}

// save outlives a cancelled request so interrupted state is never lost
func (o *orchestrator) save(ctx context.Context, state *battle.State) error {
	state.UpdatedAt = o.clock.Now()

	if _, err := o.repo.Update(context.WithoutCancel(ctx), battlerepo.UpdateInput{State: state}); err != nil {
		return errors.Wrapf(err, "failed to save battle %s", state.ID)
	}
	return nil
}
