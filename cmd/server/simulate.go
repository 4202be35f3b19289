package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
	battlerepo "github.com/KirkDiggler/rpg-battle/internal/repositories/battle"
)

// playerStream keeps the autoplayer's rolls apart from the engine's phase streams
const playerStream = 1 << 40

// simulationEpoch stamps every simulated log entry so replays compare equal
var simulationEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	simSeed         uint64
	simMaxRounds    int
	simPlayerHealth int
	simEnemyHealth  int
	simPlayerDeck   []string
	simEnemyDeck    []string
	simPlacement    string
	simQuiet        bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play a battle headlessly with both sides on autopilot",
	Long: `Play a battle to the end without a client. The player side uses the same
placement planner as the enemy. The battle log and the outcome are printed.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "battle seed")
	simulateCmd.Flags().IntVar(&simMaxRounds, "max-rounds", 50, "give up after this many rounds")
	simulateCmd.Flags().IntVar(&simPlayerHealth, "player-health", battle.DefaultFactionHealth, "player faction health")
	simulateCmd.Flags().IntVar(&simEnemyHealth, "enemy-health", battle.DefaultFactionHealth, "enemy faction health")
	simulateCmd.Flags().StringSliceVar(&simPlayerDeck, "player-deck", nil, "player unit kinds, generated when empty")
	simulateCmd.Flags().StringSliceVar(&simEnemyDeck, "enemy-deck", nil, "enemy unit kinds, generated when empty")
	simulateCmd.Flags().StringVar(&simPlacement, "placement", string(battle.PolicySkipUnaffordable), "planner policy: skip or stop")
	simulateCmd.Flags().BoolVarP(&simQuiet, "quiet", "q", false, "print only the outcome")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(newLogger(slog.LevelWarn))

	playerDeck, err := parseKinds("player-deck", simPlayerDeck)
	if err != nil {
		return err
	}
	enemyDeck, err := parseKinds("enemy-deck", simEnemyDeck)
	if err != nil {
		return err
	}

	res, err := simulate(cmd.Context(), &simulation{
		Seed:         simSeed,
		MaxRounds:    simMaxRounds,
		PlayerHealth: simPlayerHealth,
		EnemyHealth:  simEnemyHealth,
		PlayerDeck:   playerDeck,
		EnemyDeck:    enemyDeck,
		Placement:    battle.PlacementPolicy(simPlacement),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !simQuiet {
		printLog(out, res.Battle.Log)
	}
	fmt.Fprintf(out, "Outcome: %s after %d rounds (player %d, enemy %d)\n",
		res.outcome(), res.Battle.Round, res.Battle.Player.Health, res.Battle.Enemy.Health)

	return nil
}

type simulation struct {
	Seed         uint64
	MaxRounds    int
	PlayerHealth int
	EnemyHealth  int
	PlayerDeck   []battle.UnitKind
	EnemyDeck    []battle.UnitKind
	Placement    battle.PlacementPolicy
}

type simulationResult struct {
	Battle *battle.State
	// Set when MaxRounds ran out before either side won
	TimedOut bool
}

func (r *simulationResult) outcome() string {
	switch {
	case r.TimedOut:
		return "undecided"
	case r.Battle.Outcome == battle.OutcomeWon:
		return "player won"
	default:
		return "enemy won"
	}
}

// simulate runs a whole battle in memory with no pacing
func simulate(ctx context.Context, sim *simulation) (*simulationResult, error) {
	if sim.MaxRounds <= 0 {
		return nil, errors.InvalidArgument("max rounds must be positive")
	}

	clk := clock.Fixed{At: simulationEpoch}
	eng, err := engine.New(&engine.Config{Pacer: engine.None(), Clock: clk})
	if err != nil {
		return nil, err
	}
	svc, err := battleorchestrator.NewOrchestrator(&battleorchestrator.Config{
		Engine:      eng,
		Repository:  battlerepo.NewInMemory(),
		IDGenerator: idgen.NewSequential("sim"),
		Clock:       clk,
	})
	if err != nil {
		return nil, err
	}

	seed := sim.Seed
	started, err := svc.StartBattle(ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck:   sim.PlayerDeck,
		EnemyDeck:    sim.EnemyDeck,
		Seed:         &seed,
		PlayerHealth: sim.PlayerHealth,
		EnemyHealth:  sim.EnemyHealth,
		Placement:    sim.Placement,
	})
	if err != nil {
		return nil, err
	}

	state := started.Battle
	for !state.Ended() {
		if state.Round > sim.MaxRounds {
			return &simulationResult{Battle: state, TimedOut: true}, nil
		}

		state, err = playTurn(ctx, svc, state)
		if err != nil {
			return nil, err
		}

		ended, err := svc.EndTurn(ctx, &battleorchestrator.EndTurnInput{BattleID: state.ID})
		if err != nil {
			return nil, err
		}
		state = ended.Battle
	}

	return &simulationResult{Battle: state}, nil
}

// playTurn places the player's hand the way the enemy planner would
func playTurn(ctx context.Context, svc battleorchestrator.Service, state *battle.State) (*battle.State, error) {
	row := battle.FactionPlayer.SpawnRow()
	r := random.NewSeeded(state.Seed, playerStream+uint64(state.Round))

	var occupied []int
	for _, u := range append(append([]battle.Unit{}, state.Player.Units...), state.Enemy.Units...) {
		if u.Position.Y == row {
			occupied = append(occupied, u.Position.X)
		}
	}

	spawns, err := engine.PlaceUnits(state.Player.Piles.Hand, state.Player.Energy, row, occupied, r, state.Rules.Placement)
	if err != nil {
		return nil, errors.Wrap(err, "failed to plan player placements")
	}

	for _, s := range spawns {
		out, err := svc.PlaceUnit(ctx, &battleorchestrator.PlaceUnitInput{
			BattleID: state.ID,
			CardID:   s.Card.ID,
			Position: s.Position,
		})
		if err != nil {
			return nil, err
		}
		state = out.Battle
	}

	return state, nil
}

func parseKinds(flag string, names []string) ([]battle.UnitKind, error) {
	kinds := make([]battle.UnitKind, 0, len(names))
	for _, name := range names {
		kind := battle.UnitKind(strings.TrimSpace(name))
		if _, err := battle.LookupCardType(kind); err != nil {
			return nil, errors.InvalidArgumentf("--%s: unknown unit kind %q", flag, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func printLog(w io.Writer, entries []battle.LogEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "[%3d] round %-2d %-13s %s\n", e.Seq, e.Round, e.Phase, e.Message)
	}
}
