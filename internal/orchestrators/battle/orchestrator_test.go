package battle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	mockclock "github.com/KirkDiggler/rpg-battle/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/idgen"
	battlerepo "github.com/KirkDiggler/rpg-battle/internal/repositories/battle"
	"github.com/KirkDiggler/rpg-battle/internal/stream"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockClock    *mockclock.MockClock
	repo         *battlerepo.InMemoryRepository
	hub          *stream.Hub
	orchestrator battleorchestrator.Service
	ctx          context.Context
	now          time.Time
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.now).AnyTimes()
	s.ctx = context.Background()

	hub, err := stream.NewHub(&stream.Config{Buffer: 4096})
	s.Require().NoError(err)
	s.hub = hub

	eng, err := engine.New(&engine.Config{
		Pacer:    engine.None(),
		Clock:    s.mockClock,
		Observer: s.hub,
	})
	s.Require().NoError(err)

	s.repo = battlerepo.NewInMemory()

	s.orchestrator, err = battleorchestrator.NewOrchestrator(&battleorchestrator.Config{
		Engine:      eng,
		Repository:  s.repo,
		IDGenerator: idgen.NewSequential("battle"),
		Clock:       s.mockClock,
		Streams:     s.hub,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func seed(v uint64) *uint64 {
	return &v
}

func footmen(n int) []battle.UnitKind {
	out := make([]battle.UnitKind, n)
	for i := range out {
		out[i] = battle.UnitKindFootman
	}
	return out
}

func (s *OrchestratorTestSuite) start(seedValue uint64) *battle.State {
	out, err := s.orchestrator.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck: footmen(20),
		EnemyDeck:  footmen(20),
		Seed:       seed(seedValue),
	})
	s.Require().NoError(err)
	return out.Battle
}

func (s *OrchestratorTestSuite) TestStartBattle() {
	state := s.start(3)

	s.Equal("battle_1", state.ID)
	s.Equal(uint64(3), state.Seed)
	s.Equal(1, state.Round)
	s.Equal(battle.PhasePlayerPlace, state.Phase)
	s.Len(state.Player.Piles.Hand, battle.HandSize)
	s.Equal(3, state.Player.Energy)
	s.Equal(s.now, state.UpdatedAt)

	got, err := s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Equal(state.Phase, got.Battle.Phase)
	s.Equal(state.Log, got.Battle.Log)
}

func (s *OrchestratorTestSuite) TestStartBattleGeneratesDecks() {
	first, err := s.orchestrator.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{Seed: seed(11)})
	s.Require().NoError(err)
	second, err := s.orchestrator.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{Seed: seed(11)})
	s.Require().NoError(err)

	s.Equal(battle.DefaultDeckSize, first.Battle.Player.CardCount)
	s.Equal(battle.DefaultDeckSize, first.Battle.Enemy.CardCount)
	s.NotEqual(first.Battle.ID, second.Battle.ID)
	s.Equal(first.Battle.Player.Piles, second.Battle.Player.Piles, "same seed, same decks")
	s.Equal(first.Battle.Enemy.Units, second.Battle.Enemy.Units)
}

func (s *OrchestratorTestSuite) TestStartBattleValidation() {
	_, err := s.orchestrator.StartBattle(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck:   footmen(5),
		EnemyDeck:    footmen(5),
		PlayerHealth: 500,
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck: []battle.UnitKind{"dragon"},
		EnemyDeck:  footmen(5),
	})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestPlaceUnitAndEndTurn() {
	state := s.start(3)
	card := state.Player.Piles.Hand[0]

	placed, err := s.orchestrator.PlaceUnit(s.ctx, &battleorchestrator.PlaceUnitInput{
		BattleID: state.ID,
		CardID:   card.ID,
		Position: battle.Pos(0, 5),
	})
	s.Require().NoError(err)
	s.False(placed.Rejected)
	s.Require().NotNil(placed.Unit)
	s.Equal(battle.Pos(0, 5), placed.Unit.Position)
	s.Equal(2, placed.Battle.Player.Energy)

	stored, err := s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.NotNil(stored.Battle.Unit(placed.Unit.ID))

	ended, err := s.orchestrator.EndTurn(s.ctx, &battleorchestrator.EndTurnInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Equal(2, ended.Battle.Round)
	s.Equal(battle.PhasePlayerPlace, ended.Battle.Phase)

	stored, err = s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Equal(ended.Battle.Log, stored.Battle.Log)
	s.NoError(stored.Battle.Validate())
}

func (s *OrchestratorTestSuite) TestRejectedPlacementIsSaved() {
	state := s.start(3)

	out, err := s.orchestrator.PlaceUnit(s.ctx, &battleorchestrator.PlaceUnitInput{
		BattleID: state.ID,
		CardID:   999,
		Position: battle.Pos(0, 5),
	})
	s.Require().NoError(err)
	s.True(out.Rejected)
	s.Equal(engine.RejectCardNotInHand, out.Reason)
	s.Equal("Card 999 is not in your hand", out.Message)

	stored, err := s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Len(stored.Battle.Log, len(state.Log)+1)
	s.Equal(out.Message, stored.Battle.Log[len(stored.Battle.Log)-1].Message)
}

func (s *OrchestratorTestSuite) TestUnknownBattle() {
	_, err := s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.PlaceUnit(s.ctx, &battleorchestrator.PlaceUnitInput{BattleID: "nope", CardID: 1})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.EndTurn(s.ctx, &battleorchestrator.EndTurnInput{BattleID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.GetFootprint(s.ctx, &battleorchestrator.GetFootprintInput{BattleID: "nope", UnitID: 1})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.DeleteBattle(s.ctx, &battleorchestrator.DeleteBattleInput{BattleID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestGetFootprint() {
	state := s.start(3)
	enemy := state.Enemy.Units[0]

	out, err := s.orchestrator.GetFootprint(s.ctx, &battleorchestrator.GetFootprintInput{
		BattleID: state.ID,
		UnitID:   enemy.ID,
	})
	s.Require().NoError(err)
	s.Equal(enemy.ID, out.Footprint.UnitID)
	s.Equal([]battle.Position{enemy.Position.Add(battle.Pos(0, 1))}, out.Footprint.Moves)
	s.Equal([]battle.Position{enemy.Position.Add(battle.Pos(0, 2))}, out.Footprint.Attacks)

	_, err = s.orchestrator.GetFootprint(s.ctx, &battleorchestrator.GetFootprintInput{BattleID: state.ID, UnitID: 99})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestEndTurnStreamsEvents() {
	state := s.start(3)
	sub := s.hub.Subscribe(state.ID)
	defer sub.Close()

	_, err := s.orchestrator.EndTurn(s.ctx, &battleorchestrator.EndTurnInput{BattleID: state.ID})
	s.Require().NoError(err)

	kinds := map[stream.EventKind]int{}
	var messages []string
	for len(sub.Events()) > 0 {
		ev := <-sub.Events()
		kinds[ev.Kind]++
		if ev.Log != nil {
			messages = append(messages, ev.Log.Message)
		}
	}
	s.Positive(kinds[stream.EventSnapshot])
	s.Contains(messages, "Round 2")
	s.Zero(sub.Dropped())
}

func (s *OrchestratorTestSuite) TestDeleteBattleClosesStreams() {
	state := s.start(3)
	sub := s.hub.Subscribe(state.ID)

	_, err := s.orchestrator.DeleteBattle(s.ctx, &battleorchestrator.DeleteBattleInput{BattleID: state.ID})
	s.Require().NoError(err)

	_, open := <-sub.Events()
	s.False(open)

	_, err = s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestConcurrentPlacementsAreSerialised() {
	state := s.start(3)
	hand := state.Player.Piles.Hand

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		rejected int
	)
	for i, card := range hand {
		wg.Add(1)
		go func(x, cardID int) {
			defer wg.Done()
			out, err := s.orchestrator.PlaceUnit(s.ctx, &battleorchestrator.PlaceUnitInput{
				BattleID: state.ID,
				CardID:   cardID,
				Position: battle.Pos(x, 5),
			})
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if out.Rejected {
				rejected++
			} else {
				placed++
			}
		}(i, card.ID)
	}
	wg.Wait()

	// three cost-1 footmen fit in three energy
	s.Equal(3, placed)
	s.Equal(2, rejected)

	stored, err := s.orchestrator.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Zero(stored.Battle.Player.Energy)
	s.Len(stored.Battle.Player.Units, 3)
	s.Len(stored.Battle.Log, len(state.Log)+5)
	s.NoError(stored.Battle.Validate())
}

// interruptPacer cancels the first run it paces and lets later runs through
type interruptPacer struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (p *interruptPacer) arm(cancel context.CancelFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel = cancel
}

func (p *interruptPacer) Pause(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
	return ctx.Err()
}

func (s *OrchestratorTestSuite) TestEndTurnResumesAnInterruptedRun() {
	pacer := &interruptPacer{}
	eng, err := engine.New(&engine.Config{Pacer: pacer, Clock: s.mockClock, Observer: s.hub})
	s.Require().NoError(err)
	orch, err := battleorchestrator.NewOrchestrator(&battleorchestrator.Config{
		Engine:      eng,
		Repository:  s.repo,
		IDGenerator: idgen.NewSequential("battle"),
		Clock:       s.mockClock,
		Streams:     s.hub,
	})
	s.Require().NoError(err)

	started, err := orch.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck: footmen(20),
		EnemyDeck:  footmen(20),
		Seed:       seed(3),
	})
	s.Require().NoError(err)
	state := started.Battle

	_, err = orch.PlaceUnit(s.ctx, &battleorchestrator.PlaceUnitInput{
		BattleID: state.ID,
		CardID:   state.Player.Piles.Hand[0].ID,
		Position: battle.Pos(0, 5),
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	pacer.arm(cancel)

	_, err = orch.EndTurn(ctx, &battleorchestrator.EndTurnInput{BattleID: state.ID})
	s.True(errors.IsCanceled(err))

	stored, err := orch.GetBattle(s.ctx, &battleorchestrator.GetBattleInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Equal(battle.PhasePlayerAct, stored.Battle.Phase, "the footman's step is saved mid-phase")
	s.Equal(battle.Pos(0, 4), stored.Battle.Player.Units[0].Position)

	resumed, err := orch.EndTurn(s.ctx, &battleorchestrator.EndTurnInput{BattleID: state.ID})
	s.Require().NoError(err)
	s.Equal(battle.PhasePlayerPlace, resumed.Battle.Phase)
	s.Equal(2, resumed.Battle.Round)
	s.Equal(battle.Pos(0, 4), resumed.Battle.Player.Units[0].Position, "the step is not replayed")
	s.NoError(resumed.Battle.Validate())

	for i, entry := range resumed.Battle.Log {
		s.Equal(i+1, entry.Seq)
	}
}
