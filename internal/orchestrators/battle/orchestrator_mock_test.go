package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	enginemock "github.com/KirkDiggler/rpg-battle/internal/engine/mock"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	mockclock "github.com/KirkDiggler/rpg-battle/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/idgen"
	battlerepo "github.com/KirkDiggler/rpg-battle/internal/repositories/battle"
	battlerepomock "github.com/KirkDiggler/rpg-battle/internal/repositories/battle/mock"
)

// OrchestratorMockTestSuite covers the save paths the real engine cannot
// easily reach
type OrchestratorMockTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockEngine   *enginemock.MockEngine
	mockRepo     *battlerepomock.MockRepository
	mockClock    *mockclock.MockClock
	orchestrator battleorchestrator.Service
	ctx          context.Context
}

func TestOrchestratorMockSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorMockTestSuite))
}

func (s *OrchestratorMockTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockEngine = enginemock.NewMockEngine(s.ctrl)
	s.mockRepo = battlerepomock.NewMockRepository(s.ctrl)
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.mockClock.EXPECT().Now().Return(time.Unix(1000, 0).UTC()).AnyTimes()
	s.ctx = context.Background()

	var err error
	s.orchestrator, err = battleorchestrator.NewOrchestrator(&battleorchestrator.Config{
		Engine:      s.mockEngine,
		Repository:  s.mockRepo,
		IDGenerator: idgen.NewSequential("battle"),
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorMockTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorMockTestSuite) TestConfigValidation() {
	_, err := battleorchestrator.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = battleorchestrator.NewOrchestrator(&battleorchestrator.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Engine: is required")
	s.Contains(err.Error(), "Repository: is required")
	s.Contains(err.Error(), "IDGenerator: is required")
	s.Contains(err.Error(), "Clock: is required")
}

func (s *OrchestratorMockTestSuite) TestCancelledEndTurnSavesPartialState() {
	stored := &battle.State{ID: "battle_1", Phase: battle.PhasePlayerPlace}
	acting := &battle.State{ID: "battle_1", Phase: battle.PhasePlayerAct}
	partial := &battle.State{ID: "battle_1", Phase: battle.PhasePlayerAct, Cursor: battle.ActCursor{LastActed: 2}}

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.mockRepo.EXPECT().Get(ctx, battlerepo.GetInput{ID: "battle_1"}).
		Return(&battlerepo.GetOutput{State: stored}, nil)
	s.mockEngine.EXPECT().EndTurn(ctx, stored).Return(acting, nil)
	s.mockEngine.EXPECT().RunUntilInput(ctx, acting).
		DoAndReturn(func(context.Context, *battle.State) (*battle.State, error) {
			cancel()
			return partial, errors.Canceled("battle battle_1: player_act interrupted")
		})
	s.mockRepo.EXPECT().Update(gomock.Any(), battlerepo.UpdateInput{State: partial}).
		DoAndReturn(func(ctx context.Context, input battlerepo.UpdateInput) (*battlerepo.UpdateOutput, error) {
			s.NoError(ctx.Err(), "the save must not inherit the cancellation")
			return &battlerepo.UpdateOutput{State: input.State}, nil
		})

	out, err := s.orchestrator.EndTurn(ctx, &battleorchestrator.EndTurnInput{BattleID: "battle_1"})
	s.Nil(out)
	s.True(errors.IsCanceled(err))
}

func (s *OrchestratorMockTestSuite) TestEndTurnResumesInterruptedRun() {
	partial := &battle.State{ID: "battle_1", Phase: battle.PhasePlayerAct, Cursor: battle.ActCursor{LastActed: 2}}
	settled := &battle.State{ID: "battle_1", Round: 2, Phase: battle.PhasePlayerPlace}

	s.mockRepo.EXPECT().Get(s.ctx, battlerepo.GetInput{ID: "battle_1"}).
		Return(&battlerepo.GetOutput{State: partial}, nil)
	// no engine EndTurn: the stored phase already belongs to the engine
	s.mockEngine.EXPECT().RunUntilInput(s.ctx, partial).Return(settled, nil)
	s.mockRepo.EXPECT().Update(gomock.Any(), battlerepo.UpdateInput{State: settled}).
		Return(&battlerepo.UpdateOutput{State: settled}, nil)

	out, err := s.orchestrator.EndTurn(s.ctx, &battleorchestrator.EndTurnInput{BattleID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(battle.PhasePlayerPlace, out.Battle.Phase)
}

func (s *OrchestratorMockTestSuite) TestWrongPhaseSavesNothing() {
	stored := &battle.State{ID: "battle_1", Phase: battle.PhaseEnded}

	s.mockRepo.EXPECT().Get(s.ctx, battlerepo.GetInput{ID: "battle_1"}).
		Return(&battlerepo.GetOutput{State: stored}, nil)
	s.mockEngine.EXPECT().EndTurn(s.ctx, stored).
		Return(nil, errors.FailedPrecondition("cannot end the turn during ended"))

	_, err := s.orchestrator.EndTurn(s.ctx, &battleorchestrator.EndTurnInput{BattleID: "battle_1"})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorMockTestSuite) TestSaveFailure() {
	state := &battle.State{ID: "battle_1", Phase: battle.PhasePlayerPlace}

	s.mockEngine.EXPECT().NewBattle(s.ctx, gomock.Any()).Return(state, nil)
	s.mockRepo.EXPECT().Create(s.ctx, battlerepo.CreateInput{State: state}).
		Return(&battlerepo.CreateOutput{State: state}, nil)
	s.mockEngine.EXPECT().RunUntilInput(s.ctx, state).Return(state, nil)
	s.mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis is down"))

	_, err := s.orchestrator.StartBattle(s.ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck: footmen(5),
		EnemyDeck:  footmen(5),
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to save battle battle_1")
}
