package v1alpha1_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	"github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	battlemock "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle/mock"
	"github.com/KirkDiggler/rpg-battle/internal/stream"
	"github.com/KirkDiggler/rpg-battle/internal/testutils"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *battlemock.MockService
	hub         *stream.Hub
	server      *grpc.Server
	conn        *grpc.ClientConn
	client      v1alpha1.BattleServiceClient
	ctx         context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = battlemock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	hub, err := stream.NewHub(nil)
	s.Require().NoError(err)
	s.hub = hub

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		BattleService: s.mockService,
		Streams:       s.hub,
	})
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	recovery := grpc_recovery.WithRecoveryHandlerContext(v1alpha1.RecoverPanic(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.server = grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpc_recovery.UnaryServerInterceptor(recovery)),
		grpc.ChainStreamInterceptor(grpc_recovery.StreamServerInterceptor(recovery)),
	)
	v1alpha1.RegisterBattleServiceServer(s.server, handler)
	go func() {
		_ = s.server.Serve(lis)
	}()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = v1alpha1.NewBattleServiceClient(s.conn)
}

func (s *HandlerTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) requireCode(err error, code codes.Code) {
	s.T().Helper()
	s.Require().Error(err)
	st, ok := status.FromError(err)
	s.Require().True(ok, "not a status error: %v", err)
	s.Equal(code, st.Code(), st.Message())
}

func (s *HandlerTestSuite) TestStartBattle() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")
	seed := uint64(42)

	s.mockService.EXPECT().
		StartBattle(gomock.Any(), &battleorchestrator.StartBattleInput{
			PlayerDeck:   []battle.UnitKind{battle.UnitKindFootman, battle.UnitKindKnight},
			EnemyDeck:    []battle.UnitKind{battle.UnitKindThief},
			Seed:         &seed,
			PlayerHealth: 12,
			Placement:    battle.PolicyStopOnUnaffordable,
		}).
		Return(&battleorchestrator.StartBattleOutput{Battle: state}, nil)

	resp, err := s.client.StartBattle(s.ctx, &v1alpha1.StartBattleRequest{
		PlayerDeck:   []string{"footman", "knight"},
		EnemyDeck:    []string{"thief"},
		Seed:         &seed,
		PlayerHealth: 12,
		Placement:    "stop",
	})
	s.Require().NoError(err)
	s.Equal(state, resp.Battle)
}

func (s *HandlerTestSuite) TestStartBattleUnknownKind() {
	_, err := s.client.StartBattle(s.ctx, &v1alpha1.StartBattleRequest{
		PlayerDeck: []string{"footman", "dragon"},
	})
	s.requireCode(err, codes.InvalidArgument)
	s.Contains(err.Error(), `player_deck[1]: unknown unit kind "dragon"`)
}

func (s *HandlerTestSuite) TestGetBattle() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")

	s.mockService.EXPECT().
		GetBattle(gomock.Any(), &battleorchestrator.GetBattleInput{BattleID: "battle_1"}).
		Return(&battleorchestrator.GetBattleOutput{Battle: state}, nil)
	s.mockService.EXPECT().
		GetBattle(gomock.Any(), &battleorchestrator.GetBattleInput{BattleID: "missing"}).
		Return(nil, errors.NotFound("battle with ID missing not found"))

	resp, err := s.client.GetBattle(s.ctx, &v1alpha1.GetBattleRequest{BattleID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(state.Player.Units, resp.Battle.Player.Units)

	_, err = s.client.GetBattle(s.ctx, &v1alpha1.GetBattleRequest{BattleID: "missing"})
	s.requireCode(err, codes.NotFound)

	_, err = s.client.GetBattle(s.ctx, &v1alpha1.GetBattleRequest{})
	s.requireCode(err, codes.InvalidArgument)
}

func (s *HandlerTestSuite) TestPlaceUnitRejection() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")

	s.mockService.EXPECT().
		PlaceUnit(gomock.Any(), &battleorchestrator.PlaceUnitInput{
			BattleID: "battle_1",
			CardID:   4,
			Position: battle.Pos(2, 5),
		}).
		Return(&battleorchestrator.PlaceUnitOutput{
			Battle:   state,
			Rejected: true,
			Reason:   engine.RejectNotEnoughEnergy,
			Message:  "Not enough energy, 3 required",
		}, nil)

	resp, err := s.client.PlaceUnit(s.ctx, &v1alpha1.PlaceUnitRequest{BattleID: "battle_1", CardID: 4, X: 2, Y: 5})
	s.Require().NoError(err)
	s.True(resp.Rejected)
	s.Equal("not_enough_energy", resp.Reason)
	s.Equal("Not enough energy, 3 required", resp.Message)
	s.Nil(resp.Unit)
}

func (s *HandlerTestSuite) TestEndTurnWrongPhase() {
	s.mockService.EXPECT().
		EndTurn(gomock.Any(), &battleorchestrator.EndTurnInput{BattleID: "battle_1"}).
		Return(nil, errors.FailedPrecondition("cannot end the turn during ended"))

	_, err := s.client.EndTurn(s.ctx, &v1alpha1.EndTurnRequest{BattleID: "battle_1"})
	s.requireCode(err, codes.FailedPrecondition)
}

func (s *HandlerTestSuite) TestPanicBecomesInternal() {
	s.mockService.EXPECT().
		EndTurn(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *battleorchestrator.EndTurnInput) (*battleorchestrator.EndTurnOutput, error) {
			panic("battle battle_1 is inconsistent")
		})

	_, err := s.client.EndTurn(s.ctx, &v1alpha1.EndTurnRequest{BattleID: "battle_1"})
	s.requireCode(err, codes.Internal)
	s.Contains(status.Convert(err).Message(), "battle battle_1 is inconsistent")
}

func (s *HandlerTestSuite) TestRecoverPanicAnswersInternal() {
	err := v1alpha1.RecoverPanic(nil)(s.ctx, "boom")
	s.Equal(codes.Internal, status.Code(err))
	s.Equal("internal error: boom", status.Convert(err).Message())
}

func (s *HandlerTestSuite) TestGetFootprint() {
	fp := &battle.Footprint{
		UnitID:  2,
		Moves:   []battle.Position{battle.Pos(3, 4)},
		Attacks: []battle.Position{battle.Pos(3, 3)},
	}
	s.mockService.EXPECT().
		GetFootprint(gomock.Any(), &battleorchestrator.GetFootprintInput{BattleID: "battle_1", UnitID: 2}).
		Return(&battleorchestrator.GetFootprintOutput{Footprint: fp}, nil)

	resp, err := s.client.GetFootprint(s.ctx, &v1alpha1.GetFootprintRequest{BattleID: "battle_1", UnitID: 2})
	s.Require().NoError(err)
	s.Equal(fp, resp.Footprint)
}

func (s *HandlerTestSuite) TestDeleteBattle() {
	s.mockService.EXPECT().
		DeleteBattle(gomock.Any(), &battleorchestrator.DeleteBattleInput{BattleID: "battle_1"}).
		Return(&battleorchestrator.DeleteBattleOutput{}, nil)

	_, err := s.client.DeleteBattle(s.ctx, &v1alpha1.DeleteBattleRequest{BattleID: "battle_1"})
	s.NoError(err)
}

func (s *HandlerTestSuite) TestWatchBattle() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")
	s.mockService.EXPECT().
		GetBattle(gomock.Any(), &battleorchestrator.GetBattleInput{BattleID: "battle_1"}).
		Return(&battleorchestrator.GetBattleOutput{Battle: state}, nil)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	events, err := s.client.WatchBattle(ctx, &v1alpha1.WatchBattleRequest{BattleID: "battle_1"})
	s.Require().NoError(err)

	first, err := events.Recv()
	s.Require().NoError(err)
	s.Equal(stream.EventSnapshot, first.Kind)
	s.Equal(state.Log, first.Snapshot.Log)

	s.hub.OnLog("battle_1", battle.LogEntry{Seq: 3, Round: 1, Message: "Your Knight enters at (1,5)"})
	s.hub.OnHint("battle_1", battle.AttackHint{Position: battle.Pos(1, 4), Amount: 2})

	ev, err := events.Recv()
	s.Require().NoError(err)
	s.Equal(stream.EventLog, ev.Kind)
	s.Equal("Your Knight enters at (1,5)", ev.Log.Message)

	ev, err = events.Recv()
	s.Require().NoError(err)
	s.Equal(stream.EventHint, ev.Kind)
	s.Equal(2, ev.Hint.Amount)

	s.hub.CloseBattle("battle_1")
	_, err = events.Recv()
	s.Equal(io.EOF, err)
}

func (s *HandlerTestSuite) TestWatchUnknownBattle() {
	s.mockService.EXPECT().
		GetBattle(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("battle with ID missing not found"))

	events, err := s.client.WatchBattle(s.ctx, &v1alpha1.WatchBattleRequest{BattleID: "missing"})
	s.Require().NoError(err)

	_, err = events.Recv()
	s.requireCode(err, codes.NotFound)
	s.Zero(s.hub.Subscribers("missing"))
}

func (s *HandlerTestSuite) TestNewHandlerValidation() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.Require().Error(err)
	s.Contains(err.Error(), "BattleService: is required")
}
