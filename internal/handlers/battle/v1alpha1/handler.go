// Package v1alpha1 serves the battle gRPC service
package v1alpha1

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	"github.com/KirkDiggler/rpg-battle/internal/stream"
)

// Subscriber opens event subscriptions
type Subscriber interface {
	Subscribe(battleID string) *stream.Subscription
}

// HandlerConfig holds dependencies for the battle handler
type HandlerConfig struct {
	BattleService battleorchestrator.Service
	Streams       Subscriber
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	if c.Streams == nil {
		vb.RequiredField("Streams")
	}
	return vb.Build()
}

// Handler implements BattleServiceServer
type Handler struct {
	battleService battleorchestrator.Service
	streams       Subscriber
}

// NewHandler creates a new battle handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		battleService: cfg.BattleService,
		streams:       cfg.Streams,
	}, nil
}

// StartBattle starts a battle and returns it at the first player placement
func (h *Handler) StartBattle(ctx context.Context, req *StartBattleRequest) (*StartBattleResponse, error) {
	playerDeck, err := unitKinds("player_deck", req.PlayerDeck)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	enemyDeck, err := unitKinds("enemy_deck", req.EnemyDeck)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.StartBattle(ctx, &battleorchestrator.StartBattleInput{
		PlayerDeck:      playerDeck,
		EnemyDeck:       enemyDeck,
		Seed:            req.Seed,
		PlayerHealth:    req.PlayerHealth,
		EnemyHealth:     req.EnemyHealth,
		TerrainBlocking: req.TerrainBlocking,
		Placement:       battle.PlacementPolicy(req.Placement),
		Map:             req.Map,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &StartBattleResponse{Battle: out.Battle}, nil
}

// unitKinds checks deck entries against the catalog
func unitKinds(field string, names []string) ([]battle.UnitKind, error) {
	kinds := make([]battle.UnitKind, 0, len(names))
	for i, name := range names {
		kind := battle.UnitKind(name)
		if _, err := battle.LookupCardType(kind); err != nil {
			return nil, errors.InvalidArgumentf("%s[%d]: unknown unit kind %q", field, i, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// GetBattle returns the stored battle state
func (h *Handler) GetBattle(ctx context.Context, req *GetBattleRequest) (*GetBattleResponse, error) {
	if req.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	out, err := h.battleService.GetBattle(ctx, &battleorchestrator.GetBattleInput{BattleID: req.BattleID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetBattleResponse{Battle: out.Battle}, nil
}

// PlaceUnit plays a card onto the player's spawn row
func (h *Handler) PlaceUnit(ctx context.Context, req *PlaceUnitRequest) (*PlaceUnitResponse, error) {
	if req.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	out, err := h.battleService.PlaceUnit(ctx, &battleorchestrator.PlaceUnitInput{
		BattleID: req.BattleID,
		CardID:   req.CardID,
		Position: battle.Pos(req.X, req.Y),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &PlaceUnitResponse{
		Battle:   out.Battle,
		Unit:     out.Unit,
		Rejected: out.Rejected,
		Reason:   string(out.Reason),
		Message:  out.Message,
	}, nil
}

// EndTurn hands the turn to the engine until the player is needed again
func (h *Handler) EndTurn(ctx context.Context, req *EndTurnRequest) (*EndTurnResponse, error) {
	if req.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	out, err := h.battleService.EndTurn(ctx, &battleorchestrator.EndTurnInput{BattleID: req.BattleID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &EndTurnResponse{Battle: out.Battle}, nil
}

// GetFootprint returns the tiles a unit would move through and attack
func (h *Handler) GetFootprint(ctx context.Context, req *GetFootprintRequest) (*GetFootprintResponse, error) {
	if req.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	out, err := h.battleService.GetFootprint(ctx, &battleorchestrator.GetFootprintInput{
		BattleID: req.BattleID,
		UnitID:   req.UnitID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetFootprintResponse{Footprint: out.Footprint}, nil
}

// DeleteBattle removes a battle and ends its streams
func (h *Handler) DeleteBattle(ctx context.Context, req *DeleteBattleRequest) (*DeleteBattleResponse, error) {
	if req.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	if _, err := h.battleService.DeleteBattle(ctx, &battleorchestrator.DeleteBattleInput{BattleID: req.BattleID}); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &DeleteBattleResponse{}, nil
}

// WatchBattle streams a snapshot of the battle followed by its live events
// until the client goes away or the battle is deleted
func (h *Handler) WatchBattle(req *WatchBattleRequest, srv BattleService_WatchBattleServer) error {
	if req.BattleID == "" {
		return errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}
	ctx := srv.Context()

	// subscribe before reading so nothing between the two is missed
	sub := h.streams.Subscribe(req.BattleID)
	defer sub.Close()

	out, err := h.battleService.GetBattle(ctx, &battleorchestrator.GetBattleInput{BattleID: req.BattleID})
	if err != nil {
		return errors.ToGRPCError(err)
	}
	if err := srv.Send(&stream.Event{Kind: stream.EventSnapshot, BattleID: req.BattleID, Snapshot: out.Battle}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				slog.Debug("battle stream closed", "battle_id", req.BattleID)
				return nil
			}
			if err := srv.Send(&ev); err != nil {
				return err
			}
		}
	}
}

var _ BattleServiceServer = (*Handler)(nil)

