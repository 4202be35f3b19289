// Package ws streams battle events to browsers over WebSocket
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	"github.com/KirkDiggler/rpg-battle/internal/stream"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber opens event subscriptions
type Subscriber interface {
	Subscribe(battleID string) *stream.Subscription
}

// HandlerConfig holds dependencies for the WebSocket handler
type HandlerConfig struct {
	BattleService battleorchestrator.Service
	Streams       Subscriber
	// Empty allows every origin
	AllowedOrigins []string
	Logger         *slog.Logger
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

// Handler serves the event stream and a health check
type Handler struct {
	battleService battleorchestrator.Service
	streams       Subscriber
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewHandler creates a WebSocket handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Handler{
		battleService: cfg.BattleService,
		streams:       cfg.Streams,
		logger:        cfg.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
		},
	}

	return h, nil
}

// Router returns the routes of the handler
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/battles/{battleID}/events", h.events).Methods(http.MethodGet)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	battleID := mux.Vars(r)["battleID"]

	// subscribe before reading so nothing between the two is missed
	sub := h.streams.Subscribe(battleID)
	defer sub.Close()

	out, err := h.battleService.GetBattle(r.Context(), &battleorchestrator.GetBattleInput{BattleID: battleID})
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		h.logger.Warn("websocket upgrade failed", "battle_id", battleID, "error", err)
		return
	}
	defer conn.Close()

	h.logger.Info("websocket client connected", "battle_id", battleID, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.readLoop(conn, cancel)

	if err := h.write(conn, stream.Event{Kind: stream.EventSnapshot, BattleID: battleID, Snapshot: out.Battle}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case ev, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := h.write(conn, ev); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, ev stream.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(ev); err != nil {
		h.logger.Debug("websocket write failed", "battle_id", ev.BattleID, "error", err)
		return err
	}
	return nil
}

// readLoop discards client messages and notices when the client goes away
func (h *Handler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  code.String(),
		"error": errors.GetMessage(err),
	})
}
