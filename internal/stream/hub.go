// Package stream fans battle events out to subscribers.
//
// The engine publishes through Hub from inside a running phase, so publishing
// never blocks: a subscriber whose buffer is full misses the event. Snapshots
// carry the whole state, so a client that fell behind catches up on the next
// one.
package stream

import (
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
)

// DefaultBuffer is the per-subscriber channel size
const DefaultBuffer = 64

// EventKind tags an Event
type EventKind string

// Event kinds
const (
	EventSnapshot EventKind = "snapshot"
	EventLog      EventKind = "log"
	EventHint     EventKind = "hint"
)

// Event is one message on a battle's stream. Exactly one of Snapshot, Log and
// Hint is set, matching Kind.
type Event struct {
	Kind     EventKind          `json:"kind"`
	BattleID string             `json:"battle_id"`
	Snapshot *battle.State      `json:"snapshot,omitempty"`
	Log      *battle.LogEntry   `json:"log,omitempty"`
	Hint     *battle.AttackHint `json:"hint,omitempty"`
}

// Config configures a Hub
type Config struct {
	// Buffer defaults to DefaultBuffer
	Buffer int
	Logger *slog.Logger
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Buffer < 0 {
		vb.Field("Buffer", "must not be negative")
	}
	return vb.Build()
}

// Hub keeps the subscribers of every battle
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	logger *slog.Logger
}

// NewHub creates a hub
func NewHub(cfg *Config) (*Hub, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	h := &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: cfg.Buffer,
		logger: cfg.Logger,
	}
	if h.buffer == 0 {
		h.buffer = DefaultBuffer
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h, nil
}

// Subscription receives the events of one battle until closed
type Subscription struct {
	BattleID string

	hub     *Hub
	events  chan Event
	dropped int
	closed  bool
}

// Events is closed when the subscription ends
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Dropped counts events lost to a full buffer
func (s *Subscription) Dropped() int {
	s.hub.mu.RLock()
	defer s.hub.mu.RUnlock()
	return s.dropped
}

// Close ends the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Subscribe starts receiving events for a battle
func (h *Hub) Subscribe(battleID string) *Subscription {
	sub := &Subscription{
		BattleID: battleID,
		hub:      h,
		events:   make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[battleID] == nil {
		h.subs[battleID] = make(map[*Subscription]struct{})
	}
	h.subs[battleID][sub] = struct{}{}

	return sub
}

// Subscribers counts the open subscriptions of a battle
func (h *Hub) Subscribers(battleID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[battleID])
}

// Publish hands an event to every subscriber of its battle without waiting
func (h *Hub) Publish(ev Event) {
	// The write lock guards the drop counters; sends themselves never block.
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[ev.BattleID] {
		select {
		case sub.events <- ev:
		default:
			sub.dropped++
			h.logger.Debug("dropped battle event",
				"battle_id", ev.BattleID,
				"kind", ev.Kind,
				"dropped", sub.dropped)
		}
	}
}

// CloseBattle ends every subscription of a battle
func (h *Hub) CloseBattle(battleID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[battleID] {
		sub.closed = true
		close(sub.events)
	}
	delete(h.subs, battleID)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.events)

	subs := h.subs[sub.BattleID]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subs, sub.BattleID)
	}
}

// OnSnapshot publishes a snapshot event
func (h *Hub) OnSnapshot(state *battle.State) {
	h.Publish(Event{Kind: EventSnapshot, BattleID: state.ID, Snapshot: state})
}

// OnLog publishes a log event
func (h *Hub) OnLog(battleID string, entry battle.LogEntry) {
	h.Publish(Event{Kind: EventLog, BattleID: battleID, Log: &entry})
}

// OnHint publishes a hint event
func (h *Hub) OnHint(battleID string, hint battle.AttackHint) {
	h.Publish(Event{Kind: EventHint, BattleID: battleID, Hint: &hint})
}
