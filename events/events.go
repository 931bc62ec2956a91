package events

import (
	"context"
	"sync"

	"tambola/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeNumberDrawn        EventType = "number_drawn"
	EventTypeGameStarted        EventType = "game_started"
	EventTypeGameReset          EventType = "game_reset"
	EventTypeWinnersAnnounced   EventType = "winners_announced"
	EventTypeRewardsDistributed EventType = "rewards_distributed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Game() int64
}

// NumberDrawnEvent is published after a draw commits
type NumberDrawnEvent struct {
	GameID     int64 `json:"gameId"`
	Number     int   `json:"number"`
	TotalDrawn int   `json:"totalDrawn"`
}

func (e NumberDrawnEvent) Type() EventType { return EventTypeNumberDrawn }
func (e NumberDrawnEvent) Game() int64     { return e.GameID }

// GameStartedEvent is published when a game becomes active
type GameStartedEvent struct {
	GameID int64 `json:"gameId"`
}

func (e GameStartedEvent) Type() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) Game() int64     { return e.GameID }

// GameResetEvent is published when a game is cleared and stopped
type GameResetEvent struct {
	GameID int64 `json:"gameId"`
}

func (e GameResetEvent) Type() EventType { return EventTypeGameReset }
func (e GameResetEvent) Game() int64     { return e.GameID }

// WinnersAnnouncedEvent carries the winners recorded by one evaluation pass
type WinnersAnnouncedEvent struct {
	GameID  int64            `json:"gameId"`
	Winners []*models.Winner `json:"winners"`
}

func (e WinnersAnnouncedEvent) Type() EventType { return EventTypeWinnersAnnounced }
func (e WinnersAnnouncedEvent) Game() int64     { return e.GameID }

// RewardsDistributedEvent summarises a prize distribution run
type RewardsDistributedEvent struct {
	GameID      int64  `json:"gameId"`
	ClubID      *int64 `json:"clubId,omitempty"`
	Count       int    `json:"count"`
	TotalAmount int64  `json:"totalAmount"`
}

func (e RewardsDistributedEvent) Type() EventType { return EventTypeRewardsDistributed }
func (e RewardsDistributedEvent) Game() int64     { return e.GameID }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu         sync.RWMutex
	handlers   map[EventType][]Handler
	allHandler []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allHandler = append(b.allHandler, handler)
}

// Emit delivers an event to its handlers in subscription order.
// Handlers run on the caller's goroutine so broadcasts keep the order of
// emission; they must not block.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.allHandler))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.allHandler...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"gameId":       event.Game(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		b.dispatch(ctx, event, handler, i)
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event, h Handler, handlerIndex int) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": handlerIndex,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()
	h(ctx, event)
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the events waiting for commit
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush emits pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	if len(b.pending) == 0 {
		return
	}

	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing committed events")

	// Events outlive the request that produced them
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	if len(b.pending) > 0 {
		log.WithField("discardedEventCount", len(b.pending)).Debug("Discarding events from rolled back transaction")
	}
	b.pending = nil
}
