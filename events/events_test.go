package events

import (
	"context"
	"testing"

	"tambola/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransactionalBus_FlushDeliversInOrder tests the flow from TransactionalBus to the main Bus
func TestTransactionalBus_FlushDeliversInOrder(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	var received []int
	mainBus.Subscribe(EventTypeNumberDrawn, func(ctx context.Context, event Event) {
		drawn, ok := event.(NumberDrawnEvent)
		require.True(t, ok, "expected NumberDrawnEvent, got %T", event)
		received = append(received, drawn.Number)
	})

	for i, n := range []int{17, 4, 88} {
		txBus.Publish(NumberDrawnEvent{GameID: 1, Number: n, TotalDrawn: i + 1})
	}

	assert.Empty(t, received, "nothing should be delivered before flush")
	assert.Len(t, txBus.Pending(), 3)

	txBus.Flush(context.Background())

	assert.Equal(t, []int{17, 4, 88}, received)
	assert.Empty(t, txBus.Pending())
}

func TestTransactionalBus_DiscardDropsEvents(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	called := false
	mainBus.SubscribeAll(func(ctx context.Context, event Event) {
		called = true
	})

	txBus.Publish(GameStartedEvent{GameID: 1})
	txBus.Discard()
	txBus.Flush(context.Background())

	assert.False(t, called)
}

func TestBus_SubscribeAllReceivesEveryType(t *testing.T) {
	bus := NewBus()

	var types []EventType
	bus.SubscribeAll(func(ctx context.Context, event Event) {
		types = append(types, event.Type())
	})

	bus.Emit(context.Background(), GameStartedEvent{GameID: 2})
	bus.Emit(context.Background(), WinnersAnnouncedEvent{GameID: 2, Winners: []*models.Winner{{TicketID: 1}}})
	bus.Emit(context.Background(), GameResetEvent{GameID: 2})

	assert.Equal(t, []EventType{EventTypeGameStarted, EventTypeWinnersAnnounced, EventTypeGameReset}, types)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(EventTypeGameReset, func(ctx context.Context, event Event) {
		panic("boom")
	})
	delivered := false
	bus.Subscribe(EventTypeGameReset, func(ctx context.Context, event Event) {
		delivered = true
	})

	assert.NotPanics(t, func() {
		bus.Emit(context.Background(), GameResetEvent{GameID: 1})
	})
	assert.True(t, delivered)
}

func TestBus_FlushContextSurvivesCancellation(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	var handlerErr error
	bus.Subscribe(EventTypeGameStarted, func(ctx context.Context, event Event) {
		handlerErr = ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	txBus.Publish(GameStartedEvent{GameID: 1})
	txBus.Flush(ctx)

	assert.NoError(t, handlerErr)
}
