package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tambola/events"
	"tambola/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsBusEvents(t *testing.T) {
	m := NewMetrics()
	bus := events.NewBus()
	m.Attach(bus)
	ctx := context.Background()

	bus.Emit(ctx, events.NumberDrawnEvent{GameID: 1, Number: 5, TotalDrawn: 1})
	bus.Emit(ctx, events.NumberDrawnEvent{GameID: 1, Number: 6, TotalDrawn: 2})
	bus.Emit(ctx, events.GameResetEvent{GameID: 1})
	bus.Emit(ctx, events.WinnersAnnouncedEvent{GameID: 1, Winners: []*models.Winner{
		{Patterns: []models.Pattern{{Kind: models.PatternQuickFive}}},
		{Patterns: []models.Pattern{{Kind: models.PatternQuickFive}}},
	}})
	bus.Emit(ctx, events.RewardsDistributedEvent{GameID: 1, Count: 2, TotalAmount: 50000})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.draws))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gameResets))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.winners.WithLabelValues("quick_five")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.payments))
	assert.Equal(t, 50000.0, testutil.ToFloat64(m.paymentAmount))
}

func TestMetrics_RequestsAndHandler(t *testing.T) {
	m := NewMetrics()
	m.RegisterGauge("live", "clients", "Connected live clients.", func() float64 { return 3 })

	done := m.StartRequest(http.MethodGet)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
	done("/api/games/:id", http.StatusOK)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/games/:id", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tambola_live_clients 3")
	assert.Contains(t, rec.Body.String(), "tambola_http_requests_total")
}
