package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"tambola/config"
	"tambola/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testTicketConfig() *config.Config {
	return &config.Config{
		RecentTicketWindow: 250,
		TicketMaxAttempts:  3,
		MaxBuildTickets:    5,
	}
}

func newTestTicketFactory(m *testMocks) *ticketFactory {
	return NewTicketFactory(m.factory, testTicketConfig()).(*ticketFactory)
}

func TestGenerateGrid_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		grid := GenerateGrid(rng)
		require.NoError(t, grid.Validate())
		assert.Len(t, grid.Numbers(), models.TicketNumbers)

		for r := 0; r < models.GridRows; r++ {
			for c := 0; c < models.GridColumns; c++ {
				assert.Equal(t, models.Template[r][c], grid[r][c] != models.Blank,
					"cell %d,%d does not follow the template", r, c)
			}
		}
	}
}

func TestTicketFactory_GenerateTicket(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupBasicTransactionMocks(m.uow)

	factory := newTestTicketFactory(m)
	factory.newSerial = func() string { return "T000000ABC" }

	m.games.On("GetByID", ctx, int64(1)).Return(createTestGame(1, false, nil), nil)
	m.tickets.On("ListRecentGrids", ctx, int64(1), 250).Return([]models.Grid{}, nil)
	m.tickets.On("SerialExists", ctx, "T000000ABC").Return(false, nil)
	m.tickets.On("Create", ctx, mock.MatchedBy(func(tk *models.Ticket) bool {
		return tk.GameID == 1 &&
			tk.Serial == "T000000ABC" &&
			tk.PlayerName == "Asha" &&
			tk.PlayerEmail == "asha@example.com" &&
			tk.Grid.Validate() == nil
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Ticket).ID = 7
	})

	ticket, err := factory.GenerateTicket(ctx, 1, models.PlayerIdentity{Name: "  Asha ", Email: "asha@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), ticket.ID)
	assert.Equal(t, "T000000ABC", ticket.Serial)
	m.assertExpectations(t)
}

func TestTicketFactory_RegeneratesDuplicates(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupBasicTransactionMocks(m.uow)

	duplicate := testGrid()
	fresh := testGrid()
	fresh[0][0] = 2

	calls := 0
	factory := newTestTicketFactory(m)
	factory.generate = func() models.Grid {
		calls++
		if calls == 1 {
			return duplicate
		}
		return fresh
	}
	factory.newSerial = func() string { return "T111111111" }

	m.games.On("GetByID", ctx, int64(1)).Return(createTestGame(1, false, nil), nil)
	m.tickets.On("ListRecentGrids", ctx, int64(1), 250).Return([]models.Grid{duplicate}, nil)
	m.tickets.On("SerialExists", ctx, "T111111111").Return(false, nil)
	m.tickets.On("Create", ctx, mock.MatchedBy(func(tk *models.Ticket) bool {
		return tk.Grid == fresh
	})).Return(nil)

	ticket, err := factory.GenerateTicket(ctx, 1, models.PlayerIdentity{Name: "Asha", Email: "a@example.com"})

	require.NoError(t, err)
	assert.Equal(t, fresh, ticket.Grid)
	assert.Equal(t, 2, calls)
	m.assertExpectations(t)
}

func TestTicketFactory_RetryCapExceeded(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupReadOnlyTransactionMocks(m.uow)

	duplicate := testGrid()
	calls := 0
	factory := newTestTicketFactory(m)
	factory.generate = func() models.Grid {
		calls++
		return duplicate
	}

	m.games.On("GetByID", ctx, int64(1)).Return(createTestGame(1, false, nil), nil)
	m.tickets.On("ListRecentGrids", ctx, int64(1), 250).Return([]models.Grid{duplicate}, nil)

	ticket, err := factory.GenerateTicket(ctx, 1, models.PlayerIdentity{Name: "Asha", Email: "a@example.com"})

	assert.Nil(t, ticket)
	assert.True(t, IsKind(err, KindGeneration))
	assert.Equal(t, 3, calls)
	m.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestTicketFactory_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		player models.PlayerIdentity
		count  int
	}{
		{"missing name", models.PlayerIdentity{Email: "a@example.com"}, 1},
		{"blank name", models.PlayerIdentity{Name: "   ", Email: "a@example.com"}, 1},
		{"missing email", models.PlayerIdentity{Name: "Asha"}, 1},
		{"zero count", models.PlayerIdentity{Name: "Asha", Email: "a@example.com"}, 0},
		{"count above limit", models.PlayerIdentity{Name: "Asha", Email: "a@example.com"}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newTestMocks()
			factory := newTestTicketFactory(m)

			tickets, err := factory.BuildTickets(context.Background(), 1, tt.player, tt.count)

			assert.Nil(t, tickets)
			assert.True(t, IsKind(err, KindValidation))
			m.factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestTicketFactory_GameNotFound(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupReadOnlyTransactionMocks(m.uow)

	m.games.On("GetByID", ctx, int64(9)).Return(nil, nil)

	_, err := newTestTicketFactory(m).GenerateTicket(ctx, 9, models.PlayerIdentity{Name: "Asha", Email: "a@example.com"})

	assert.True(t, IsKind(err, KindNotFound))
	m.assertExpectations(t)
}

func TestTicketFactory_BuildTickets(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupBasicTransactionMocks(m.uow)

	factory := newTestTicketFactory(m)
	factory.rng = rand.New(rand.NewSource(7))

	m.games.On("GetByID", ctx, int64(1)).Return(createTestGame(1, false, nil), nil)
	m.tickets.On("ListRecentGrids", ctx, int64(1), 250).Return(nil, nil)
	m.tickets.On("SerialExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	m.tickets.On("Create", ctx, mock.AnythingOfType("*models.Ticket")).Return(nil)

	tickets, err := factory.BuildTickets(ctx, 1, models.PlayerIdentity{Name: "Asha", Email: "a@example.com"}, 4)

	require.NoError(t, err)
	require.Len(t, tickets, 4)

	grids := make(map[models.Grid]struct{})
	serials := make(map[string]struct{})
	for _, tk := range tickets {
		grids[tk.Grid] = struct{}{}
		serials[tk.Serial] = struct{}{}
		assert.Regexp(t, `^T[0-9A-F]{9}$`, tk.Serial)
	}
	assert.Len(t, grids, 4)
	assert.Len(t, serials, 4)
	m.tickets.AssertNumberOfCalls(t, "Create", 4)
}

func TestTicketFactory_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupReadOnlyTransactionMocks(m.uow)

	m.games.On("GetByID", ctx, int64(1)).Return(nil, errors.New("connection reset"))

	_, err := newTestTicketFactory(m).GenerateTicket(ctx, 1, models.PlayerIdentity{Name: "Asha", Email: "a@example.com"})

	assert.True(t, IsKind(err, KindPersistence))
	m.uow.AssertNotCalled(t, "Commit")
}
