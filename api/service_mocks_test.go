package api

import (
	"context"

	"tambola/models"

	"github.com/stretchr/testify/mock"
)

type mockGameService struct{ mock.Mock }

func (m *mockGameService) CreateGame(ctx context.Context, name string, timeSlot *string) (*models.Game, error) {
	args := m.Called(ctx, name, timeSlot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *mockGameService) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *mockGameService) LiveResults(ctx context.Context, gameID int64) (*models.LiveResults, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LiveResults), args.Error(1)
}

func (m *mockGameService) PlayerDetails(ctx context.Context, serial string) (*models.PlayerDetails, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerDetails), args.Error(1)
}

func (m *mockGameService) PlayerRewards(ctx context.Context, serial string) ([]*models.RewardPayment, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardPayment), args.Error(1)
}

func (m *mockGameService) RewardConfigs(ctx context.Context) ([]*models.RewardConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardConfig), args.Error(1)
}

func (m *mockGameService) UpdateRewardConfig(ctx context.Context, id int64, amount int64, isActive bool) (*models.RewardConfig, error) {
	args := m.Called(ctx, id, amount, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardConfig), args.Error(1)
}

type mockTicketFactory struct{ mock.Mock }

func (m *mockTicketFactory) GenerateTicket(ctx context.Context, gameID int64, player models.PlayerIdentity) (*models.Ticket, error) {
	args := m.Called(ctx, gameID, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *mockTicketFactory) BuildTickets(ctx context.Context, gameID int64, player models.PlayerIdentity, count int) ([]*models.Ticket, error) {
	args := m.Called(ctx, gameID, player, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

type mockDrawEngine struct{ mock.Mock }

func (m *mockDrawEngine) DrawNext(ctx context.Context, gameID int64) (*models.DrawResult, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrawResult), args.Error(1)
}

func (m *mockDrawEngine) Start(ctx context.Context, gameID int64) (*models.GameState, error) {
	return m.state(m.Called(ctx, gameID))
}

func (m *mockDrawEngine) Reset(ctx context.Context, gameID int64) (*models.GameState, error) {
	return m.state(m.Called(ctx, gameID))
}

func (m *mockDrawEngine) State(ctx context.Context, gameID int64) (*models.GameState, error) {
	return m.state(m.Called(ctx, gameID))
}

func (m *mockDrawEngine) state(args mock.Arguments) (*models.GameState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameState), args.Error(1)
}

type mockWinnerService struct{ mock.Mock }

func (m *mockWinnerService) EvaluateWinners(ctx context.Context, gameID int64) (*models.EvaluationSummary, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EvaluationSummary), args.Error(1)
}

type mockPrizeDistributor struct{ mock.Mock }

func (m *mockPrizeDistributor) DistributePending(ctx context.Context, opts models.DistributeOptions) (*models.DistributionSummary, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DistributionSummary), args.Error(1)
}

type mockClubService struct{ mock.Mock }

func (m *mockClubService) CreateClub(ctx context.Context, input models.ClubInput) (*models.Club, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *mockClubService) GetClub(ctx context.Context, clubID int64) (*models.ClubDetail, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClubDetail), args.Error(1)
}

func (m *mockClubService) ListClubs(ctx context.Context, status models.ClubStatus, organizerID string) ([]*models.Club, error) {
	args := m.Called(ctx, status, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Club), args.Error(1)
}

func (m *mockClubService) AddPlayers(ctx context.Context, clubID int64, serials []string) (*models.AddPlayersResult, error) {
	args := m.Called(ctx, clubID, serials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AddPlayersResult), args.Error(1)
}

func (m *mockClubService) DistributePrizes(ctx context.Context, clubID int64, force bool) (*models.ClubDistribution, error) {
	args := m.Called(ctx, clubID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClubDistribution), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
