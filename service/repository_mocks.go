package service

import (
	"context"

	"tambola/events"
	"tambola/models"

	"github.com/stretchr/testify/mock"
)

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByCode(ctx context.Context, code string) (*models.Game, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) UpdateState(ctx context.Context, id int64, isActive bool, lastNumber *int) error {
	args := m.Called(ctx, id, isActive, lastNumber)
	return args.Error(0)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetBySerial(ctx context.Context, serial string) (*models.Ticket, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) SerialExists(ctx context.Context, serial string) (bool, error) {
	args := m.Called(ctx, serial)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) ListRecentGrids(ctx context.Context, gameID int64, limit int) ([]models.Grid, error) {
	args := m.Called(ctx, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Grid), args.Error(1)
}

func (m *MockTicketRepository) ListUnwon(ctx context.Context, gameID int64) ([]*models.Ticket, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

// MockDrawnNumberRepository is a mock implementation of DrawnNumberRepository
type MockDrawnNumberRepository struct {
	mock.Mock
}

func (m *MockDrawnNumberRepository) ListByGame(ctx context.Context, gameID int64) ([]int, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockDrawnNumberRepository) Append(ctx context.Context, gameID int64, number int, seq int) error {
	args := m.Called(ctx, gameID, number, seq)
	return args.Error(0)
}

func (m *MockDrawnNumberRepository) DeleteByGame(ctx context.Context, gameID int64) (int64, error) {
	args := m.Called(ctx, gameID)
	return args.Get(0).(int64), args.Error(1)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) CreateIfAbsent(ctx context.Context, record *models.WinnerRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockWinnerRepository) GetByTicketID(ctx context.Context, ticketID int64) (*models.WinnerRecord, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WinnerRecord), args.Error(1)
}

func (m *MockWinnerRepository) ListUnpaidForUpdate(ctx context.Context, gameID int64, clubID *int64) ([]*models.WinnerRecord, error) {
	args := m.Called(ctx, gameID, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinnerRecord), args.Error(1)
}

func (m *MockWinnerRepository) MarkPaid(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWinnerRepository) ResetPaid(ctx context.Context, gameID int64, clubID *int64) (int64, error) {
	args := m.Called(ctx, gameID, clubID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWinnerRepository) ListRecent(ctx context.Context, gameID int64, limit int) ([]*models.WinnerRecord, error) {
	args := m.Called(ctx, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinnerRecord), args.Error(1)
}

func (m *MockWinnerRepository) DeleteByGame(ctx context.Context, gameID int64) (int64, error) {
	args := m.Called(ctx, gameID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRewardRepository is a mock implementation of RewardRepository
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) ListConfigs(ctx context.Context) ([]*models.RewardConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardConfig), args.Error(1)
}

func (m *MockRewardRepository) ListActiveConfigs(ctx context.Context) ([]*models.RewardConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardConfig), args.Error(1)
}

func (m *MockRewardRepository) GetConfigByID(ctx context.Context, id int64) (*models.RewardConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardConfig), args.Error(1)
}

func (m *MockRewardRepository) UpdateConfig(ctx context.Context, config *models.RewardConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockRewardRepository) CreatePayment(ctx context.Context, payment *models.RewardPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockRewardRepository) ListPaymentsBySerial(ctx context.Context, serial string) ([]*models.RewardPayment, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardPayment), args.Error(1)
}

// MockClubRepository is a mock implementation of ClubRepository
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) Create(ctx context.Context, club *models.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}

func (m *MockClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) List(ctx context.Context, status models.ClubStatus, organizerID string) ([]*models.Club, error) {
	args := m.Called(ctx, status, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Club), args.Error(1)
}

func (m *MockClubRepository) AddTicket(ctx context.Context, clubTicket *models.ClubTicket) (bool, error) {
	args := m.Called(ctx, clubTicket)
	return args.Bool(0), args.Error(1)
}

func (m *MockClubRepository) ListTickets(ctx context.Context, clubID int64) ([]*models.ClubTicket, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClubTicket), args.Error(1)
}

func (m *MockClubRepository) IncrementSold(ctx context.Context, clubID int64, count int) error {
	args := m.Called(ctx, clubID, count)
	return args.Error(0)
}

func (m *MockClubRepository) MarkDistributed(ctx context.Context, clubID int64, amount int64) error {
	args := m.Called(ctx, clubID, amount)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever was set, so only Begin, Commit and Rollback need expectations.
type MockUnitOfWork struct {
	mock.Mock

	gameRepo        GameRepository
	ticketRepo      TicketRepository
	drawnNumberRepo DrawnNumberRepository
	winnerRepo      WinnerRepository
	rewardRepo      RewardRepository
	clubRepo        ClubRepository
	eventBus        EventPublisher
}

// SetRepositories sets the repositories returned by the getters. Nil values are ignored.
func (m *MockUnitOfWork) SetRepositories(game GameRepository, ticket TicketRepository, drawn DrawnNumberRepository, winner WinnerRepository) {
	if game != nil {
		m.gameRepo = game
	}
	if ticket != nil {
		m.ticketRepo = ticket
	}
	if drawn != nil {
		m.drawnNumberRepo = drawn
	}
	if winner != nil {
		m.winnerRepo = winner
	}
}

func (m *MockUnitOfWork) SetRewardRepository(repo RewardRepository) {
	m.rewardRepo = repo
}

func (m *MockUnitOfWork) SetClubRepository(repo ClubRepository) {
	m.clubRepo = repo
}

func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GameRepository() GameRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) TicketRepository() TicketRepository {
	return m.ticketRepo
}

func (m *MockUnitOfWork) DrawnNumberRepository() DrawnNumberRepository {
	return m.drawnNumberRepo
}

func (m *MockUnitOfWork) WinnerRepository() WinnerRepository {
	return m.winnerRepo
}

func (m *MockUnitOfWork) RewardRepository() RewardRepository {
	return m.rewardRepo
}

func (m *MockUnitOfWork) ClubRepository() ClubRepository {
	return m.clubRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
