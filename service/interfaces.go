package service

import (
	"context"

	"tambola/events"
	"tambola/models"
)

// GameRepository defines the interface for game session data access
type GameRepository interface {
	// Create inserts a new game and fills its generated fields
	Create(ctx context.Context, game *models.Game) error

	// GetByID returns nil when the game does not exist
	GetByID(ctx context.Context, id int64) (*models.Game, error)

	// GetByIDForUpdate locks the game row for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Game, error)

	// GetByCode returns nil when no game has the code
	GetByCode(ctx context.Context, code string) (*models.Game, error)

	// UpdateState sets the active flag and the last drawn number
	UpdateState(ctx context.Context, id int64, isActive bool, lastNumber *int) error
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a ticket and fills its generated fields
	Create(ctx context.Context, ticket *models.Ticket) error

	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	GetBySerial(ctx context.Context, serial string) (*models.Ticket, error)
	SerialExists(ctx context.Context, serial string) (bool, error)

	// ListRecentGrids returns the grids of the most recently issued tickets of a game
	ListRecentGrids(ctx context.Context, gameID int64, limit int) ([]models.Grid, error)

	// ListUnwon returns the tickets of a game that have no winner record yet
	ListUnwon(ctx context.Context, gameID int64) ([]*models.Ticket, error)
}

// DrawnNumberRepository defines the interface for the drawn number sequence of a game
type DrawnNumberRepository interface {
	// ListByGame returns drawn numbers in draw order
	ListByGame(ctx context.Context, gameID int64) ([]int, error)

	// Append records number as draw seq of the game
	Append(ctx context.Context, gameID int64, number int, seq int) error

	// DeleteByGame clears the sequence and returns how many numbers were removed
	DeleteByGame(ctx context.Context, gameID int64) (int64, error)
}

// WinnerRepository defines the interface for winner record data access
type WinnerRepository interface {
	// CreateIfAbsent inserts the record unless its ticket already has one.
	// Returns false without error when a record already exists.
	CreateIfAbsent(ctx context.Context, record *models.WinnerRecord) (bool, error)

	GetByTicketID(ctx context.Context, ticketID int64) (*models.WinnerRecord, error)

	// ListUnpaidForUpdate locks and returns unpaid records oldest first.
	// A non-nil clubID limits the result to tickets of that club.
	ListUnpaidForUpdate(ctx context.Context, gameID int64, clubID *int64) ([]*models.WinnerRecord, error)

	MarkPaid(ctx context.Context, id int64) error

	// ResetPaid clears the paid flag in scope and returns how many records changed
	ResetPaid(ctx context.Context, gameID int64, clubID *int64) (int64, error)

	// ListRecent returns the newest records of a game
	ListRecent(ctx context.Context, gameID int64, limit int) ([]*models.WinnerRecord, error)

	DeleteByGame(ctx context.Context, gameID int64) (int64, error)
}

// RewardRepository defines the interface for reward configuration and payments
type RewardRepository interface {
	ListConfigs(ctx context.Context) ([]*models.RewardConfig, error)
	ListActiveConfigs(ctx context.Context) ([]*models.RewardConfig, error)
	GetConfigByID(ctx context.Context, id int64) (*models.RewardConfig, error)
	UpdateConfig(ctx context.Context, config *models.RewardConfig) error

	// CreatePayment appends a payment row
	CreatePayment(ctx context.Context, payment *models.RewardPayment) error

	// ListPaymentsBySerial returns payments for a ticket, newest first
	ListPaymentsBySerial(ctx context.Context, serial string) ([]*models.RewardPayment, error)
}

// ClubRepository defines the interface for club data access
type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Club, error)
	List(ctx context.Context, status models.ClubStatus, organizerID string) ([]*models.Club, error)

	// AddTicket links a ticket to the club. Returns false when the ticket
	// already belongs to a club.
	AddTicket(ctx context.Context, clubTicket *models.ClubTicket) (bool, error)

	ListTickets(ctx context.Context, clubID int64) ([]*models.ClubTicket, error)

	// IncrementSold adds count to tickets_sold
	IncrementSold(ctx context.Context, clubID int64, count int) error

	// MarkDistributed flags the club as distributed and adds amount to total_distributed
	MarkDistributed(ctx context.Context, clubID int64, amount int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction. No-op after Commit.
	Rollback() error

	// Repository getters
	GameRepository() GameRepository
	TicketRepository() TicketRepository
	DrawnNumberRepository() DrawnNumberRepository
	WinnerRepository() WinnerRepository
	RewardRepository() RewardRepository
	ClubRepository() ClubRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TicketFactory issues tickets
type TicketFactory interface {
	// GenerateTicket creates and persists a single ticket for a player
	GenerateTicket(ctx context.Context, gameID int64, player models.PlayerIdentity) (*models.Ticket, error)

	// BuildTickets creates count tickets for one player atomically
	BuildTickets(ctx context.Context, gameID int64, player models.PlayerIdentity, count int) ([]*models.Ticket, error)
}

// DrawEngine owns the draw sequence and the start/reset lifecycle of a game
type DrawEngine interface {
	DrawNext(ctx context.Context, gameID int64) (*models.DrawResult, error)
	Start(ctx context.Context, gameID int64) (*models.GameState, error)
	Reset(ctx context.Context, gameID int64) (*models.GameState, error)
	State(ctx context.Context, gameID int64) (*models.GameState, error)
}

// WinnerService runs evaluation passes over a game's unwon tickets
type WinnerService interface {
	EvaluateWinners(ctx context.Context, gameID int64) (*models.EvaluationSummary, error)
}

// PrizeDistributor pays unpaid winner records
type PrizeDistributor interface {
	DistributePending(ctx context.Context, opts models.DistributeOptions) (*models.DistributionSummary, error)
}

// GameService covers game sessions, read models and reward settings
type GameService interface {
	CreateGame(ctx context.Context, name string, timeSlot *string) (*models.Game, error)
	GetGame(ctx context.Context, gameID int64) (*models.Game, error)
	LiveResults(ctx context.Context, gameID int64) (*models.LiveResults, error)
	PlayerDetails(ctx context.Context, serial string) (*models.PlayerDetails, error)
	PlayerRewards(ctx context.Context, serial string) ([]*models.RewardPayment, error)
	RewardConfigs(ctx context.Context) ([]*models.RewardConfig, error)
	UpdateRewardConfig(ctx context.Context, id int64, amount int64, isActive bool) (*models.RewardConfig, error)
}

// ClubService manages clubs and their prize runs
type ClubService interface {
	CreateClub(ctx context.Context, input models.ClubInput) (*models.Club, error)
	GetClub(ctx context.Context, clubID int64) (*models.ClubDetail, error)
	ListClubs(ctx context.Context, status models.ClubStatus, organizerID string) ([]*models.Club, error)
	AddPlayers(ctx context.Context, clubID int64, serials []string) (*models.AddPlayersResult, error)
	DistributePrizes(ctx context.Context, clubID int64, force bool) (*models.ClubDistribution, error)
}
