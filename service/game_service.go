package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"tambola/models"

	log "github.com/sirupsen/logrus"
)

const (
	liveResultsWinnerLimit = 10
	gameCodeAttempts       = 10
)

type gameService struct {
	uowFactory UnitOfWorkFactory

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory) GameService {
	return &gameService{
		uowFactory: uowFactory,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *gameService) newGameCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("G%06d", s.rng.Intn(1000000))
}

func (s *gameService) CreateGame(ctx context.Context, name string, timeSlot *string) (*models.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("game name is required")
	}
	if timeSlot != nil && strings.TrimSpace(*timeSlot) == "" {
		timeSlot = nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	gameRepo := uow.GameRepository()

	var code string
	for attempt := 0; attempt < gameCodeAttempts && code == ""; attempt++ {
		candidate := s.newGameCode()
		existing, err := gameRepo.GetByCode(ctx, candidate)
		if err != nil {
			return nil, PersistenceError(err, "failed to check game code")
		}
		if existing == nil {
			code = candidate
		}
	}
	if code == "" {
		return nil, GenerationError("could not assign a unique game code")
	}

	game := &models.Game{
		Code:     code,
		Name:     name,
		TimeSlot: timeSlot,
	}
	if err := gameRepo.Create(ctx, game); err != nil {
		return nil, PersistenceError(err, "failed to create game")
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit game")
	}

	log.WithFields(log.Fields{
		"gameId": game.ID,
		"code":   game.Code,
		"name":   game.Name,
	}).Info("Game created")

	return game, nil
}

func (s *gameService) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", gameID)
	}
	return game, nil
}

func (s *gameService) LiveResults(ctx context.Context, gameID int64) (*models.LiveResults, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	state, err := loadGameState(ctx, uow, gameID)
	if err != nil {
		return nil, err
	}

	winners, err := uow.WinnerRepository().ListRecent(ctx, gameID, liveResultsWinnerLimit)
	if err != nil {
		return nil, PersistenceError(err, "failed to load recent winners")
	}
	if winners == nil {
		winners = []*models.WinnerRecord{}
	}

	return &models.LiveResults{GameState: *state, RecentWinners: winners}, nil
}

func (s *gameService) PlayerDetails(ctx context.Context, serial string) (*models.PlayerDetails, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, ValidationError("ticket serial is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetBySerial(ctx, serial)
	if err != nil {
		return nil, PersistenceError(err, "failed to load ticket")
	}
	if ticket == nil {
		return nil, NotFoundError("ticket %s not found", serial)
	}

	record, err := uow.WinnerRepository().GetByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load winner record")
	}

	drawn, err := uow.DrawnNumberRepository().ListByGame(ctx, ticket.GameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load drawn numbers")
	}
	if drawn == nil {
		drawn = []int{}
	}

	details := &models.PlayerDetails{
		Ticket:          ticket,
		WinningPatterns: []models.Pattern{},
		DrawnNumbers:    drawn,
	}
	if record != nil {
		details.WinningPatterns = record.Patterns
		wonAt := record.CreatedAt
		details.WonAt = &wonAt
	}
	return details, nil
}

func (s *gameService) PlayerRewards(ctx context.Context, serial string) ([]*models.RewardPayment, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, ValidationError("ticket serial is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	exists, err := uow.TicketRepository().SerialExists(ctx, serial)
	if err != nil {
		return nil, PersistenceError(err, "failed to load ticket")
	}
	if !exists {
		return nil, NotFoundError("ticket %s not found", serial)
	}

	payments, err := uow.RewardRepository().ListPaymentsBySerial(ctx, serial)
	if err != nil {
		return nil, PersistenceError(err, "failed to load payments")
	}
	if payments == nil {
		payments = []*models.RewardPayment{}
	}
	return payments, nil
}

func (s *gameService) RewardConfigs(ctx context.Context) ([]*models.RewardConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	configs, err := uow.RewardRepository().ListConfigs(ctx)
	if err != nil {
		return nil, PersistenceError(err, "failed to load reward configuration")
	}
	return configs, nil
}

func (s *gameService) UpdateRewardConfig(ctx context.Context, id int64, amount int64, isActive bool) (*models.RewardConfig, error) {
	if amount < 0 {
		return nil, ValidationError("reward amount must not be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	rewardRepo := uow.RewardRepository()
	cfg, err := rewardRepo.GetConfigByID(ctx, id)
	if err != nil {
		return nil, PersistenceError(err, "failed to load reward configuration")
	}
	if cfg == nil {
		return nil, NotFoundError("reward config %d not found", id)
	}

	oldAmount := cfg.Amount
	cfg.Amount = amount
	cfg.IsActive = isActive
	if err := rewardRepo.UpdateConfig(ctx, cfg); err != nil {
		return nil, PersistenceError(err, "failed to update reward configuration")
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit reward configuration")
	}

	log.WithFields(log.Fields{
		"configId":  id,
		"kind":      cfg.Kind,
		"oldAmount": oldAmount,
		"newAmount": amount,
		"isActive":  isActive,
	}).Info("Reward configuration updated")

	return cfg, nil
}
