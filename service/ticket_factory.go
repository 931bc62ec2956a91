package service

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"tambola/config"
	"tambola/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const numbersDrawnPerColumn = 3

type ticketFactory struct {
	uowFactory   UnitOfWorkFactory
	recentWindow int
	maxAttempts  int
	maxBuild     int

	mu  sync.Mutex
	rng *rand.Rand

	// swapped in tests
	generate  func() models.Grid
	newSerial func() string
}

// NewTicketFactory creates a new ticket factory
func NewTicketFactory(uowFactory UnitOfWorkFactory, cfg *config.Config) TicketFactory {
	f := &ticketFactory{
		uowFactory:   uowFactory,
		recentWindow: cfg.RecentTicketWindow,
		maxAttempts:  cfg.TicketMaxAttempts,
		maxBuild:     cfg.MaxBuildTickets,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		newSerial:    newTicketSerial,
	}
	f.generate = f.randomGrid
	return f
}

// GenerateGrid builds a ticket grid on the fixed template. Every column gets
// three distinct numbers from its range, sorted, and its eligible cells are
// filled top to bottom from the smallest.
func GenerateGrid(rng *rand.Rand) models.Grid {
	var grid models.Grid
	used := make(map[int]struct{}, models.GridColumns*numbersDrawnPerColumn)

	for col := 0; col < models.GridColumns; col++ {
		lo, hi := models.ColumnRange(col)

		picks := make([]int, 0, numbersDrawnPerColumn)
		for len(picks) < numbersDrawnPerColumn {
			n := lo + rng.Intn(hi-lo+1)
			if _, taken := used[n]; taken {
				continue
			}
			used[n] = struct{}{}
			picks = append(picks, n)
		}
		sort.Ints(picks)

		next := 0
		for row := 0; row < models.GridRows; row++ {
			if models.Template[row][col] {
				grid[row][col] = picks[next]
				next++
			}
		}
	}

	return grid
}

func (f *ticketFactory) randomGrid() models.Grid {
	f.mu.Lock()
	defer f.mu.Unlock()
	return GenerateGrid(f.rng)
}

func newTicketSerial() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "T" + strings.ToUpper(id[:9])
}

func validatePlayer(player models.PlayerIdentity) (models.PlayerIdentity, error) {
	player.Name = strings.TrimSpace(player.Name)
	player.Email = strings.TrimSpace(player.Email)

	if player.Name == "" {
		return player, ValidationError("player name is required")
	}
	if player.Email == "" {
		return player, ValidationError("player email is required")
	}
	if player.UserID != nil && strings.TrimSpace(*player.UserID) == "" {
		player.UserID = nil
	}
	return player, nil
}

func (f *ticketFactory) GenerateTicket(ctx context.Context, gameID int64, player models.PlayerIdentity) (*models.Ticket, error) {
	tickets, err := f.issue(ctx, gameID, player, 1)
	if err != nil {
		return nil, err
	}
	return tickets[0], nil
}

func (f *ticketFactory) BuildTickets(ctx context.Context, gameID int64, player models.PlayerIdentity, count int) ([]*models.Ticket, error) {
	if count < 1 || count > f.maxBuild {
		return nil, ValidationError("ticket count must be between 1 and %d", f.maxBuild)
	}
	return f.issue(ctx, gameID, player, count)
}

// issue generates and persists count tickets in a single transaction
func (f *ticketFactory) issue(ctx context.Context, gameID int64, player models.PlayerIdentity, count int) ([]*models.Ticket, error) {
	player, err := validatePlayer(player)
	if err != nil {
		return nil, err
	}

	uow := f.uowFactory.Create()
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

	ticketRepo := uow.TicketRepository()
	recentGrids, err := ticketRepo.ListRecentGrids(ctx, gameID, f.recentWindow)
	if err != nil {
		return nil, PersistenceError(err, "failed to load recent tickets")
	}
	recent := make(map[models.Grid]struct{}, len(recentGrids)+count)
	for _, g := range recentGrids {
		recent[g] = struct{}{}
	}

	tickets := make([]*models.Ticket, 0, count)
	for i := 0; i < count; i++ {
		grid, err := f.uniqueGrid(recent)
		if err != nil {
			log.WithFields(log.Fields{
				"gameId":      gameID,
				"maxAttempts": f.maxAttempts,
				"recentCount": len(recent),
			}).Error("Ticket generation exhausted retries")
			return nil, err
		}
		recent[grid] = struct{}{}

		serial, err := f.uniqueSerial(ctx, ticketRepo)
		if err != nil {
			return nil, err
		}

		ticket := &models.Ticket{
			GameID:      gameID,
			Serial:      serial,
			PlayerName:  player.Name,
			PlayerEmail: player.Email,
			UserID:      player.UserID,
			Grid:        grid,
		}
		if err := ticketRepo.Create(ctx, ticket); err != nil {
			return nil, PersistenceError(err, "failed to save ticket")
		}
		tickets = append(tickets, ticket)
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit tickets")
	}

	log.WithFields(log.Fields{
		"gameId": gameID,
		"player": player.Name,
		"count":  len(tickets),
	}).Info("Issued tickets")

	return tickets, nil
}

// uniqueGrid regenerates until the grid is absent from recent, giving up
// after maxAttempts candidates.
func (f *ticketFactory) uniqueGrid(recent map[models.Grid]struct{}) (models.Grid, error) {
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		grid := f.generate()
		if err := grid.Validate(); err != nil {
			return models.Grid{}, GenerationError("generated an invalid ticket: %v", err)
		}
		if _, dup := recent[grid]; !dup {
			return grid, nil
		}
		log.WithField("attempt", attempt).Warn("Generated ticket duplicates a recent ticket, regenerating")
	}
	return models.Grid{}, GenerationError("could not generate a unique ticket after %d attempts", f.maxAttempts)
}

func (f *ticketFactory) uniqueSerial(ctx context.Context, repo TicketRepository) (string, error) {
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		serial := f.newSerial()
		exists, err := repo.SerialExists(ctx, serial)
		if err != nil {
			return "", PersistenceError(err, "failed to check ticket serial")
		}
		if !exists {
			return serial, nil
		}
	}
	return "", GenerationError("could not assign a unique ticket serial after %d attempts", f.maxAttempts)
}

