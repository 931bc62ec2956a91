package repository

import (
	"context"
	"errors"
	"fmt"

	"tambola/database"
	"tambola/events"
	"tambola/service"

	"github.com/jackc/pgx/v5"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	gameRepo         service.GameRepository
	ticketRepo       service.TicketRepository
	drawnNumberRepo  service.DrawnNumberRepository
	winnerRepo       service.WinnerRepository
	rewardRepo       service.RewardRepository
	clubRepo         service.ClubRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.gameRepo = newGameRepository(tx)
	u.ticketRepo = newTicketRepository(tx)
	u.drawnNumberRepo = newDrawnNumberRepository(tx)
	u.winnerRepo = newWinnerRepository(tx)
	u.rewardRepo = newRewardRepository(tx)
	u.clubRepo = newClubRepository(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events only leave the process once the data is durable
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	if u.gameRepo == nil {
		panic(notStarted)
	}
	return u.gameRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() service.TicketRepository {
	if u.ticketRepo == nil {
		panic(notStarted)
	}
	return u.ticketRepo
}

// DrawnNumberRepository returns the drawn number repository for this unit of work
func (u *unitOfWork) DrawnNumberRepository() service.DrawnNumberRepository {
	if u.drawnNumberRepo == nil {
		panic(notStarted)
	}
	return u.drawnNumberRepo
}

// WinnerRepository returns the winner repository for this unit of work
func (u *unitOfWork) WinnerRepository() service.WinnerRepository {
	if u.winnerRepo == nil {
		panic(notStarted)
	}
	return u.winnerRepo
}

// RewardRepository returns the reward repository for this unit of work
func (u *unitOfWork) RewardRepository() service.RewardRepository {
	if u.rewardRepo == nil {
		panic(notStarted)
	}
	return u.rewardRepo
}

// ClubRepository returns the club repository for this unit of work
func (u *unitOfWork) ClubRepository() service.ClubRepository {
	if u.clubRepo == nil {
		panic(notStarted)
	}
	return u.clubRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic(notStarted)
	}
	return u.transactionalBus
}
