package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"tambola/events"
	"tambola/models"

	log "github.com/sirupsen/logrus"
)

// gameLocks hands out one mutex per game so draws, starts and resets of the
// same game never interleave inside this process.
type gameLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *gameLocks) lock(gameID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[gameID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[gameID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type drawEngine struct {
	uowFactory UnitOfWorkFactory
	locks      *gameLocks

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDrawEngine creates a new draw engine
func NewDrawEngine(uowFactory UnitOfWorkFactory) DrawEngine {
	return &drawEngine{
		uowFactory: uowFactory,
		locks:      newGameLocks(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pickNumber returns a uniformly random undrawn number. Rejection sampling is
// used while at least half the pool remains; after that the remaining numbers
// are listed and sampled directly. drawn must hold fewer than 90 numbers.
func pickNumber(rng *rand.Rand, drawn DrawnSet) int {
	remaining := models.MaxNumber - len(drawn)

	if remaining*2 >= models.MaxNumber {
		for {
			n := models.MinNumber + rng.Intn(models.MaxNumber)
			if !drawn.Has(n) {
				return n
			}
		}
	}

	pool := make([]int, 0, remaining)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		if !drawn.Has(n) {
			pool = append(pool, n)
		}
	}
	return pool[rng.Intn(len(pool))]
}

func (e *drawEngine) pick(drawn DrawnSet) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pickNumber(e.rng, drawn)
}

func (e *drawEngine) DrawNext(ctx context.Context, gameID int64) (*models.DrawResult, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to lock game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", gameID)
	}
	if !game.IsActive {
		return nil, StateError("game is not active")
	}

	drawnRepo := uow.DrawnNumberRepository()
	drawn, err := drawnRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load drawn numbers")
	}
	if len(drawn) >= models.MaxNumber {
		return nil, StateError("all numbers have been drawn")
	}

	number := e.pick(NewDrawnSet(drawn))
	totalDrawn := len(drawn) + 1

	if err := drawnRepo.Append(ctx, gameID, number, totalDrawn); err != nil {
		return nil, PersistenceError(err, "failed to record drawn number")
	}
	if err := uow.GameRepository().UpdateState(ctx, gameID, true, &number); err != nil {
		return nil, PersistenceError(err, "failed to update game state")
	}

	uow.EventBus().Publish(events.NumberDrawnEvent{
		GameID:     gameID,
		Number:     number,
		TotalDrawn: totalDrawn,
	})

	// The commit flushes the event while the game lock is still held
	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit draw")
	}

	log.WithFields(log.Fields{
		"gameId":     gameID,
		"number":     number,
		"totalDrawn": totalDrawn,
	}).Info("Number drawn")

	return &models.DrawResult{GameID: gameID, Number: number, TotalDrawn: totalDrawn}, nil
}

func (e *drawEngine) Start(ctx context.Context, gameID int64) (*models.GameState, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to lock game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", gameID)
	}

	drawn, err := uow.DrawnNumberRepository().ListByGame(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load drawn numbers")
	}

	if !game.IsActive {
		if err := uow.GameRepository().UpdateState(ctx, gameID, true, game.LastNumber); err != nil {
			return nil, PersistenceError(err, "failed to start game")
		}
		uow.EventBus().Publish(events.GameStartedEvent{GameID: gameID})
		log.WithField("gameId", gameID).Info("Game started")
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit game start")
	}

	return newGameState(gameID, true, game.LastNumber, drawn), nil
}

func (e *drawEngine) Reset(ctx context.Context, gameID int64) (*models.GameState, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to lock game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", gameID)
	}

	clearedNumbers, err := uow.DrawnNumberRepository().DeleteByGame(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to clear drawn numbers")
	}
	clearedWinners, err := uow.WinnerRepository().DeleteByGame(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to clear winners")
	}
	if err := uow.GameRepository().UpdateState(ctx, gameID, false, nil); err != nil {
		return nil, PersistenceError(err, "failed to reset game state")
	}

	uow.EventBus().Publish(events.GameResetEvent{GameID: gameID})

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit game reset")
	}

	log.WithFields(log.Fields{
		"gameId":         gameID,
		"wasActive":      game.IsActive,
		"clearedNumbers": clearedNumbers,
		"clearedWinners": clearedWinners,
	}).Info("Game reset")

	return newGameState(gameID, false, nil, nil), nil
}

func (e *drawEngine) State(ctx context.Context, gameID int64) (*models.GameState, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	return loadGameState(ctx, uow, gameID)
}

func loadGameState(ctx context.Context, uow UnitOfWork, gameID int64) (*models.GameState, error) {
	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", gameID)
	}

	drawn, err := uow.DrawnNumberRepository().ListByGame(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load drawn numbers")
	}

	return newGameState(gameID, game.IsActive, game.LastNumber, drawn), nil
}

func newGameState(gameID int64, active bool, lastNumber *int, drawn []int) *models.GameState {
	if drawn == nil {
		drawn = []int{}
	}
	return &models.GameState{
		GameID:       gameID,
		IsActive:     active,
		LastNumber:   lastNumber,
		DrawnNumbers: drawn,
		TotalDrawn:   len(drawn),
	}
}
