package repository

import (
	"context"
	"errors"
	"fmt"

	"tambola/models"

	"github.com/jackc/pgx/v5"
)

// GameRepository implements game data access
type GameRepository struct {
	q queryable
}

func newGameRepository(q queryable) *GameRepository {
	return &GameRepository{q: q}
}

const gameColumns = `id, code, name, time_slot, is_active, last_number, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	var lastNumber *int16
	err := row.Scan(
		&game.ID,
		&game.Code,
		&game.Name,
		&game.TimeSlot,
		&game.IsActive,
		&lastNumber,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastNumber != nil {
		n := int(*lastNumber)
		game.LastNumber = &n
	}
	return &game, nil
}

// Create inserts a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (code, name, time_slot)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, game.Code, game.Name, game.TimeSlot).
		Scan(&game.ID, &game.IsActive, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetByID retrieves a game, returning nil when it does not exist
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return game, nil
}

// GetByIDForUpdate retrieves a game and locks its row until the transaction ends
func (r *GameRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock game %d: %w", id, err)
	}
	return game, nil
}

// GetByCode retrieves a game by its public code
func (r *GameRepository) GetByCode(ctx context.Context, code string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE code = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by code %s: %w", code, err)
	}
	return game, nil
}

// UpdateState sets the active flag and last drawn number
func (r *GameRepository) UpdateState(ctx context.Context, id int64, isActive bool, lastNumber *int) error {
	query := `
		UPDATE games
		SET is_active = $2, last_number = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, isActive, lastNumber)
	if err != nil {
		return fmt.Errorf("failed to update game %d state: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %d not found", id)
	}
	return nil
}
