package repository

import (
	"context"
	"fmt"
)

// DrawnNumberRepository implements access to the draw sequence of a game
type DrawnNumberRepository struct {
	q queryable
}

func newDrawnNumberRepository(q queryable) *DrawnNumberRepository {
	return &DrawnNumberRepository{q: q}
}

// ListByGame returns the drawn numbers of a game in draw order
func (r *DrawnNumberRepository) ListByGame(ctx context.Context, gameID int64) ([]int, error) {
	rows, err := r.q.Query(ctx, `SELECT number FROM drawn_numbers WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawn numbers for game %d: %w", gameID, err)
	}
	defer rows.Close()

	numbers := make([]int, 0, 90)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan drawn number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// Append records a drawn number at position seq
func (r *DrawnNumberRepository) Append(ctx context.Context, gameID int64, number int, seq int) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO drawn_numbers (game_id, number, seq) VALUES ($1, $2, $3)`,
		gameID, number, seq,
	)
	if err != nil {
		return fmt.Errorf("failed to append number %d to game %d: %w", number, gameID, err)
	}
	return nil
}

// DeleteByGame removes the whole draw sequence of a game
func (r *DrawnNumberRepository) DeleteByGame(ctx context.Context, gameID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM drawn_numbers WHERE game_id = $1`, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear drawn numbers for game %d: %w", gameID, err)
	}
	return tag.RowsAffected(), nil
}
