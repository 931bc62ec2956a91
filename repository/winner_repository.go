package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tambola/models"

	"github.com/jackc/pgx/v5"
)

// WinnerRepository implements winner record data access
type WinnerRepository struct {
	q queryable
}

func newWinnerRepository(q queryable) *WinnerRepository {
	return &WinnerRepository{q: q}
}

// Serial and player name are read from the ticket so the record stays in sync with it
const winnerColumns = `w.id, w.game_id, w.ticket_id, w.patterns, w.reward_paid, w.created_at,
	COALESCE(t.serial, ''), COALESCE(t.player_name, '')`

func scanWinner(row pgx.Row) (*models.WinnerRecord, error) {
	var record models.WinnerRecord
	var patternsJSON []byte
	err := row.Scan(
		&record.ID,
		&record.GameID,
		&record.TicketID,
		&patternsJSON,
		&record.RewardPaid,
		&record.CreatedAt,
		&record.TicketSerial,
		&record.PlayerName,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(patternsJSON, &record.Patterns); err != nil {
		return nil, fmt.Errorf("failed to decode patterns of winner %d: %w", record.ID, err)
	}
	return &record, nil
}

func collectWinners(rows pgx.Rows) ([]*models.WinnerRecord, error) {
	defer rows.Close()

	var records []*models.WinnerRecord
	for rows.Next() {
		record, err := scanWinner(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CreateIfAbsent inserts a record unless the ticket already has one
func (r *WinnerRepository) CreateIfAbsent(ctx context.Context, record *models.WinnerRecord) (bool, error) {
	patternsJSON, err := json.Marshal(record.Patterns)
	if err != nil {
		return false, fmt.Errorf("failed to encode patterns: %w", err)
	}

	query := `
		INSERT INTO ticket_winners (game_id, ticket_id, patterns)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticket_id) DO NOTHING
		RETURNING id, reward_paid, created_at
	`

	err = r.q.QueryRow(ctx, query, record.GameID, record.TicketID, patternsJSON).
		Scan(&record.ID, &record.RewardPaid, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create winner for ticket %d: %w", record.TicketID, err)
	}
	return true, nil
}

// GetByTicketID returns the record of a ticket or nil
func (r *WinnerRepository) GetByTicketID(ctx context.Context, ticketID int64) (*models.WinnerRecord, error) {
	query := `
		SELECT ` + winnerColumns + `
		FROM ticket_winners w
		LEFT JOIN tickets t ON t.id = w.ticket_id
		WHERE w.ticket_id = $1
	`

	record, err := scanWinner(r.q.QueryRow(ctx, query, ticketID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner for ticket %d: %w", ticketID, err)
	}
	return record, nil
}

// ListUnpaidForUpdate locks the unpaid records in scope, oldest first
func (r *WinnerRepository) ListUnpaidForUpdate(ctx context.Context, gameID int64, clubID *int64) ([]*models.WinnerRecord, error) {
	query := `
		SELECT ` + winnerColumns + `
		FROM ticket_winners w
		LEFT JOIN tickets t ON t.id = w.ticket_id
		WHERE w.game_id = $1
		  AND w.reward_paid = FALSE
		  AND ($2::BIGINT IS NULL OR EXISTS (
		      SELECT 1 FROM club_tickets ct WHERE ct.ticket_id = w.ticket_id AND ct.club_id = $2
		  ))
		ORDER BY w.created_at, w.id
		FOR UPDATE OF w
	`

	rows, err := r.q.Query(ctx, query, gameID, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid winners for game %d: %w", gameID, err)
	}

	records, err := collectWinners(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read unpaid winners: %w", err)
	}
	return records, nil
}

// MarkPaid flags a record as paid
func (r *WinnerRepository) MarkPaid(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE ticket_winners SET reward_paid = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark winner %d paid: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("winner %d not found", id)
	}
	return nil
}

// ResetPaid clears the paid flag of every record in scope
func (r *WinnerRepository) ResetPaid(ctx context.Context, gameID int64, clubID *int64) (int64, error) {
	query := `
		UPDATE ticket_winners w
		SET reward_paid = FALSE
		WHERE w.game_id = $1
		  AND w.reward_paid = TRUE
		  AND ($2::BIGINT IS NULL OR EXISTS (
		      SELECT 1 FROM club_tickets ct WHERE ct.ticket_id = w.ticket_id AND ct.club_id = $2
		  ))
	`

	tag, err := r.q.Exec(ctx, query, gameID, clubID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset paid winners for game %d: %w", gameID, err)
	}
	return tag.RowsAffected(), nil
}

// ListRecent returns the newest records of a game
func (r *WinnerRepository) ListRecent(ctx context.Context, gameID int64, limit int) ([]*models.WinnerRecord, error) {
	query := `
		SELECT ` + winnerColumns + `
		FROM ticket_winners w
		LEFT JOIN tickets t ON t.id = w.ticket_id
		WHERE w.game_id = $1
		ORDER BY w.created_at DESC, w.id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent winners for game %d: %w", gameID, err)
	}

	records, err := collectWinners(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent winners: %w", err)
	}
	return records, nil
}

// DeleteByGame removes every record of a game
func (r *WinnerRepository) DeleteByGame(ctx context.Context, gameID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM ticket_winners WHERE game_id = $1`, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete winners for game %d: %w", gameID, err)
	}
	return tag.RowsAffected(), nil
}
