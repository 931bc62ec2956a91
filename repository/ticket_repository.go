package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tambola/models"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements ticket data access
type TicketRepository struct {
	q queryable
}

func newTicketRepository(q queryable) *TicketRepository {
	return &TicketRepository{q: q}
}

const ticketColumns = `t.id, t.game_id, t.serial, t.player_name, t.player_email, t.user_id, t.grid, t.created_at`

// scanTicketRaw reads a ticket row leaving the grid undecoded
func scanTicketRaw(row pgx.Row) (*models.Ticket, []byte, error) {
	var ticket models.Ticket
	var gridJSON []byte
	err := row.Scan(
		&ticket.ID,
		&ticket.GameID,
		&ticket.Serial,
		&ticket.PlayerName,
		&ticket.PlayerEmail,
		&ticket.UserID,
		&gridJSON,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, nil, err
	}
	return &ticket, gridJSON, nil
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	ticket, gridJSON, err := scanTicketRaw(row)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(gridJSON, &ticket.Grid); err != nil {
		return nil, fmt.Errorf("failed to decode grid of ticket %d: %w", ticket.ID, err)
	}
	return ticket, nil
}

// collectTickets reads every row. A grid that fails to decode is reported
// on its ticket through GridErr so one corrupt row cannot hide the others.
func collectTickets(rows pgx.Rows) ([]*models.Ticket, error) {
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, gridJSON, err := scanTicketRaw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		if err := json.Unmarshal(gridJSON, &ticket.Grid); err != nil {
			ticket.Grid = models.Grid{}
			ticket.GridErr = fmt.Errorf("failed to decode grid: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// Create inserts a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	gridJSON, err := json.Marshal(ticket.Grid)
	if err != nil {
		return fmt.Errorf("failed to encode grid: %w", err)
	}

	query := `
		INSERT INTO tickets (game_id, serial, player_name, player_email, user_id, grid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		ticket.GameID,
		ticket.Serial,
		ticket.PlayerName,
		ticket.PlayerEmail,
		ticket.UserID,
		gridJSON,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket, returning nil when it does not exist
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return ticket, nil
}

// GetBySerial retrieves a ticket by its public serial
func (r *TicketRepository) GetBySerial(ctx context.Context, serial string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.serial = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, serial))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %s: %w", serial, err)
	}
	return ticket, nil
}

// SerialExists reports whether a ticket already uses serial
func (r *TicketRepository) SerialExists(ctx context.Context, serial string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE serial = $1)`, serial).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check serial %s: %w", serial, err)
	}
	return exists, nil
}

// ListRecentGrids returns the grids of the newest tickets of a game
func (r *TicketRepository) ListRecentGrids(ctx context.Context, gameID int64, limit int) ([]models.Grid, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT grid
		FROM tickets
		WHERE game_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tickets for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var grids []models.Grid
	for rows.Next() {
		var gridJSON []byte
		if err := rows.Scan(&gridJSON); err != nil {
			return nil, fmt.Errorf("failed to scan grid: %w", err)
		}
		var grid models.Grid
		if err := json.Unmarshal(gridJSON, &grid); err != nil {
			// Cannot collide with a generated grid
			continue
		}
		grids = append(grids, grid)
	}
	return grids, rows.Err()
}

// ListUnwon returns tickets of a game without a winner record
func (r *TicketRepository) ListUnwon(ctx context.Context, gameID int64) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		LEFT JOIN ticket_winners w ON w.ticket_id = t.id
		WHERE t.game_id = $1 AND w.id IS NULL
		ORDER BY t.id
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unwon tickets for game %d: %w", gameID, err)
	}

	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read unwon tickets: %w", err)
	}
	return tickets, nil
}
