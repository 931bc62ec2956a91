package repository

import (
	"context"
	"errors"
	"fmt"

	"tambola/models"

	"github.com/jackc/pgx/v5"
)

// ClubRepository implements club data access
type ClubRepository struct {
	q queryable
}

func newClubRepository(q queryable) *ClubRepository {
	return &ClubRepository{q: q}
}

const clubColumns = `id, game_id, party_name, organizer_id, ticket_price, total_tickets, tickets_sold,
	total_prize, prize_distributed, total_distributed, created_at, updated_at`

func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
	err := row.Scan(
		&club.ID,
		&club.GameID,
		&club.PartyName,
		&club.OrganizerID,
		&club.TicketPrice,
		&club.TotalTickets,
		&club.TicketsSold,
		&club.TotalPrize,
		&club.PrizeDistributed,
		&club.TotalDistributed,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// Create inserts a new club
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `
		INSERT INTO clubs (game_id, party_name, organizer_id, ticket_price, total_tickets, total_prize)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tickets_sold, prize_distributed, total_distributed, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		club.GameID,
		club.PartyName,
		club.OrganizerID,
		club.TicketPrice,
		club.TotalTickets,
		club.TotalPrize,
	).Scan(
		&club.ID,
		&club.TicketsSold,
		&club.PrizeDistributed,
		&club.TotalDistributed,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// GetByID retrieves a club or nil
func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	club, err := scanClub(r.q.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club %d: %w", id, err)
	}
	return club, nil
}

// GetByIDForUpdate retrieves a club and locks its row
func (r *ClubRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Club, error) {
	club, err := scanClub(r.q.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock club %d: %w", id, err)
	}
	return club, nil
}

// List returns clubs filtered by status and, when set, organizer
func (r *ClubRepository) List(ctx context.Context, status models.ClubStatus, organizerID string) ([]*models.Club, error) {
	query := `
		SELECT ` + clubColumns + `
		FROM clubs
		WHERE ($1 = 'all'
		       OR ($1 = 'active' AND prize_distributed = FALSE)
		       OR ($1 = 'completed' AND prize_distributed = TRUE))
		  AND ($2 = '' OR organizer_id = $2)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, string(status), organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan club: %w", err)
		}
		clubs = append(clubs, club)
	}
	return clubs, rows.Err()
}

// AddTicket links a ticket to a club unless it already belongs to one
func (r *ClubRepository) AddTicket(ctx context.Context, clubTicket *models.ClubTicket) (bool, error) {
	query := `
		INSERT INTO club_tickets (club_id, ticket_id, player_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticket_id) DO NOTHING
		RETURNING purchased_at
	`

	err := r.q.QueryRow(ctx, query, clubTicket.ClubID, clubTicket.TicketID, clubTicket.PlayerName).
		Scan(&clubTicket.PurchasedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to add ticket %d to club %d: %w", clubTicket.TicketID, clubTicket.ClubID, err)
	}
	return true, nil
}

// ListTickets returns the tickets of a club in purchase order
func (r *ClubRepository) ListTickets(ctx context.Context, clubID int64) ([]*models.ClubTicket, error) {
	query := `
		SELECT ct.club_id, ct.ticket_id, t.serial, ct.player_name, ct.purchased_at
		FROM club_tickets ct
		JOIN tickets t ON t.id = ct.ticket_id
		WHERE ct.club_id = $1
		ORDER BY ct.purchased_at, ct.ticket_id
	`

	rows, err := r.q.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets of club %d: %w", clubID, err)
	}
	defer rows.Close()

	var tickets []*models.ClubTicket
	for rows.Next() {
		var ct models.ClubTicket
		if err := rows.Scan(&ct.ClubID, &ct.TicketID, &ct.Serial, &ct.PlayerName, &ct.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan club ticket: %w", err)
		}
		tickets = append(tickets, &ct)
	}
	return tickets, rows.Err()
}

// IncrementSold adds count to the sold tickets of a club
func (r *ClubRepository) IncrementSold(ctx context.Context, clubID int64, count int) error {
	query := `
		UPDATE clubs
		SET tickets_sold = tickets_sold + $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, clubID, count)
	if err != nil {
		return fmt.Errorf("failed to update sold tickets of club %d: %w", clubID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("club %d not found", clubID)
	}
	return nil
}

// MarkDistributed flags the club as paid out and adds amount to its distributed total
func (r *ClubRepository) MarkDistributed(ctx context.Context, clubID int64, amount int64) error {
	query := `
		UPDATE clubs
		SET prize_distributed = TRUE,
		    total_distributed = total_distributed + $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, clubID, amount)
	if err != nil {
		return fmt.Errorf("failed to mark club %d distributed: %w", clubID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("club %d not found", clubID)
	}
	return nil
}
