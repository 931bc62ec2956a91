package repository

import (
	"context"
	"errors"
	"fmt"

	"tambola/models"

	"github.com/jackc/pgx/v5"
)

// RewardRepository implements reward configuration and payment data access
type RewardRepository struct {
	q queryable
}

func newRewardRepository(q queryable) *RewardRepository {
	return &RewardRepository{q: q}
}

const rewardConfigColumns = `id, pattern_kind, display_name, amount, is_active, updated_at`

const rewardPaymentColumns = `id, winner_id, ticket_id, game_id, club_id, ticket_serial, player_name,
	pattern, reward_kind, amount, status, paid_at`

func scanRewardConfig(row pgx.Row) (*models.RewardConfig, error) {
	var cfg models.RewardConfig
	err := row.Scan(
		&cfg.ID,
		&cfg.Kind,
		&cfg.DisplayName,
		&cfg.Amount,
		&cfg.IsActive,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *RewardRepository) listConfigs(ctx context.Context, query string) ([]*models.RewardConfig, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reward configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.RewardConfig
	for rows.Next() {
		cfg, err := scanRewardConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward config: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// ListConfigs returns every reward configuration
func (r *RewardRepository) ListConfigs(ctx context.Context) ([]*models.RewardConfig, error) {
	return r.listConfigs(ctx, `SELECT `+rewardConfigColumns+` FROM reward_configs ORDER BY id`)
}

// ListActiveConfigs returns the configurations that currently pay out
func (r *RewardRepository) ListActiveConfigs(ctx context.Context) ([]*models.RewardConfig, error) {
	return r.listConfigs(ctx, `SELECT `+rewardConfigColumns+` FROM reward_configs WHERE is_active = TRUE ORDER BY id`)
}

// GetConfigByID returns a configuration or nil
func (r *RewardRepository) GetConfigByID(ctx context.Context, id int64) (*models.RewardConfig, error) {
	query := `SELECT ` + rewardConfigColumns + ` FROM reward_configs WHERE id = $1`

	cfg, err := scanRewardConfig(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward config %d: %w", id, err)
	}
	return cfg, nil
}

// UpdateConfig stores the amount and active flag of a configuration
func (r *RewardRepository) UpdateConfig(ctx context.Context, cfg *models.RewardConfig) error {
	query := `
		UPDATE reward_configs
		SET amount = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, cfg.ID, cfg.Amount, cfg.IsActive).Scan(&cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("reward config %d not found", cfg.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update reward config %d: %w", cfg.ID, err)
	}
	return nil
}

// CreatePayment appends a payment row
func (r *RewardRepository) CreatePayment(ctx context.Context, payment *models.RewardPayment) error {
	if payment.Status == "" {
		payment.Status = models.RewardPaymentProcessed
	}

	query := `
		INSERT INTO reward_payments (
			winner_id, ticket_id, game_id, club_id, ticket_serial, player_name,
			pattern, reward_kind, amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, paid_at
	`

	err := r.q.QueryRow(ctx, query,
		payment.WinnerID,
		payment.TicketID,
		payment.GameID,
		payment.ClubID,
		payment.TicketSerial,
		payment.PlayerName,
		payment.Pattern,
		payment.RewardKind,
		payment.Amount,
		payment.Status,
	).Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to create payment for ticket %s: %w", payment.TicketSerial, err)
	}
	return nil
}

// ListPaymentsBySerial returns payments of a ticket, newest first
func (r *RewardRepository) ListPaymentsBySerial(ctx context.Context, serial string) ([]*models.RewardPayment, error) {
	query := `
		SELECT ` + rewardPaymentColumns + `
		FROM reward_payments
		WHERE ticket_serial = $1
		ORDER BY paid_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, serial)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for %s: %w", serial, err)
	}
	defer rows.Close()

	var payments []*models.RewardPayment
	for rows.Next() {
		var p models.RewardPayment
		err := rows.Scan(
			&p.ID,
			&p.WinnerID,
			&p.TicketID,
			&p.GameID,
			&p.ClubID,
			&p.TicketSerial,
			&p.PlayerName,
			&p.Pattern,
			&p.RewardKind,
			&p.Amount,
			&p.Status,
			&p.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
