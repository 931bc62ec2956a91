package service

import (
	"context"
	"fmt"

	"tambola/models"
)

// WinnerRegistry records the first pattern achievement of each ticket.
// The store's unique ticket constraint makes recording atomic, so concurrent
// evaluation passes cannot record the same ticket twice.
type WinnerRegistry struct {
	repo WinnerRepository
}

// NewWinnerRegistry creates a registry over a transaction-scoped repository
func NewWinnerRegistry(repo WinnerRepository) *WinnerRegistry {
	return &WinnerRegistry{repo: repo}
}

// RecordIfNew stores a winner record unless the ticket already has one.
// It returns the stored record and true when a new record was created.
func (r *WinnerRegistry) RecordIfNew(ctx context.Context, gameID, ticketID int64, patterns []models.Pattern) (*models.WinnerRecord, bool, error) {
	if len(patterns) == 0 {
		return nil, false, fmt.Errorf("ticket %d has no patterns to record", ticketID)
	}

	record := &models.WinnerRecord{
		GameID:   gameID,
		TicketID: ticketID,
		Patterns: patterns,
	}
	created, err := r.repo.CreateIfAbsent(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record winner for ticket %d: %w", ticketID, err)
	}
	if !created {
		return nil, false, nil
	}
	return record, true, nil
}
