package service

import (
	"context"
	"runtime"

	"tambola/events"
	"tambola/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type winnerService struct {
	uowFactory UnitOfWorkFactory
	workers    int
}

// NewWinnerService creates a new winner evaluation service
func NewWinnerService(uowFactory UnitOfWorkFactory) WinnerService {
	return &winnerService{
		uowFactory: uowFactory,
		workers:    runtime.GOMAXPROCS(0),
	}
}

type ticketOutcome struct {
	eval    *Evaluation
	invalid error
}

func (s *winnerService) EvaluateWinners(ctx context.Context, gameID int64) (*models.EvaluationSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	// Serializes the pass with draws and resets of the same game
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

	// Tickets with a winner record are never evaluated again
	tickets, err := uow.TicketRepository().ListUnwon(ctx, gameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load candidate tickets")
	}

	summary := &models.EvaluationSummary{
		GameID:     gameID,
		TotalDrawn: len(drawn),
		Checked:    len(tickets),
		Winners:    []*models.Winner{},
		Advisories: []*models.Advisory{},
		Failed:     []*models.EvaluationFailure{},
	}

	outcomes, err := s.evaluate(ctx, tickets, NewDrawnSet(drawn), len(drawn))
	if err != nil {
		return nil, err
	}

	registry := NewWinnerRegistry(uow.WinnerRepository())
	for i, ticket := range tickets {
		outcome := outcomes[i]
		if outcome.invalid != nil {
			log.WithFields(log.Fields{
				"gameId":   gameID,
				"ticketId": ticket.ID,
				"error":    outcome.invalid,
			}).Warn("Skipping invalid ticket")
			summary.Failed = append(summary.Failed, &models.EvaluationFailure{
				TicketID:     ticket.ID,
				TicketSerial: ticket.Serial,
				Reason:       outcome.invalid.Error(),
			})
			continue
		}

		for _, advisory := range outcome.eval.Advisory {
			summary.Advisories = append(summary.Advisories, &models.Advisory{
				TicketID:     ticket.ID,
				TicketSerial: ticket.Serial,
				Pattern:      advisory,
			})
		}

		if !outcome.eval.IsWinner() {
			continue
		}

		record, created, err := registry.RecordIfNew(ctx, gameID, ticket.ID, outcome.eval.Patterns)
		if err != nil {
			return nil, PersistenceError(err, "failed to record winner")
		}
		if !created {
			continue
		}

		summary.Winners = append(summary.Winners, &models.Winner{
			WinnerID:     record.ID,
			TicketID:     ticket.ID,
			TicketSerial: ticket.Serial,
			PlayerName:   ticket.PlayerName,
			Patterns:     record.Patterns,
		})
	}

	if len(summary.Winners) > 0 {
		uow.EventBus().Publish(events.WinnersAnnouncedEvent{
			GameID:  gameID,
			Winners: summary.Winners,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit winners")
	}

	log.WithFields(log.Fields{
		"gameId":     gameID,
		"totalDrawn": summary.TotalDrawn,
		"checked":    summary.Checked,
		"winners":    len(summary.Winners),
		"failed":     len(summary.Failed),
	}).Info("Winner evaluation completed")

	return summary, nil
}

// evaluate matches tickets in parallel; outcomes are index-aligned with tickets
func (s *winnerService) evaluate(ctx context.Context, tickets []*models.Ticket, drawn DrawnSet, totalDrawn int) ([]ticketOutcome, error) {
	outcomes := make([]ticketOutcome, len(tickets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, ticket := range tickets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if ticket.GridErr != nil {
				outcomes[i].invalid = ticket.GridErr
				return nil
			}
			if err := ticket.Grid.Validate(); err != nil {
				outcomes[i].invalid = err
				return nil
			}
			outcomes[i].eval = MatchPatterns(ticket.Grid, drawn, totalDrawn)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
