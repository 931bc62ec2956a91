package service

import (
	"context"
	"sort"

	"tambola/events"
	"tambola/models"

	log "github.com/sirupsen/logrus"
)

type prizeDistributor struct {
	uowFactory UnitOfWorkFactory
}

// NewPrizeDistributor creates a new prize distributor
func NewPrizeDistributor(uowFactory UnitOfWorkFactory) PrizeDistributor {
	return &prizeDistributor{
		uowFactory: uowFactory,
	}
}

func (d *prizeDistributor) DistributePending(ctx context.Context, opts models.DistributeOptions) (*models.DistributionSummary, error) {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, opts.GameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", opts.GameID)
	}

	summary, err := distributeInTx(ctx, uow, opts)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit prize distribution")
	}

	return summary, nil
}

// distributeInTx pays every unpaid winner in scope using the caller's unit of
// work. Nothing is written unless the caller commits.
func distributeInTx(ctx context.Context, uow UnitOfWork, opts models.DistributeOptions) (*models.DistributionSummary, error) {
	winnerRepo := uow.WinnerRepository()
	rewardRepo := uow.RewardRepository()

	summary := &models.DistributionSummary{
		GameID:   opts.GameID,
		Payments: []*models.RewardPayment{},
	}

	if opts.Force {
		reset, err := winnerRepo.ResetPaid(ctx, opts.GameID, opts.ClubID)
		if err != nil {
			return nil, PersistenceError(err, "failed to reset paid flags")
		}
		summary.ResetCount = reset
		log.WithFields(log.Fields{
			"gameId": opts.GameID,
			"clubId": opts.ClubID,
			"reset":  reset,
		}).Warn("Forced redistribution reset paid flags")
	}

	records, err := winnerRepo.ListUnpaidForUpdate(ctx, opts.GameID, opts.ClubID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load unpaid winners")
	}

	configs, err := rewardRepo.ListActiveConfigs(ctx)
	if err != nil {
		return nil, PersistenceError(err, "failed to load reward configuration")
	}
	table := make(map[models.PatternKind]*models.RewardConfig, len(configs))
	for _, cfg := range configs {
		table[cfg.Kind] = cfg
	}

	fullHouses := 0
	for _, record := range records {
		if record.TicketSerial == "" {
			log.WithFields(log.Fields{
				"winnerId": record.ID,
				"ticketId": record.TicketID,
			}).Warn("Skipping winner without ticket serial")
			summary.Skipped++
			continue
		}

		pattern, cfg, ok := resolveReward(record.Patterns, table, fullHouses)
		if !ok {
			summary.Unrewarded++
			continue
		}
		if pattern.Kind == models.PatternFullHouse {
			fullHouses++
		}

		winnerID := record.ID
		payment := &models.RewardPayment{
			WinnerID:     &winnerID,
			TicketID:     record.TicketID,
			GameID:       record.GameID,
			ClubID:       opts.ClubID,
			TicketSerial: record.TicketSerial,
			PlayerName:   record.PlayerName,
			Pattern:      pattern.String(),
			RewardKind:   cfg.Kind,
			Amount:       cfg.Amount,
			Status:       models.RewardPaymentProcessed,
		}
		if err := rewardRepo.CreatePayment(ctx, payment); err != nil {
			return nil, PersistenceError(err, "failed to record payment")
		}
		if err := winnerRepo.MarkPaid(ctx, record.ID); err != nil {
			return nil, PersistenceError(err, "failed to mark winner paid")
		}

		summary.Payments = append(summary.Payments, payment)
		summary.TotalAmount += payment.Amount
		summary.Processed++
	}

	if summary.Processed > 0 {
		uow.EventBus().Publish(events.RewardsDistributedEvent{
			GameID:      opts.GameID,
			ClubID:      opts.ClubID,
			Count:       summary.Processed,
			TotalAmount: summary.TotalAmount,
		})
	}

	log.WithFields(log.Fields{
		"gameId":      opts.GameID,
		"clubId":      opts.ClubID,
		"processed":   summary.Processed,
		"skipped":     summary.Skipped,
		"unrewarded":  summary.Unrewarded,
		"totalAmount": summary.TotalAmount,
	}).Info("Prize distribution completed")

	return summary, nil
}

// resolveReward picks the first pattern of a record, in priority order, that
// has an active reward. A Full House after the first one in the run pays the
// second full house amount when that reward is configured.
func resolveReward(patterns []models.Pattern, table map[models.PatternKind]*models.RewardConfig, fullHousesPaid int) (models.Pattern, *models.RewardConfig, bool) {
	ordered := make([]models.Pattern, len(patterns))
	copy(ordered, patterns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind.Priority() < ordered[j].Kind.Priority()
	})

	for _, pattern := range ordered {
		if pattern.Kind.Priority() == 0 {
			continue
		}
		if pattern.Kind == models.PatternFullHouse && fullHousesPaid > 0 {
			if second, ok := table[models.PatternSecondFullHouse]; ok {
				return pattern, second, true
			}
		}
		if cfg, ok := table[pattern.Kind]; ok {
			return pattern, cfg, true
		}
	}
	return models.Pattern{}, nil, false
}
