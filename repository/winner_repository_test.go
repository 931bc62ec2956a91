package repository

import (
	"context"
	"testing"

	"tambola/models"
	"tambola/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTickets(t *testing.T, ctx context.Context, repo *TicketRepository, gameID int64, serials ...string) []*models.Ticket {
	t.Helper()
	tickets := make([]*models.Ticket, 0, len(serials))
	for i, serial := range serials {
		ticket := testutil.CreateTestTicket(gameID, serial, testutil.SampleGrid(i%5))
		require.NoError(t, repo.Create(ctx, ticket))
		tickets = append(tickets, ticket)
	}
	return tickets
}

func TestWinnerRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := newWinnerRepository(testDB.DB)
	tickets := seedTickets(t, context.Background(), newTicketRepository(testDB.DB), testutil.DefaultGameID,
		"TWIN000001", "TWIN000002", "TWIN000003")
	ctx := context.Background()
	gameID := testutil.DefaultGameID

	t.Run("create is idempotent per ticket", func(t *testing.T) {
		record := &models.WinnerRecord{
			GameID:   gameID,
			TicketID: tickets[0].ID,
			Patterns: []models.Pattern{
				{Kind: models.PatternFullRow, Index: 1},
				{Kind: models.PatternQuickFive},
			},
		}
		created, err := repo.CreateIfAbsent(ctx, record)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, record.ID)

		again := testutil.CreateTestWinner(gameID, tickets[0].ID, models.PatternFullHouse)
		created, err = repo.CreateIfAbsent(ctx, again)
		require.NoError(t, err)
		assert.False(t, created)

		stored, err := repo.GetByTicketID(ctx, tickets[0].ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, record.ID, stored.ID)
		assert.Equal(t, record.Patterns, stored.Patterns)
		assert.Equal(t, "TWIN000001", stored.TicketSerial)
		assert.Equal(t, tickets[0].PlayerName, stored.PlayerName)
	})

	t.Run("missing record returns nil", func(t *testing.T) {
		record, err := repo.GetByTicketID(ctx, tickets[2].ID)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("unpaid records oldest first and paid flag", func(t *testing.T) {
		_, err := repo.CreateIfAbsent(ctx, testutil.CreateTestWinner(gameID, tickets[1].ID, models.PatternQuickSeven))
		require.NoError(t, err)

		err = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			txRepo := newWinnerRepository(tx)
			unpaid, err := txRepo.ListUnpaidForUpdate(ctx, gameID, nil)
			if err != nil {
				return err
			}
			require.Len(t, unpaid, 2)
			assert.Equal(t, tickets[0].ID, unpaid[0].TicketID)
			assert.Equal(t, tickets[1].ID, unpaid[1].TicketID)
			return txRepo.MarkPaid(ctx, unpaid[0].ID)
		})
		require.NoError(t, err)

		unpaid, err := repo.ListUnpaidForUpdate(ctx, gameID, nil)
		require.NoError(t, err)
		require.Len(t, unpaid, 1)
		assert.Equal(t, tickets[1].ID, unpaid[0].TicketID)

		reset, err := repo.ResetPaid(ctx, gameID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), reset)

		unpaid, err = repo.ListUnpaidForUpdate(ctx, gameID, nil)
		require.NoError(t, err)
		assert.Len(t, unpaid, 2)
	})

	t.Run("club scope limits unpaid records", func(t *testing.T) {
		clubs := newClubRepository(testDB.DB)
		club := testutil.CreateTestClub(gameID, "org-1", 5)
		require.NoError(t, clubs.Create(ctx, club))
		added, err := clubs.AddTicket(ctx, &models.ClubTicket{ClubID: club.ID, TicketID: tickets[1].ID, PlayerName: tickets[1].PlayerName})
		require.NoError(t, err)
		require.True(t, added)

		unpaid, err := repo.ListUnpaidForUpdate(ctx, gameID, &club.ID)
		require.NoError(t, err)
		require.Len(t, unpaid, 1)
		assert.Equal(t, tickets[1].ID, unpaid[0].TicketID)
	})

	t.Run("recent winners newest first", func(t *testing.T) {
		recent, err := repo.ListRecent(ctx, gameID, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, tickets[1].ID, recent[0].TicketID)
	})

	t.Run("delete by game", func(t *testing.T) {
		removed, err := repo.DeleteByGame(ctx, gameID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
	})
}

func TestRewardRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := newRewardRepository(testDB.DB)
	tickets := seedTickets(t, context.Background(), newTicketRepository(testDB.DB), testutil.DefaultGameID, "TPAY000001")
	ctx := context.Background()

	t.Run("seeded configuration", func(t *testing.T) {
		configs, err := repo.ListConfigs(ctx)
		require.NoError(t, err)
		assert.Len(t, configs, 9)

		active, err := repo.ListActiveConfigs(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 8)
		for _, cfg := range active {
			assert.NotEqual(t, models.PatternRowProgress, cfg.Kind)
		}
	})

	t.Run("update configuration", func(t *testing.T) {
		configs, err := repo.ListConfigs(ctx)
		require.NoError(t, err)
		cfg := configs[0]
		cfg.Amount = 123
		cfg.IsActive = false
		require.NoError(t, repo.UpdateConfig(ctx, cfg))

		stored, err := repo.GetConfigByID(ctx, cfg.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(123), stored.Amount)
		assert.False(t, stored.IsActive)

		missing, err := repo.GetConfigByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		assert.Error(t, repo.UpdateConfig(ctx, &models.RewardConfig{ID: 9999}))
	})

	t.Run("payments by serial newest first", func(t *testing.T) {
		for _, amount := range []int64{100, 200} {
			payment := &models.RewardPayment{
				TicketID:     tickets[0].ID,
				GameID:       testutil.DefaultGameID,
				TicketSerial: tickets[0].Serial,
				PlayerName:   tickets[0].PlayerName,
				Pattern:      "Quick Five",
				RewardKind:   models.PatternQuickFive,
				Amount:       amount,
			}
			require.NoError(t, repo.CreatePayment(ctx, payment))
			assert.Equal(t, models.RewardPaymentProcessed, payment.Status)
		}

		payments, err := repo.ListPaymentsBySerial(ctx, tickets[0].Serial)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, int64(200), payments[0].Amount)
		assert.Nil(t, payments[0].WinnerID)
		assert.Nil(t, payments[0].ClubID)
	})
}
