package service

import (
	"context"
	"testing"
	"time"

	"tambola/config"
	"tambola/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestClubService(m *testMocks) ClubService {
	return NewClubService(m.factory, &config.Config{MaxClubTickets: 10})
}

func createTestClub(id int64, total, sold int, distributed bool) *models.Club {
	return &models.Club{
		ID:               id,
		GameID:           1,
		PartyName:        "Diwali Party",
		OrganizerID:      "org-1",
		TotalTickets:     total,
		TicketsSold:      sold,
		TotalPrize:       600000,
		PrizeDistributed: distributed,
	}
}

func TestClubService_CreateClub(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupBasicTransactionMocks(m.uow)

	m.games.On("GetByID", ctx, int64(1)).Return(createTestGame(1, false, nil), nil)
	m.clubs.On("Create", ctx, mock.MatchedBy(func(c *models.Club) bool {
		return c.PartyName == "Diwali Party" && c.TotalTickets == 4 && c.OrganizerID == "org-1"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Club).ID = 3
	})

	club, err := newTestClubService(m).CreateClub(ctx, models.ClubInput{
		GameID:       1,
		PartyName:    " Diwali Party ",
		OrganizerID:  "org-1",
		TotalTickets: 4,
		TotalPrize:   1000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), club.ID)
	m.assertExpectations(t)
}

func TestClubService_CreateClubValidation(t *testing.T) {
	t.Parallel()

	valid := models.ClubInput{GameID: 1, PartyName: "Party", OrganizerID: "org", TotalTickets: 2}

	tests := []struct {
		name   string
		modify func(*models.ClubInput)
	}{
		{"missing party name", func(in *models.ClubInput) { in.PartyName = "" }},
		{"missing organizer", func(in *models.ClubInput) { in.OrganizerID = " " }},
		{"no tickets", func(in *models.ClubInput) { in.TotalTickets = 0 }},
		{"too many tickets", func(in *models.ClubInput) { in.TotalTickets = 11 }},
		{"negative price", func(in *models.ClubInput) { in.TicketPrice = -1 }},
		{"negative prize", func(in *models.ClubInput) { in.TotalPrize = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input := valid
			tt.modify(&input)

			_, err := newTestClubService(newTestMocks()).CreateClub(context.Background(), input)
			assert.True(t, IsKind(err, KindValidation))
		})
	}
}

func TestClubService_AddPlayers(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupBasicTransactionMocks(m.uow)

	m.clubs.On("GetByIDForUpdate", ctx, int64(3)).Return(createTestClub(3, 5, 1, false), nil)
	m.tickets.On("GetBySerial", ctx, "TA").Return(createTestTicket(10, 1, "TA", testGrid()), nil)
	m.tickets.On("GetBySerial", ctx, "TB").Return(createTestTicket(11, 2, "TB", testGrid()), nil)
	m.tickets.On("GetBySerial", ctx, "TC").Return(nil, nil)
	m.tickets.On("GetBySerial", ctx, "TD").Return(createTestTicket(12, 1, "TD", testGrid()), nil)
	m.clubs.On("AddTicket", ctx, mock.MatchedBy(func(ct *models.ClubTicket) bool { return ct.TicketID == 10 })).
		Return(true, nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.ClubTicket).PurchasedAt = time.Now()
	})
	m.clubs.On("AddTicket", ctx, mock.MatchedBy(func(ct *models.ClubTicket) bool { return ct.TicketID == 12 })).Return(false, nil)
	m.clubs.On("IncrementSold", ctx, int64(3), 1).Return(nil)

	result, err := newTestClubService(m).AddPlayers(ctx, 3, []string{"TA", "TB", "TC", "TA", "TD", ""})

	require.NoError(t, err)
	require.Len(t, result.Added, 1)
	assert.Equal(t, "TA", result.Added[0].Serial)
	assert.Equal(t, 2, result.TicketsSold)
	assert.Equal(t, 3, result.Remaining)

	reasons := make(map[string]string)
	for _, f := range result.Failed {
		reasons[f.Serial] = f.Reason
	}
	assert.Equal(t, map[string]string{
		"TB": "ticket belongs to another game",
		"TC": "ticket not found",
		"TA": "duplicate serial in request",
		"TD": "ticket already belongs to a club",
	}, reasons)
	m.assertExpectations(t)
}

func TestClubService_AddPlayersRejected(t *testing.T) {
	tests := []struct {
		name string
		club *models.Club
		kind ErrorKind
	}{
		{"club missing", nil, KindNotFound},
		{"club already distributed", createTestClub(3, 5, 5, true), KindState},
		{"not enough tickets left", createTestClub(3, 5, 4, false), KindState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newTestMocks()
			setupReadOnlyTransactionMocks(m.uow)
			if tt.club == nil {
				m.clubs.On("GetByIDForUpdate", ctx, int64(3)).Return(nil, nil)
			} else {
				m.clubs.On("GetByIDForUpdate", ctx, int64(3)).Return(tt.club, nil)
			}

			_, err := newTestClubService(m).AddPlayers(ctx, 3, []string{"TA", "TB"})

			assert.True(t, IsKind(err, tt.kind), "unexpected error %v", err)
			m.clubs.AssertNotCalled(t, "IncrementSold", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("no serials", func(t *testing.T) {
		_, err := newTestClubService(newTestMocks()).AddPlayers(context.Background(), 3, []string{" ", ""})
		assert.True(t, IsKind(err, KindValidation))
	})
}

func TestClubService_DistributePrizes(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupBasicTransactionMocks(m.uow)
	m.bus.On("Publish", mock.Anything).Return()

	clubID := int64(3)
	record := createTestWinnerRecord(1, 10, "TA", time.Now(), models.Pattern{Kind: models.PatternFullHouse})

	m.clubs.On("GetByIDForUpdate", ctx, clubID).Return(createTestClub(clubID, 2, 2, false), nil)
	m.winners.On("ListUnpaidForUpdate", ctx, int64(1), &clubID).Return([]*models.WinnerRecord{record}, nil)
	m.rewards.On("ListActiveConfigs", ctx).Return(testRewardConfigs(), nil)
	m.rewards.On("CreatePayment", ctx, mock.MatchedBy(func(p *models.RewardPayment) bool {
		return p.ClubID != nil && *p.ClubID == clubID
	})).Return(nil)
	m.winners.On("MarkPaid", ctx, int64(1)).Return(nil)
	m.clubs.On("MarkDistributed", ctx, clubID, int64(500000)).Return(nil)

	result, err := newTestClubService(m).DistributePrizes(ctx, clubID, false)

	require.NoError(t, err)
	assert.Equal(t, int64(500000), result.TotalDistributed)
	assert.Equal(t, int64(100000), result.RemainingPrize)
	assert.Equal(t, 1, result.Summary.Processed)
	m.assertExpectations(t)
}

func TestClubService_DistributePrizesRejected(t *testing.T) {
	tests := []struct {
		name  string
		club  *models.Club
		force bool
		kind  ErrorKind
	}{
		{"not sold out", createTestClub(3, 5, 4, false), false, KindState},
		{"already distributed", createTestClub(3, 5, 5, true), false, KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newTestMocks()
			setupReadOnlyTransactionMocks(m.uow)
			m.clubs.On("GetByIDForUpdate", ctx, int64(3)).Return(tt.club, nil)

			_, err := newTestClubService(m).DistributePrizes(ctx, 3, tt.force)

			assert.True(t, IsKind(err, tt.kind), "unexpected error %v", err)
			m.winners.AssertNotCalled(t, "ListUnpaidForUpdate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestClubService_ListClubs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty status lists all", func(t *testing.T) {
		m := newTestMocks()
		setupReadOnlyTransactionMocks(m.uow)
		m.clubs.On("List", ctx, models.ClubStatusAll, "org-1").Return(nil, nil)

		clubs, err := newTestClubService(m).ListClubs(ctx, "", " org-1 ")

		require.NoError(t, err)
		assert.NotNil(t, clubs)
		assert.Empty(t, clubs)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := newTestClubService(newTestMocks()).ListClubs(ctx, "pending", "")
		assert.True(t, IsKind(err, KindValidation))
	})
}

func TestClubService_GetClub(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	setupReadOnlyTransactionMocks(m.uow)

	m.clubs.On("GetByID", ctx, int64(3)).Return(createTestClub(3, 2, 1, false), nil)
	m.clubs.On("ListTickets", ctx, int64(3)).Return([]*models.ClubTicket{{ClubID: 3, TicketID: 10, Serial: "TA"}}, nil)

	detail, err := newTestClubService(m).GetClub(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), detail.Club.ID)
	require.Len(t, detail.Tickets, 1)
	assert.Equal(t, "TA", detail.Tickets[0].Serial)
}
