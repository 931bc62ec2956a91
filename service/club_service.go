package service

import (
	"context"
	"strings"

	"tambola/config"
	"tambola/models"

	log "github.com/sirupsen/logrus"
)

type clubService struct {
	uowFactory     UnitOfWorkFactory
	maxClubTickets int
}

// NewClubService creates a new club service
func NewClubService(uowFactory UnitOfWorkFactory, cfg *config.Config) ClubService {
	return &clubService{
		uowFactory:     uowFactory,
		maxClubTickets: cfg.MaxClubTickets,
	}
}

func (s *clubService) CreateClub(ctx context.Context, input models.ClubInput) (*models.Club, error) {
	input.PartyName = strings.TrimSpace(input.PartyName)
	input.OrganizerID = strings.TrimSpace(input.OrganizerID)

	switch {
	case input.PartyName == "":
		return nil, ValidationError("party name is required")
	case input.OrganizerID == "":
		return nil, ValidationError("organizer id is required")
	case input.TotalTickets < 1 || input.TotalTickets > s.maxClubTickets:
		return nil, ValidationError("total tickets must be between 1 and %d", s.maxClubTickets)
	case input.TicketPrice < 0:
		return nil, ValidationError("ticket price must not be negative")
	case input.TotalPrize < 0:
		return nil, ValidationError("total prize must not be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, input.GameID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load game")
	}
	if game == nil {
		return nil, NotFoundError("game %d not found", input.GameID)
	}

	club := &models.Club{
		GameID:       input.GameID,
		PartyName:    input.PartyName,
		OrganizerID:  input.OrganizerID,
		TicketPrice:  input.TicketPrice,
		TotalTickets: input.TotalTickets,
		TotalPrize:   input.TotalPrize,
	}
	if err := uow.ClubRepository().Create(ctx, club); err != nil {
		return nil, PersistenceError(err, "failed to create club")
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit club")
	}

	log.WithFields(log.Fields{
		"clubId":       club.ID,
		"gameId":       club.GameID,
		"organizerId":  club.OrganizerID,
		"totalTickets": club.TotalTickets,
	}).Info("Club created")

	return club, nil
}

func (s *clubService) GetClub(ctx context.Context, clubID int64) (*models.ClubDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	club, err := uow.ClubRepository().GetByID(ctx, clubID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load club")
	}
	if club == nil {
		return nil, NotFoundError("club %d not found", clubID)
	}

	tickets, err := uow.ClubRepository().ListTickets(ctx, clubID)
	if err != nil {
		return nil, PersistenceError(err, "failed to load club tickets")
	}
	if tickets == nil {
		tickets = []*models.ClubTicket{}
	}

	return &models.ClubDetail{Club: club, Tickets: tickets}, nil
}

func (s *clubService) ListClubs(ctx context.Context, status models.ClubStatus, organizerID string) ([]*models.Club, error) {
	switch status {
	case "":
		status = models.ClubStatusAll
	case models.ClubStatusAll, models.ClubStatusActive, models.ClubStatusCompleted:
	default:
		return nil, ValidationError("unknown club status %q", status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	clubs, err := uow.ClubRepository().List(ctx, status, strings.TrimSpace(organizerID))
	if err != nil {
		return nil, PersistenceError(err, "failed to list clubs")
	}
	if clubs == nil {
		clubs = []*models.Club{}
	}
	return clubs, nil
}

func (s *clubService) AddPlayers(ctx context.Context, clubID int64, serials []string) (*models.AddPlayersResult, error) {
	result := &models.AddPlayersResult{
		Added:  []*models.ClubTicket{},
		Failed: []*models.AddPlayersFailure{},
	}

	seen := make(map[string]struct{}, len(serials))
	unique := make([]string, 0, len(serials))
	for _, serial := range serials {
		serial = strings.TrimSpace(serial)
		if serial == "" {
			continue
		}
		if _, dup := seen[serial]; dup {
			result.Failed = append(result.Failed, &models.AddPlayersFailure{Serial: serial, Reason: "duplicate serial in request"})
			continue
		}
		seen[serial] = struct{}{}
		unique = append(unique, serial)
	}
	if len(unique) == 0 {
		return nil, ValidationError("at least one ticket serial is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	clubRepo := uow.ClubRepository()
	club, err := clubRepo.GetByIDForUpdate(ctx, clubID)
	if err != nil {
		return nil, PersistenceError(err, "failed to lock club")
	}
	if club == nil {
		return nil, NotFoundError("club %d not found", clubID)
	}
	if club.PrizeDistributed {
		return nil, StateError("club prizes have already been distributed")
	}
	if len(unique) > club.RemainingTickets() {
		return nil, StateError("cannot add %d players, only %d tickets remaining", len(unique), club.RemainingTickets())
	}

	ticketRepo := uow.TicketRepository()
	for _, serial := range unique {
		ticket, err := ticketRepo.GetBySerial(ctx, serial)
		if err != nil {
			return nil, PersistenceError(err, "failed to load ticket")
		}
		if ticket == nil {
			result.Failed = append(result.Failed, &models.AddPlayersFailure{Serial: serial, Reason: "ticket not found"})
			continue
		}
		if ticket.GameID != club.GameID {
			result.Failed = append(result.Failed, &models.AddPlayersFailure{Serial: serial, Reason: "ticket belongs to another game"})
			continue
		}

		clubTicket := &models.ClubTicket{
			ClubID:     club.ID,
			TicketID:   ticket.ID,
			Serial:     ticket.Serial,
			PlayerName: ticket.PlayerName,
		}
		added, err := clubRepo.AddTicket(ctx, clubTicket)
		if err != nil {
			return nil, PersistenceError(err, "failed to add ticket to club")
		}
		if !added {
			result.Failed = append(result.Failed, &models.AddPlayersFailure{Serial: serial, Reason: "ticket already belongs to a club"})
			continue
		}
		result.Added = append(result.Added, clubTicket)
	}

	if len(result.Added) > 0 {
		if err := clubRepo.IncrementSold(ctx, club.ID, len(result.Added)); err != nil {
			return nil, PersistenceError(err, "failed to update tickets sold")
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit club players")
	}

	result.TicketsSold = club.TicketsSold + len(result.Added)
	result.Remaining = club.TotalTickets - result.TicketsSold

	log.WithFields(log.Fields{
		"clubId":  club.ID,
		"added":   len(result.Added),
		"failed":  len(result.Failed),
		"sold":    result.TicketsSold,
		"ofTotal": club.TotalTickets,
	}).Info("Players added to club")

	return result, nil
}

func (s *clubService) DistributePrizes(ctx context.Context, clubID int64, force bool) (*models.ClubDistribution, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, PersistenceError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	clubRepo := uow.ClubRepository()
	club, err := clubRepo.GetByIDForUpdate(ctx, clubID)
	if err != nil {
		return nil, PersistenceError(err, "failed to lock club")
	}
	if club == nil {
		return nil, NotFoundError("club %d not found", clubID)
	}
	if !club.IsSoldOut() {
		return nil, StateError("all %d tickets must be sold before distributing prizes, %d sold", club.TotalTickets, club.TicketsSold)
	}
	if club.PrizeDistributed && !force {
		return nil, ConflictError("club prizes have already been distributed")
	}

	id := club.ID
	summary, err := distributeInTx(ctx, uow, models.DistributeOptions{
		GameID: club.GameID,
		ClubID: &id,
		Force:  force,
	})
	if err != nil {
		return nil, err
	}

	if err := clubRepo.MarkDistributed(ctx, club.ID, summary.TotalAmount); err != nil {
		return nil, PersistenceError(err, "failed to mark club distributed")
	}

	if err := uow.Commit(); err != nil {
		return nil, PersistenceError(err, "failed to commit club distribution")
	}

	totalDistributed := club.TotalDistributed + summary.TotalAmount
	remaining := club.TotalPrize - totalDistributed
	if remaining < 0 {
		remaining = 0
	}

	return &models.ClubDistribution{
		ClubID:           club.ID,
		Summary:          summary,
		TotalDistributed: totalDistributed,
		RemainingPrize:   remaining,
	}, nil
}
