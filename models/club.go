package models

import (
	"time"
)

// ClubStatus filters club listings
type ClubStatus string

const (
	ClubStatusAll       ClubStatus = "all"
	ClubStatusActive    ClubStatus = "active"
	ClubStatusCompleted ClubStatus = "completed"
)

// Club is an organizer's pool of sold tickets with its own prize run
type Club struct {
	ID               int64     `db:"id" json:"id"`
	GameID           int64     `db:"game_id" json:"gameId"`
	PartyName        string    `db:"party_name" json:"partyName"`
	OrganizerID      string    `db:"organizer_id" json:"organizerId"`
	TicketPrice      int64     `db:"ticket_price" json:"ticketPrice"`
	TotalTickets     int       `db:"total_tickets" json:"totalTickets"`
	TicketsSold      int       `db:"tickets_sold" json:"ticketsSold"`
	TotalPrize       int64     `db:"total_prize" json:"totalPrize"`
	PrizeDistributed bool      `db:"prize_distributed" json:"prizeDistributed"`
	TotalDistributed int64     `db:"total_distributed" json:"totalDistributed"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// RemainingTickets returns how many tickets can still be added
func (c *Club) RemainingTickets() int {
	return c.TotalTickets - c.TicketsSold
}

// IsSoldOut reports whether every ticket in the club is sold
func (c *Club) IsSoldOut() bool {
	return c.TicketsSold >= c.TotalTickets
}

// ClubInput holds the fields needed to create a club
type ClubInput struct {
	GameID       int64  `json:"gameId"`
	PartyName    string `json:"partyName"`
	OrganizerID  string `json:"organizerId"`
	TicketPrice  int64  `json:"ticketPrice"`
	TotalTickets int    `json:"totalTickets"`
	TotalPrize   int64  `json:"totalPrize"`
}

// ClubTicket links a sold ticket to a club
type ClubTicket struct {
	ClubID      int64     `db:"club_id" json:"clubId"`
	TicketID    int64     `db:"ticket_id" json:"ticketId"`
	Serial      string    `db:"serial" json:"serial"`
	PlayerName  string    `db:"player_name" json:"playerName"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchasedAt"`
}

// ClubDetail combines a club with its tickets
type ClubDetail struct {
	Club    *Club         `json:"club"`
	Tickets []*ClubTicket `json:"tickets"`
}

// AddPlayersFailure is a serial that could not be added to a club
type AddPlayersFailure struct {
	Serial string `json:"serial"`
	Reason string `json:"reason"`
}

// AddPlayersResult is the partial-success outcome of adding players
type AddPlayersResult struct {
	Added       []*ClubTicket        `json:"added"`
	Failed      []*AddPlayersFailure `json:"failed"`
	TicketsSold int                  `json:"ticketsSold"`
	Remaining   int                  `json:"remaining"`
}

// ClubDistribution is the outcome of a club prize run
type ClubDistribution struct {
	ClubID           int64                `json:"clubId"`
	Summary          *DistributionSummary `json:"summary"`
	TotalDistributed int64                `json:"totalDistributed"`
	RemainingPrize   int64                `json:"remainingPrize"`
}
