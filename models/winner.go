package models

import (
	"time"
)

// WinnerRecord is the first pattern achievement of a ticket in a game
type WinnerRecord struct {
	ID         int64     `db:"id" json:"id"`
	GameID     int64     `db:"game_id" json:"gameId"`
	TicketID   int64     `db:"ticket_id" json:"ticketId"`
	Patterns   []Pattern `db:"patterns" json:"patterns"`
	RewardPaid bool      `db:"reward_paid" json:"rewardPaid"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`

	// Joined from the ticket
	TicketSerial string `db:"serial" json:"serial"`
	PlayerName   string `db:"player_name" json:"playerName"`
}

// Winner is a newly recorded winner reported by an evaluation pass
type Winner struct {
	WinnerID     int64     `json:"winnerId"`
	TicketID     int64     `json:"ticketId"`
	TicketSerial string    `json:"serial"`
	PlayerName   string    `json:"playerName"`
	Patterns     []Pattern `json:"patterns"`
}

// Advisory is an informational pattern that does not create a winner
type Advisory struct {
	TicketID     int64   `json:"ticketId"`
	TicketSerial string  `json:"serial"`
	Pattern      Pattern `json:"pattern"`
}

// EvaluationFailure reports a ticket that could not be evaluated
type EvaluationFailure struct {
	TicketID     int64  `json:"ticketId"`
	TicketSerial string `json:"serial"`
	Reason       string `json:"reason"`
}

// EvaluationSummary is the result of one winner evaluation pass
type EvaluationSummary struct {
	GameID     int64                `json:"gameId"`
	TotalDrawn int                  `json:"totalDrawn"`
	Checked    int                  `json:"checked"`
	Winners    []*Winner            `json:"winners"`
	Advisories []*Advisory          `json:"advisories"`
	Failed     []*EvaluationFailure `json:"failed"`
}
