package models

import (
	"time"
)

// PlayerIdentity identifies who a ticket is issued to
type PlayerIdentity struct {
	Name   string  `json:"playerName"`
	Email  string  `json:"emailId"`
	UserID *string `json:"userId,omitempty"`
}

// Ticket is an issued tambola ticket. Immutable once persisted.
type Ticket struct {
	ID          int64     `db:"id" json:"id"`
	GameID      int64     `db:"game_id" json:"gameId"`
	Serial      string    `db:"serial" json:"serial"`
	PlayerName  string    `db:"player_name" json:"playerName"`
	PlayerEmail string    `db:"player_email" json:"emailId"`
	UserID      *string   `db:"user_id" json:"userId,omitempty"`
	Grid        Grid      `db:"grid" json:"ticket"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`

	// GridErr is set when the stored grid could not be decoded. Only
	// batch listings return such tickets; Grid is zero then.
	GridErr error `db:"-" json:"-"`
}
