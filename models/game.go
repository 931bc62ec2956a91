package models

import (
	"time"
)

// Game is a single tambola session
type Game struct {
	ID         int64     `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	TimeSlot   *string   `db:"time_slot" json:"timeSlot,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	LastNumber *int      `db:"last_number" json:"lastNumber"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// GameState is the live view of a game's draw progress
type GameState struct {
	GameID       int64 `json:"gameId"`
	IsActive     bool  `json:"isActive"`
	LastNumber   *int  `json:"lastNumber"`
	DrawnNumbers []int `json:"drawnNumbers"`
	TotalDrawn   int   `json:"totalDrawn"`
}

// IsComplete reports whether every number has been drawn
func (s *GameState) IsComplete() bool {
	return s.TotalDrawn >= MaxNumber
}

// DrawResult is the outcome of a single draw
type DrawResult struct {
	GameID     int64 `json:"gameId"`
	Number     int   `json:"number"`
	TotalDrawn int   `json:"totalDrawn"`
}

// LiveResults is the viewer-facing snapshot of a game
type LiveResults struct {
	GameState
	RecentWinners []*WinnerRecord `json:"recentWinners"`
}

// PlayerDetails describes a ticket holder and their result
type PlayerDetails struct {
	Ticket          *Ticket    `json:"ticket"`
	WinningPatterns []Pattern  `json:"winningPatterns"`
	WonAt           *time.Time `json:"wonAt,omitempty"`
	DrawnNumbers    []int      `json:"drawnNumbers"`
}
