package models

import (
	"time"
)

// RewardConfig maps a pattern kind to a prize amount
type RewardConfig struct {
	ID          int64       `db:"id" json:"id"`
	Kind        PatternKind `db:"pattern_kind" json:"kind"`
	DisplayName string      `db:"display_name" json:"displayName"`
	Amount      int64       `db:"amount" json:"amount"`
	IsActive    bool        `db:"is_active" json:"isActive"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// RewardPaymentStatus is the state of a payment row
type RewardPaymentStatus string

const (
	RewardPaymentProcessed RewardPaymentStatus = "processed"
)

// RewardPayment is an append-only record of a prize paid to a winner
type RewardPayment struct {
	ID           int64               `db:"id" json:"id"`
	WinnerID     *int64              `db:"winner_id" json:"winnerId,omitempty"`
	TicketID     int64               `db:"ticket_id" json:"ticketId"`
	GameID       int64               `db:"game_id" json:"gameId"`
	ClubID       *int64              `db:"club_id" json:"clubId,omitempty"`
	TicketSerial string              `db:"ticket_serial" json:"serial"`
	PlayerName   string              `db:"player_name" json:"playerName"`
	Pattern      string              `db:"pattern" json:"pattern"`
	RewardKind   PatternKind         `db:"reward_kind" json:"rewardKind"`
	Amount       int64               `db:"amount" json:"amount"`
	Status       RewardPaymentStatus `db:"status" json:"status"`
	PaidAt       time.Time           `db:"paid_at" json:"paidAt"`
}

// DistributeOptions scopes a prize distribution run
type DistributeOptions struct {
	GameID int64
	ClubID *int64
	// Force resets paid flags in scope before distributing
	Force bool
}

// DistributionSummary is the result of a prize distribution run
type DistributionSummary struct {
	GameID      int64            `json:"gameId"`
	Payments    []*RewardPayment `json:"payments"`
	TotalAmount int64            `json:"totalAmount"`
	Processed   int              `json:"processed"`
	Skipped     int              `json:"skipped"`
	Unrewarded  int              `json:"unrewarded"`
	ResetCount  int64            `json:"resetCount,omitempty"`
}
