package testutil

import (
	"fmt"

	"tambola/models"
)

// DefaultGameID is the game seeded by the migrations
const DefaultGameID int64 = 1

// SampleGrid returns a valid grid. Variants 0 to 4 are distinct.
func SampleGrid(variant int) models.Grid {
	grid := models.Grid{
		{1, 0, 20, 30, 0, 50, 0, 70, 0},
		{0, 10, 0, 35, 0, 55, 0, 75, 80},
		{5, 0, 25, 0, 40, 0, 60, 0, 85},
	}
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] != models.Blank {
				grid[r][c] += variant
			}
		}
	}
	return grid
}

// CreateTestGame creates a game with default values
func CreateTestGame(code string) *models.Game {
	return &models.Game{
		Code: code,
		Name: "Test Game " + code,
	}
}

// CreateTestTicket creates a ticket for a game with the given grid
func CreateTestTicket(gameID int64, serial string, grid models.Grid) *models.Ticket {
	return &models.Ticket{
		GameID:      gameID,
		Serial:      serial,
		PlayerName:  "Player " + serial,
		PlayerEmail: fmt.Sprintf("%s@example.com", serial),
		Grid:        grid,
	}
}

// CreateTestWinner creates a winner record with a single pattern
func CreateTestWinner(gameID, ticketID int64, kind models.PatternKind) *models.WinnerRecord {
	return &models.WinnerRecord{
		GameID:   gameID,
		TicketID: ticketID,
		Patterns: []models.Pattern{{Kind: kind}},
	}
}

// CreateTestClub creates a club for a game
func CreateTestClub(gameID int64, organizerID string, totalTickets int) *models.Club {
	return &models.Club{
		GameID:       gameID,
		PartyName:    "Party of " + organizerID,
		OrganizerID:  organizerID,
		TicketPrice:  1000,
		TotalTickets: totalTickets,
		TotalPrize:   100000,
	}
}
