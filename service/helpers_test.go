package service

import (
	"testing"

	"tambola/models"

	"github.com/stretchr/testify/mock"
)

type testMocks struct {
	factory *MockUnitOfWorkFactory
	uow     *MockUnitOfWork
	games   *MockGameRepository
	tickets *MockTicketRepository
	drawn   *MockDrawnNumberRepository
	winners *MockWinnerRepository
	rewards *MockRewardRepository
	clubs   *MockClubRepository
	bus     *MockEventPublisher
}

func newTestMocks() *testMocks {
	m := &testMocks{
		factory: new(MockUnitOfWorkFactory),
		uow:     new(MockUnitOfWork),
		games:   new(MockGameRepository),
		tickets: new(MockTicketRepository),
		drawn:   new(MockDrawnNumberRepository),
		winners: new(MockWinnerRepository),
		rewards: new(MockRewardRepository),
		clubs:   new(MockClubRepository),
		bus:     new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.games, m.tickets, m.drawn, m.winners)
	m.uow.SetRewardRepository(m.rewards)
	m.uow.SetClubRepository(m.clubs)
	m.uow.SetEventBus(m.bus)
	m.factory.On("Create").Return(m.uow)
	return m
}

func (m *testMocks) assertExpectations(t *testing.T) {
	assertAllMockExpectations(t, m.factory, m.uow, m.games, m.tickets, m.drawn, m.winners, m.rewards, m.clubs, m.bus)
}

func setupBasicTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

// setupReadOnlyTransactionMocks is for calls that roll back without committing
func setupReadOnlyTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

func assertAllMockExpectations(t *testing.T, mocks ...interface{}) {
	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(mock.TestingT) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

func createTestGame(id int64, active bool, lastNumber *int) *models.Game {
	return &models.Game{
		ID:         id,
		Code:       "G000001",
		Name:       "Test Game",
		IsActive:   active,
		LastNumber: lastNumber,
	}
}

func createTestTicket(id, gameID int64, serial string, grid models.Grid) *models.Ticket {
	return &models.Ticket{
		ID:          id,
		GameID:      gameID,
		Serial:      serial,
		PlayerName:  "Player " + serial,
		PlayerEmail: serial + "@example.com",
		Grid:        grid,
	}
}

func rangeInts(lo, hi int) []int {
	numbers := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		numbers = append(numbers, n)
	}
	return numbers
}
