package infrastructure

import (
	"fmt"

	"tambola/events"
)

// EventSubjectMapper maps game events to NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject returns tambola.game.<game id>.<event>
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	var name string
	switch event.Type() {
	case events.EventTypeNumberDrawn:
		name = "number_drawn"
	case events.EventTypeGameStarted:
		name = "started"
	case events.EventTypeGameReset:
		name = "reset"
	case events.EventTypeWinnersAnnounced:
		name = "winners"
	case events.EventTypeRewardsDistributed:
		name = "rewards"
	default:
		name = "unknown." + string(event.Type())
	}
	return fmt.Sprintf("tambola.game.%d.%s", event.Game(), name)
}
