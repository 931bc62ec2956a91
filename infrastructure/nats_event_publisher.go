package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tambola/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// messagePublisher is the subset of NATSClient the event publisher needs
type messagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	GameID        int64           `json:"gameId"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher forwards committed bus events to NATS
type NATSEventPublisher struct {
	client        messagePublisher
	subjectMapper *EventSubjectMapper
	timeout       time.Duration
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(client messagePublisher, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		client:        client,
		subjectMapper: subjectMapper,
		timeout:       5 * time.Second,
	}
}

// Attach subscribes the publisher to every event on the bus
func (p *NATSEventPublisher) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := p.Publish(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"gameId":    event.Game(),
				"error":     err,
			}).Error("Failed to publish event to NATS")
		}
	})
}

// Publish publishes a single event inside an envelope
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		GameID:        event.Game(),
		Timestamp:     time.Now().UTC(),
		SourceService: "tambola",
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	subject := p.subjectMapper.MapEventToSubject(event)
	if err := p.client.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventId":   envelope.EventID,
		"eventType": envelope.EventType,
		"subject":   subject,
	}).Debug("Published event to NATS")
	return nil
}
