package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types published after successful writes.
const (
	EventUserRegistered = "user.registered"
	EventProfileUpdated = "profile.updated"
	EventBmiRecorded    = "bmi.recorded"
	EventFoodLogged     = "food.logged"
	EventFoodDeleted    = "food.deleted"
	EventGoalsUpdated   = "goals.updated"
	EventUserDeleted    = "user.deleted"
)

// EventsChannel is the broker channel domain events are published to.
const EventsChannel = "diettracker.events"

// Event is the envelope of a published domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     int       `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// EventPublisher emits domain events. Implementations must not fail the caller.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, userID int, data any)
}

// Broker is the subset of a message queue used for events.
type Broker interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, int, any) {}

// NoopPublisher discards every event.
func NoopPublisher() EventPublisher { return noopPublisher{} }

// BrokerPublisher publishes events to a broker and logs failures.
type BrokerPublisher struct {
	broker Broker
	logger *zap.Logger
}

func NewBrokerPublisher(broker Broker, logger *zap.Logger) *BrokerPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrokerPublisher{broker: broker, logger: logger}
}

func (p *BrokerPublisher) Publish(ctx context.Context, eventType string, userID int, data any) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("encode event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if _, err := p.broker.Publish(ctx, EventsChannel, payload, map[string]string{"type": eventType}); err != nil {
		p.logger.Warn("publish event", zap.String("type", eventType), zap.Int("user_id", userID), zap.Error(err))
	}
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return NoopPublisher()
	}
	return p
}
