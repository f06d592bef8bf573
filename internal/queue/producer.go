package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Producer publishes analytics events to the queue
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// PublishEvent publishes an analytics event to the events queue
func (p *Producer) PublishEvent(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, EventQueueName, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("published event",
		"event_id", event.ID,
		"type", event.Type,
		"user_id", event.UserID,
	)

	return nil
}
