package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/shared/rabbitmq"
)

// Job lifecycle event types published to the message broker.
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
)

// JobEvent is the broker payload for a job lifecycle change.
type JobEvent struct {
	EventType  string    `json:"event_type"`
	JobID      string    `json:"job_id"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	CustomerID string    `json:"customer_id"`
	Postcode   string    `json:"postcode"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits job lifecycle events.
type Publisher interface {
	PublishJobEvent(ctx context.Context, eventType string, job *domain.Job) error
}

// RabbitPublisher publishes job lifecycle events over RabbitMQ.
type RabbitPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewRabbitPublisher creates a Publisher over the shared RabbitMQ client.
func NewRabbitPublisher(client *rabbitmq.Client, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client: client,
		logger: logger,
	}
}

// PublishJobEvent publishes one lifecycle event with retry.
func (p *RabbitPublisher) PublishJobEvent(ctx context.Context, eventType string, job *domain.Job) error {
	event := JobEvent{
		EventType:  eventType,
		JobID:      job.JobID,
		Category:   job.Category,
		Status:     job.Status,
		CustomerID: job.CustomerID,
		Postcode:   job.Location.Postcode,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	p.logger.Debug("Published job event",
		slog.String("event_type", eventType),
		slog.String("job_id", job.JobID),
	)

	return nil
}
