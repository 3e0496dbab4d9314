package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/events"
	"github.com/HamzaHersi01/Posting-Discovery/internal/geocoder"
	"github.com/HamzaHersi01/Posting-Discovery/internal/imagestore"
	"github.com/google/uuid"
)

// Lifecycle owns job state transitions and the invariant that a stored job's
// location is always a resolved coordinate, never a raw postcode alone.
type Lifecycle struct {
	store    JobStore
	resolver geocoder.Resolver
	images   imagestore.Store
	events   events.Publisher
	logger   *slog.Logger
}

// NewLifecycle creates a Lifecycle with explicitly injected collaborators.
func NewLifecycle(store JobStore, resolver geocoder.Resolver, images imagestore.Store, publisher events.Publisher, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		store:    store,
		resolver: resolver,
		images:   images,
		events:   publisher,
		logger:   logger,
	}
}

// CreateParams carries the fields of a job creation request.
type CreateParams struct {
	Title       string
	Description string
	Category    string
	Postcode    string
	CustomerID  string
	Image       *domain.ImageRef
}

// UpdateParams carries a partial job update. Nil fields are left untouched.
// A non-nil Postcode re-triggers resolution and fully replaces the location;
// a non-nil Image releases the old reference before attaching the new one.
type UpdateParams struct {
	Title       *string
	Description *string
	Category    *string
	Postcode    *string
	Image       *domain.ImageRef
}

// Create validates the input, resolves the postcode and persists a new job
// with status open. An unresolvable postcode rejects the operation before
// anything is written.
func (l *Lifecycle) Create(ctx context.Context, params CreateParams) (*domain.Job, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, domain.NewInvalidInput("title", "must not be empty")
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, domain.NewInvalidInput("description", "must not be empty")
	}
	if !domain.ValidCategory(params.Category) {
		return nil, domain.NewInvalidInput("category", "must be one of "+strings.Join(domain.Categories, ", "))
	}
	if strings.TrimSpace(params.CustomerID) == "" {
		return nil, domain.NewInvalidInput("customer_id", "must not be empty")
	}
	if strings.TrimSpace(params.Postcode) == "" {
		return nil, domain.NewInvalidInput("postcode", "must not be empty")
	}

	location, ok := l.resolver.Resolve(ctx, params.Postcode)
	if !ok {
		l.logger.Info("Job creation rejected: unresolvable postcode",
			slog.String("postcode", params.Postcode),
		)
		return nil, domain.NewUnresolvableLocation(params.Postcode)
	}

	now := time.Now().UTC()
	job := &domain.Job{
		JobID:       uuid.New().String(),
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Status:      domain.JobStatusOpen,
		CustomerID:  params.CustomerID,
		Location:    *location,
		Image:       params.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	l.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("category", job.Category),
		slog.String("postcode", job.Location.Postcode),
	)

	l.publish(ctx, events.EventJobCreated, job)

	return job, nil
}

// Get retrieves a job by identity, checking that the identity is well-formed
// before issuing the lookup.
func (l *Lifecycle) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}
	return l.store.GetJobByID(ctx, jobID)
}

// Update applies a partial update to an existing job. A postcode change that
// fails resolution rejects the whole update with no field applied. The
// updated-at timestamp is refreshed on every successful update.
func (l *Lifecycle) Update(ctx context.Context, jobID string, params UpdateParams) (*domain.Job, error) {
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}

	job, err := l.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, domain.NewInvalidInput("title", "must not be empty")
		}
		job.Title = *params.Title
	}
	if params.Description != nil {
		if strings.TrimSpace(*params.Description) == "" {
			return nil, domain.NewInvalidInput("description", "must not be empty")
		}
		job.Description = *params.Description
	}
	if params.Category != nil {
		if !domain.ValidCategory(*params.Category) {
			return nil, domain.NewInvalidInput("category", "must be one of "+strings.Join(domain.Categories, ", "))
		}
		job.Category = *params.Category
	}

	if params.Postcode != nil {
		location, ok := l.resolver.Resolve(ctx, *params.Postcode)
		if !ok {
			l.logger.Info("Job update rejected: unresolvable postcode",
				slog.String("job_id", jobID),
				slog.String("postcode", *params.Postcode),
			)
			return nil, domain.NewUnresolvableLocation(*params.Postcode)
		}
		// Full replacement: the old coordinate never survives alongside
		// a new postcode.
		job.Location = *location
	}

	if params.Image != nil {
		// Release the old reference first so it cannot outlive the
		// record. Validation and resolution have already passed, so a
		// rejected update no longer reaches this point.
		if job.Image != nil {
			if err := l.images.Release(ctx, job.Image.RemoteID); err != nil {
				l.logger.Warn("Failed to release replaced job image",
					slog.String("job_id", jobID),
					slog.String("remote_id", job.Image.RemoteID),
					slog.Any("error", err),
				)
			}
		}
		job.Image = params.Image
	}

	job.UpdatedAt = time.Now().UTC()

	if err := l.store.UpdateJob(ctx, job); err != nil {
		return nil, err
	}

	l.logger.Info("Job updated",
		slog.String("job_id", job.JobID),
	)

	l.publish(ctx, events.EventJobUpdated, job)

	return job, nil
}

// Delete removes a job. Any image reference is released first; a failed
// release is logged but does not block deletion of the record.
func (l *Lifecycle) Delete(ctx context.Context, jobID string) error {
	if err := validateJobID(jobID); err != nil {
		return err
	}

	job, err := l.store.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.Image != nil {
		if err := l.images.Release(ctx, job.Image.RemoteID); err != nil {
			l.logger.Warn("Failed to release job image on delete",
				slog.String("job_id", jobID),
				slog.String("remote_id", job.Image.RemoteID),
				slog.Any("error", err),
			)
		}
	}

	if err := l.store.DeleteJob(ctx, jobID); err != nil {
		return err
	}

	l.logger.Info("Job deleted",
		slog.String("job_id", jobID),
	)

	l.publish(ctx, events.EventJobDeleted, job)

	return nil
}

// publish emits a lifecycle event. Publishing is best-effort: a broker
// failure is logged and never fails the request.
func (l *Lifecycle) publish(ctx context.Context, eventType string, job *domain.Job) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishJobEvent(ctx, eventType, job); err != nil {
		l.logger.Warn("Failed to publish job event",
			slog.String("event_type", eventType),
			slog.String("job_id", job.JobID),
			slog.Any("error", err),
		)
	}
}
