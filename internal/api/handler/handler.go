package handler

import (
	"context"
	"log/slog"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/service"
)

// LifecycleService is the handler's view of the job lifecycle manager.
type LifecycleService interface {
	Create(ctx context.Context, params service.CreateParams) (*domain.Job, error)
	Get(ctx context.Context, jobID string) (*domain.Job, error)
	Update(ctx context.Context, jobID string, params service.UpdateParams) (*domain.Job, error)
	Delete(ctx context.Context, jobID string) error
}

// MatcherService is the handler's view of the job matching engine.
type MatcherService interface {
	List(ctx context.Context, params service.ListParams) (*service.JobPage, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Lifecycle LifecycleService
	Matcher   MatcherService
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger    *slog.Logger
	lifecycle LifecycleService
	matcher   MatcherService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:    deps.Logger,
		lifecycle: deps.Lifecycle,
		matcher:   deps.Matcher,
	}
}
