package service

import (
	"context"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/storage"
	"github.com/google/uuid"
)

// JobStore is the persistence surface the job services depend on. The
// PostgreSQL implementation lives in internal/api/storage; tests substitute
// stubs.
type JobStore interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJobByID(ctx context.Context, jobID string) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, jobID string) error
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]domain.Job, error)
	CountJobs(ctx context.Context, filter storage.JobFilter) (int64, error)
}

// validateJobID checks that an identity string is well-formed before any
// lookup is issued, so callers can tell a malformed id from a miss.
func validateJobID(jobID string) error {
	if _, err := uuid.Parse(jobID); err != nil {
		return domain.ErrMalformedJobID
	}
	return nil
}
