package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// Storage owns persisted job records in PostgreSQL.
type Storage struct {
	db *sqlx.DB
}

// NewStorage creates a Storage over the shared PostgreSQL client.
func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// NewStorageWithDB creates a Storage over a raw sqlx handle.
func NewStorageWithDB(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// jobRow is the database shape of a job record.
type jobRow struct {
	JobID             string         `db:"job_id"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	Category          string         `db:"category"`
	Status            string         `db:"status"`
	CustomerID        string         `db:"customer_id"`
	TradesmanID       sql.NullString `db:"tradesman_id"`
	Postcode          string         `db:"postcode"`
	Longitude         float64        `db:"longitude"`
	Latitude          float64        `db:"latitude"`
	ImageRemoteID     sql.NullString `db:"image_remote_id"`
	ImageURL          sql.NullString `db:"image_url"`
	ImageOriginalName sql.NullString `db:"image_original_name"`
	CreatedAt         sql.NullTime   `db:"created_at"`
	UpdatedAt         sql.NullTime   `db:"updated_at"`
}

const jobColumns = `
	job_id, title, description, category, status,
	customer_id, tradesman_id, postcode, longitude, latitude,
	image_remote_id, image_url, image_original_name,
	created_at, updated_at`

func (r *jobRow) toDomain() *domain.Job {
	job := &domain.Job{
		JobID:       r.JobID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Status:      r.Status,
		CustomerID:  r.CustomerID,
		Location: domain.Location{
			Longitude: r.Longitude,
			Latitude:  r.Latitude,
			Postcode:  r.Postcode,
		},
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}

	if r.TradesmanID.Valid {
		tradesmanID := r.TradesmanID.String
		job.TradesmanID = &tradesmanID
	}

	// The image reference triple travels as a unit.
	if r.ImageRemoteID.Valid {
		job.Image = &domain.ImageRef{
			RemoteID:     r.ImageRemoteID.String,
			URL:          r.ImageURL.String,
			OriginalName: r.ImageOriginalName.String,
		}
	}

	return job
}

func fromDomain(job *domain.Job) *jobRow {
	row := &jobRow{
		JobID:       job.JobID,
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Status:      job.Status,
		CustomerID:  job.CustomerID,
		Postcode:    job.Location.Postcode,
		Longitude:   job.Location.Longitude,
		Latitude:    job.Location.Latitude,
		CreatedAt:   sql.NullTime{Time: job.CreatedAt, Valid: true},
		UpdatedAt:   sql.NullTime{Time: job.UpdatedAt, Valid: true},
	}

	if job.TradesmanID != nil {
		row.TradesmanID = sql.NullString{String: *job.TradesmanID, Valid: true}
	}

	if job.Image != nil {
		row.ImageRemoteID = sql.NullString{String: job.Image.RemoteID, Valid: true}
		row.ImageURL = sql.NullString{String: job.Image.URL, Valid: true}
		row.ImageOriginalName = sql.NullString{String: job.Image.OriginalName, Valid: true}
	}

	return row
}

// GeoFilter restricts a query to records within RadiusMeters of a point,
// using the spherical distance model.
type GeoFilter struct {
	Longitude    float64
	Latitude     float64
	RadiusMeters float64
}

// JobFilter describes a filtered job query. Geo, Offset and Limit apply to
// ListJobs only; CountJobs ignores pagination but honours the same predicate.
type JobFilter struct {
	Status   string
	Category string
	Geo      *GeoFilter
	Offset   int
	Limit    int
}

// buildPredicate appends WHERE clauses for the filter in positional-argument
// order. The geo predicate pairs an earth_box prefilter (served by the GiST
// index on ll_to_earth) with an exact earth_distance bound.
func buildPredicate(filter JobFilter) (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		clause += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Category != "" {
		clause += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}

	if filter.Geo != nil {
		clause += fmt.Sprintf(
			" AND earth_box(ll_to_earth($%d, $%d), $%d) @> ll_to_earth(latitude, longitude)"+
				" AND earth_distance(ll_to_earth($%d, $%d), ll_to_earth(latitude, longitude)) <= $%d",
			argIdx, argIdx+1, argIdx+2, argIdx, argIdx+1, argIdx+2,
		)
		args = append(args, filter.Geo.Latitude, filter.Geo.Longitude, filter.Geo.RadiusMeters)
		argIdx += 3
	}

	return clause, args
}

// CreateJob inserts a new job record.
func (s *Storage) CreateJob(ctx context.Context, job *domain.Job) error {
	row := fromDomain(job)

	query := `
		INSERT INTO jobs (
			job_id, title, description, category, status,
			customer_id, tradesman_id, postcode, longitude, latitude,
			image_remote_id, image_url, image_original_name,
			created_at, updated_at
		) VALUES (
			:job_id, :title, :description, :category, :status,
			:customer_id, :tradesman_id, :postcode, :longitude, :latitude,
			:image_remote_id, :image_url, :image_original_name,
			:created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJobByID retrieves a job record by identity.
func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	var row jobRow
	query := `SELECT` + jobColumns + ` FROM jobs WHERE job_id = $1`

	err := s.db.GetContext(ctx, &row, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return row.toDomain(), nil
}

// UpdateJob replaces every mutable column of the job record identified by
// job.JobID with the given document.
func (s *Storage) UpdateJob(ctx context.Context, job *domain.Job) error {
	row := fromDomain(job)

	query := `
		UPDATE jobs SET
			title = :title,
			description = :description,
			category = :category,
			status = :status,
			tradesman_id = :tradesman_id,
			postcode = :postcode,
			longitude = :longitude,
			latitude = :latitude,
			image_remote_id = :image_remote_id,
			image_url = :image_url,
			image_original_name = :image_original_name,
			updated_at = :updated_at
		WHERE job_id = :job_id
	`

	result, err := s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// DeleteJob removes the job record by identity.
func (s *Storage) DeleteJob(ctx context.Context, jobID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// ListJobs returns the page of jobs matching the filter, newest first. The
// ordering is the same whether or not a geo predicate is present, with job_id
// as tiebreaker so pagination stays stable.
func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	clause, args := buildPredicate(filter)
	argIdx := len(args) + 1

	query := `SELECT` + jobColumns + ` FROM jobs` + clause
	query += " ORDER BY created_at DESC, job_id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]domain.Job, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].toDomain()
	}

	return jobs, nil
}

// CountJobs returns the total number of jobs matching the filter, ignoring
// pagination. Listing uses this for pagination metadata: the result page is
// capped by the page size while the total must reflect the full matching set.
func (s *Storage) CountJobs(ctx context.Context, filter JobFilter) (int64, error) {
	clause, args := buildPredicate(filter)

	var total int64
	query := `SELECT COUNT(*) FROM jobs` + clause
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return total, nil
}
