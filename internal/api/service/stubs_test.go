package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubStore is an in-memory JobStore honouring the same filter and ordering
// semantics as the PostgreSQL implementation.
type stubStore struct {
	mu   sync.Mutex
	jobs map[string]domain.Job

	createErr error
}

func newStubStore() *stubStore {
	return &stubStore{jobs: make(map[string]domain.Job)}
}

func (s *stubStore) CreateJob(_ context.Context, job *domain.Job) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = *job
	return nil
}

func (s *stubStore) GetJobByID(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (s *stubStore) UpdateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.JobID]; !ok {
		return domain.ErrJobNotFound
	}
	s.jobs[job.JobID] = *job
	return nil
}

func (s *stubStore) DeleteJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return domain.ErrJobNotFound
	}
	delete(s.jobs, jobID)
	return nil
}

func (s *stubStore) matching(filter storage.JobFilter) []domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.Job
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.Category != "" && job.Category != filter.Category {
			continue
		}
		if filter.Geo != nil {
			d := haversineMeters(filter.Geo.Latitude, filter.Geo.Longitude, job.Location.Latitude, job.Location.Longitude)
			if d > filter.Geo.RadiusMeters {
				continue
			}
		}
		matched = append(matched, job)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].JobID > matched[j].JobID
	})

	return matched
}

func (s *stubStore) ListJobs(_ context.Context, filter storage.JobFilter) ([]domain.Job, error) {
	matched := s.matching(filter)

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *stubStore) CountJobs(_ context.Context, filter storage.JobFilter) (int64, error) {
	return int64(len(s.matching(filter))), nil
}

func (s *stubStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(a))
}

// stubResolver resolves from a fixed postcode table. Keys are upper-cased,
// space-stripped forms of the input.
type stubResolver struct {
	locations map[string]domain.Location
	calls     int
	failAll   bool
}

func newStubResolver() *stubResolver {
	return &stubResolver{locations: map[string]domain.Location{
		"SW1A1AA": {Longitude: -0.1276, Latitude: 51.5074, Postcode: "SW1A 1AA"},
		"M11AE":   {Longitude: -2.2374, Latitude: 53.4808, Postcode: "M1 1AE"},
	}}
}

func (r *stubResolver) Resolve(_ context.Context, postcode string) (*domain.Location, bool) {
	r.calls++
	if r.failAll {
		return nil, false
	}
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(postcode), " ", ""))
	loc, ok := r.locations[key]
	if !ok {
		return nil, false
	}
	return &loc, true
}

// stubImages records release calls and optionally fails them.
type stubImages struct {
	released   []string
	releaseErr error
}

func (s *stubImages) Release(_ context.Context, remoteID string) error {
	s.released = append(s.released, remoteID)
	return s.releaseErr
}

// stubPublisher records published lifecycle events.
type stubPublisher struct {
	events []string
	err    error
}

func (s *stubPublisher) PublishJobEvent(_ context.Context, eventType string, _ *domain.Job) error {
	s.events = append(s.events, eventType)
	return s.err
}

var errStoreDown = errors.New("store unavailable")
