package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/storage"
	"github.com/HamzaHersi01/Posting-Discovery/internal/geocoder"
)

const (
	// DefaultPageSize applies when a listing request does not name one.
	DefaultPageSize = 10
	// MaxPageSize caps the page size of a listing request.
	MaxPageSize = 50
	// DefaultRadiusKm applies when a postcode filter arrives without a radius.
	DefaultRadiusKm = 10
)

// ListParams describes a job listing request. Postcode and RadiusKm are
// optional; when the postcode is present but unresolvable the location filter
// is dropped and the listing falls back to category/status filtering only.
type ListParams struct {
	Category string
	Postcode string
	RadiusKm float64
	Page     int
	PageSize int
}

// Pagination is the page metadata attached to a listing result.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// JobPage is one page of matching jobs plus its pagination metadata.
type JobPage struct {
	Items      []domain.Job
	Pagination Pagination
}

// Matcher assembles paginated, ordered pages of open jobs, optionally bounded
// by distance from a resolved postcode.
type Matcher struct {
	store    JobStore
	resolver geocoder.Resolver
	logger   *slog.Logger
}

// NewMatcher creates a Matcher with explicitly injected collaborators.
func NewMatcher(store JobStore, resolver geocoder.Resolver, logger *slog.Logger) *Matcher {
	return &Matcher{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// List returns the requested page of open jobs, newest first. Results are
// always restricted to open jobs; a category narrows further. When a postcode
// is given and resolves, a single distance-bounded query runs with the radius
// in meters, and the total comes from a separate count with the same
// predicate. When resolution fails the location filter is dropped rather than
// erroring; the fallback is logged so degraded geocoding stays visible.
func (m *Matcher) List(ctx context.Context, params ListParams) (*JobPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	filter := storage.JobFilter{
		Status:   domain.JobStatusOpen,
		Category: params.Category,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}

	if postcode := strings.TrimSpace(params.Postcode); postcode != "" {
		if location, ok := m.resolver.Resolve(ctx, postcode); ok {
			radiusKm := params.RadiusKm
			if radiusKm <= 0 {
				radiusKm = DefaultRadiusKm
			}
			filter.Geo = &storage.GeoFilter{
				Longitude:    location.Longitude,
				Latitude:     location.Latitude,
				RadiusMeters: radiusKm * 1000,
			}
		} else {
			// Deliberate degraded behaviour: the caller gets the full
			// category/status listing instead of an error.
			m.logger.Warn("Location filter dropped: postcode unresolvable, falling back to non-spatial listing",
				slog.String("postcode", postcode),
			)
		}
	}

	items, err := m.store.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := m.store.CountJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &JobPage{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
