package domain

import "time"

// Job categories a customer can post under.
const (
	CategoryPlumbing   = "plumbing"
	CategoryElectrical = "electrical"
	CategoryCarpentry  = "carpentry"
	CategoryCleaning   = "cleaning"
	CategoryGardening  = "gardening"
	CategoryPainting   = "painting"
	CategoryOther      = "other"
)

// Job status constants. A job starts open; the accepted/completed/cancelled
// transitions are driven by the marketplace workflow outside this service.
const (
	JobStatusOpen      = "open"
	JobStatusAccepted  = "accepted"
	JobStatusCompleted = "completed"
	JobStatusCancelled = "cancelled"
)

// Categories lists every valid job category.
var Categories = []string{
	CategoryPlumbing,
	CategoryElectrical,
	CategoryCarpentry,
	CategoryCleaning,
	CategoryGardening,
	CategoryPainting,
	CategoryOther,
}

// ValidCategory reports whether category is one of the fixed category set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidStatus reports whether status is one of the enumerated job statuses.
func ValidStatus(status string) bool {
	switch status {
	case JobStatusOpen, JobStatusAccepted, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Location is a resolved geographic point plus the canonical postcode it was
// resolved from. A persisted job always carries both: radius queries depend
// on the coordinate being present and indexed, so a job is never stored with
// a postcode alone.
type Location struct {
	Longitude float64
	Latitude  float64
	Postcode  string
}

// ImageRef is an opaque handle to an image held by the external image store.
// The three fields travel together or are all absent.
type ImageRef struct {
	RemoteID     string
	URL          string
	OriginalName string
}

// Job is a service request posting tied to a location and category.
type Job struct {
	JobID       string
	Title       string
	Description string
	Category    string
	Status      string
	CustomerID  string
	TradesmanID *string
	Location    Location
	Image       *ImageRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
