package dto

import (
	"time"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/service"
)

// ImageRefDTO is the structured image reference accepted and returned by the
// API. The three fields travel together.
type ImageRefDTO struct {
	RemoteID     string `json:"remote_id" binding:"required"`
	URL          string `json:"url" binding:"required"`
	OriginalName string `json:"original_name" binding:"required"`
}

type CreateJobRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Category    string       `json:"category" binding:"required"`
	Postcode    string       `json:"postcode" binding:"required"`
	CustomerID  string       `json:"customer_id" binding:"required"`
	Image       *ImageRefDTO `json:"image"`
	// ImageURL is an input-compatibility shim for older clients that sent a
	// bare URL instead of the structured reference. Ignored when Image is set.
	ImageURL string `json:"image_url"`
}

// ImageRef maps the request's image fields onto the domain reference,
// preferring the structured triple over the legacy URL shim.
func (r *CreateJobRequest) ImageRef() *domain.ImageRef {
	if r.Image != nil {
		return &domain.ImageRef{
			RemoteID:     r.Image.RemoteID,
			URL:          r.Image.URL,
			OriginalName: r.Image.OriginalName,
		}
	}
	if r.ImageURL != "" {
		// Unmanaged reference: no remote id, so the image store is never
		// asked to release it.
		return &domain.ImageRef{URL: r.ImageURL}
	}
	return nil
}

type UpdateJobRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Postcode    *string      `json:"postcode"`
	Image       *ImageRefDTO `json:"image"`
}

// UpdateParams converts the request into service update parameters.
func (r *UpdateJobRequest) UpdateParams() service.UpdateParams {
	params := service.UpdateParams{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Postcode:    r.Postcode,
	}
	if r.Image != nil {
		params.Image = &domain.ImageRef{
			RemoteID:     r.Image.RemoteID,
			URL:          r.Image.URL,
			OriginalName: r.Image.OriginalName,
		}
	}
	return params
}

type ListJobsRequest struct {
	Category string  `form:"category"`
	Location string  `form:"location"`
	RadiusKm float64 `form:"radius_km"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// JobSummary is the listing view of a job. It shows the postcode as the
// displayed location; coordinates are never returned to listing callers.
type JobSummary struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	CustomerID  string `json:"customer_id"`
	Postcode    string `json:"postcode"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// LocationDTO is the resolved location on the detail view.
type LocationDTO struct {
	Postcode  string  `json:"postcode"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// JobDetail is the full single-job view, including the tradesman reference
// and the full image reference triple.
type JobDetail struct {
	JobID       string       `json:"job_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Status      string       `json:"status"`
	CustomerID  string       `json:"customer_id"`
	TradesmanID *string      `json:"tradesman_id"`
	Location    LocationDTO  `json:"location"`
	Image       *ImageRefDTO `json:"image,omitempty"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ListJobsResponse struct {
	Jobs       []JobSummary `json:"jobs"`
	Pagination Pagination   `json:"pagination"`
}

// NewJobSummary shapes a domain job for the listing view.
func NewJobSummary(job *domain.Job) JobSummary {
	summary := JobSummary{
		JobID:       job.JobID,
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Status:      job.Status,
		CustomerID:  job.CustomerID,
		Postcode:    job.Location.Postcode,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
	}
	if job.Image != nil {
		summary.ImageURL = job.Image.URL
	}
	return summary
}

// NewJobDetail shapes a domain job for the single-job view.
func NewJobDetail(job *domain.Job) JobDetail {
	detail := JobDetail{
		JobID:       job.JobID,
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Status:      job.Status,
		CustomerID:  job.CustomerID,
		TradesmanID: job.TradesmanID,
		Location: LocationDTO{
			Postcode:  job.Location.Postcode,
			Longitude: job.Location.Longitude,
			Latitude:  job.Location.Latitude,
		},
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
	}
	if job.Image != nil {
		detail.Image = &ImageRefDTO{
			RemoteID:     job.Image.RemoteID,
			URL:          job.Image.URL,
			OriginalName: job.Image.OriginalName,
		}
	}
	return detail
}
