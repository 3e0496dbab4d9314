package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/dto"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/service"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP status codes. Store failures are
// never swallowed: anything unrecognised surfaces as a 500.
func (h *JobHandler) respondError(c *gin.Context, err error) {
	var invalid *domain.InvalidInputError
	var unresolvable *domain.UnresolvableLocationError

	switch {
	case errors.Is(err, domain.ErrMalformedJobID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is not a valid identifier"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &unresolvable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "postcode could not be resolved to a location",
			"postcode": unresolvable.Postcode,
		})
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	default:
		h.logger.Error("Request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job, err := h.lifecycle.Create(c.Request.Context(), service.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Postcode:    req.Postcode,
		CustomerID:  req.CustomerID,
		Image:       req.ImageRef(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewJobDetail(job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.lifecycle.Get(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDetail(job))
}

// ListJobs handles GET /api/v1/jobs
// Lists open jobs with optional category and postcode+radius filtering.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if req.Category != "" && !domain.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	page, err := h.matcher.List(c.Request.Context(), service.ListParams{
		Category: req.Category,
		Postcode: req.Location,
		RadiusKm: req.RadiusKm,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	jobs := make([]dto.JobSummary, len(page.Items))
	for i := range page.Items {
		jobs[i] = dto.NewJobSummary(&page.Items[i])
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs: jobs,
		Pagination: dto.Pagination{
			Page:       page.Pagination.Page,
			PageSize:   page.Pagination.PageSize,
			Total:      page.Pagination.Total,
			TotalPages: page.Pagination.TotalPages,
		},
	})
}

// UpdateJob handles PUT /api/v1/jobs/:job_id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job, err := h.lifecycle.Update(c.Request.Context(), c.Param("job_id"), req.UpdateParams())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDetail(job))
}

// DeleteJob handles DELETE /api/v1/jobs/:job_id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.lifecycle.Delete(c.Request.Context(), c.Param("job_id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
