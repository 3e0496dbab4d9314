package router

import (
	"net/http"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "posting-discovery",
		})
	})

	jobHandler := handler.NewJobHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			// POST /api/v1/jobs - Post a new job
			jobs.POST("", jobHandler.CreateJob)

			// GET /api/v1/jobs - List open jobs with filtering and pagination
			jobs.GET("", jobHandler.ListJobs)

			// GET /api/v1/jobs/:job_id - Get job details
			jobs.GET("/:job_id", jobHandler.GetJob)

			// PUT /api/v1/jobs/:job_id - Update a job
			jobs.PUT("/:job_id", jobHandler.UpdateJob)

			// DELETE /api/v1/jobs/:job_id - Delete a job
			jobs.DELETE("/:job_id", jobHandler.DeleteJob)
		}
	}

	return r
}
