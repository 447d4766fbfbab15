package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kdesch5000/observium-mcp/internal/database"
	"github.com/kdesch5000/observium-mcp/internal/rrd"
)

// Response represents the health check response
type Response struct {
	Status   string            `json:"status"` // "healthy", "degraded", "unhealthy"
	Checks   map[string]Check  `json:"checks"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Check represents a single health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Handler creates the health check endpoint. The inventory database is a
// hard dependency; the archive path is soft because inventory queries keep
// working without it, so an archive failure only degrades the service.
func Handler(db *database.DB, archive *rrd.Service, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		response := Response{
			Status: "healthy",
			Checks: make(map[string]Check),
			Metadata: map[string]string{
				"service": "observium-mcp",
				"version": version,
			},
		}

		dbCheck := checkDatabase(ctx, db)
		response.Checks["database"] = dbCheck
		if dbCheck.Status != "pass" {
			response.Status = "unhealthy"
		}

		archiveCheck := checkArchive(ctx, archive)
		response.Checks["archive"] = archiveCheck
		if archiveCheck.Status != "pass" && response.Status == "healthy" {
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, response)
	}
}

func checkDatabase(ctx context.Context, db *database.DB) Check {
	if err := db.HealthCheck(ctx); err != nil {
		return Check{
			Status:  "fail",
			Message: err.Error(),
		}
	}
	return Check{
		Status: "pass",
	}
}

func checkArchive(ctx context.Context, archive *rrd.Service) Check {
	if err := archive.Healthy(ctx); err != nil {
		return Check{
			Status:  "fail",
			Message: err.Error(),
		}
	}
	return Check{
		Status: "pass",
	}
}
