package handler

import (
	"net/http"
	"runtime"
	"time"

	reportapp "github.com/bizdesk/backend/internal/application/report"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	statsService *reportapp.StatsService
	version      string
	startTime    time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(base BaseHandler, statsService *reportapp.StatsService, version string) *SystemHandler {
	return &SystemHandler{
		BaseHandler:  base,
		statsService: statsService,
		version:      version,
		startTime:    time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string                           `json:"status" example:"healthy"`
	Time     string                           `json:"time" example:"2026-01-23T12:00:00Z"`
	Database *reportapp.DatabaseStatsResponse `json:"database"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Reports database connectivity and global row counts. 503 when the database is unreachable.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	reqLog := logger.FromGin(c)
	resp := HealthResponse{Time: time.Now().UTC().Format(time.RFC3339)}

	stats, err := h.statsService.DatabaseStats(c.Request.Context(), uuid.Nil)
	if err != nil || !stats.Connected {
		reqLog.Warn("Health check failed", zap.Error(err))
		if err != nil {
			stats = &reportapp.DatabaseStatsResponse{Connected: true}
		}
		resp.Status = StatusUnhealthy
		resp.Database = stats
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = StatusHealthy
	resp.Database = stats
	c.JSON(http.StatusOK, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"BizDesk API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Info godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns the version and uptime of the API
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      "BizDesk API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
