package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler reports service and database liveness.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string    `json:"status"`
	DBTime time.Time `json:"db_time"`
}

// Health godoc
// @Summary Health check including database round trip
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 500 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	var dbTime time.Time
	if err := h.db.WithContext(c.Request().Context()).Raw("SELECT NOW()").Scan(&dbTime).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
			"status": "unhealthy",
		})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", DBTime: dbTime})
}
