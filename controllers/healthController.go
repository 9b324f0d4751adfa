package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthResponse is the explicit, statically-typed health body. No runtime
// introspection; every field is named here.
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Database    string `json:"database"`
}

// HealthHandler serves the liveness/build-info endpoint.
type HealthHandler struct {
	DB          *gorm.DB
	Environment string
	Version     string
}

// Check reports app and database health.
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.DB.DB(); err != nil {
		dbStatus = "unavailable"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "unavailable"
	}

	status := http.StatusOK
	overall := "ok"
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, HealthResponse{
		Status:      overall,
		Environment: h.Environment,
		Version:     h.Version,
		Database:    dbStatus,
	})
}
