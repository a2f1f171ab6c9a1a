package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tenco/blog/utils"
)

// HealthController reports liveness along with the database and session store status.
type HealthController struct {
	db       *gorm.DB
	sessions utils.SessionStore
}

// NewHealthController creates a HealthController.
func NewHealthController(db *gorm.DB, sessions utils.SessionStore) *HealthController {
	return &HealthController{db: db, sessions: sessions}
}

func (h *HealthController) Check(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "sessions": "ok"}
	healthy := true
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		status["database"] = "down"
		healthy = false
	}
	if err := h.sessions.Ping(pingCtx); err != nil {
		status["sessions"] = "down"
		healthy = false
	}
	if !healthy {
		status["status"] = "degraded"
		utils.Respond(ctx, http.StatusServiceUnavailable, 50300, "unhealthy", status)
		return
	}
	utils.Success(ctx, status)
}
