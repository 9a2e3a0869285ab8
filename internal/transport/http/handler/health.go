package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docrag/internal/config"
)

type HealthHandler struct {
	cfg       *config.Config
	startedAt time.Time
}

func NewHealthHandler(cfg *config.Config, startedAt time.Time) *HealthHandler {
	return &HealthHandler{cfg: cfg, startedAt: startedAt}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":        h.cfg.App.Name,
		"env":        h.cfg.App.Env,
		"region":     h.cfg.App.Region,
		"store_kind": h.cfg.Store.Kind,
		"uptime_sec": int(time.Since(h.startedAt).Seconds()),
	})
}
