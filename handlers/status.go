package handlers

import (
	"net/http"

	"finance-server/cache"
	"finance-server/db"
	"finance-server/ws"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports process health for probes and operators.
type StatusHandler struct {
	db      db.Database
	summary *cache.SummaryCache
	mgr     *ws.Manager
}

func NewStatusHandler(database db.Database, summary *cache.SummaryCache, mgr *ws.Manager) *StatusHandler {
	return &StatusHandler{db: database, summary: summary, mgr: mgr}
}

// Health GET /health
func (h *StatusHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.GetDB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "database": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "OK",
		"summary_cache":    h.summary.Stats(),
		"live_connections": h.mgr.Total(),
	})
}
