// Package handlers expose l'API JSON publique des magasins
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/database"
)

type Handler struct {
	store   database.Store
	started time.Time
	now     func() time.Time
}

func New(store database.Store) *Handler {
	return &Handler{store: store, started: time.Now(), now: time.Now}
}

// internalError journalise l'erreur et renvoie un message générique
func internalError(c *gin.Context, msg string, err error) {
	zap.S().Errorf("❌ %s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// Health GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"uptime": h.now().Sub(h.started).Seconds(),
	})
}
