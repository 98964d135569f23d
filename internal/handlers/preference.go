package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
)

const (
	preferredCookie = "preferred_store"
	preferredMaxAge = 365 * 24 * 3600
)

// SetPreferredStore POST /api/preferred-store {id}
func (h *Handler) SetPreferredStore(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id requis"})
		return
	}
	s, ok := catalog.FindStore(req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Magasin introuvable"})
		return
	}

	count, err := h.store.IncrementPreferred(c.Request.Context(), s.ID)
	if err != nil {
		internalError(c, "Erreur enregistrement de la préférence", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(preferredCookie, s.ID, preferredMaxAge, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": s.ID, "count": count})
}

// ClearPreferredStore DELETE /api/preferred-store
func (h *Handler) ClearPreferredStore(c *gin.Context) {
	c.SetCookie(preferredCookie, "", -1, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
