package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

const (
	auditDefaultLimit = 200
	auditMaxLimit     = 1000
)

// AuditPage GET /admin/audit affiche les entrées les plus récentes,
// filtrables par action et par magasin.
func (h *Handler) AuditPage(c *gin.Context) {
	action := c.Query("action")
	storeID := c.Query("store")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(auditDefaultLimit)))
	if err != nil || limit <= 0 {
		limit = auditDefaultLimit
	}
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}

	// Les filtres s'appliquent après lecture : on lit la fenêtre maximale
	// quand un filtre est actif.
	read := limit
	if action != "" || storeID != "" {
		read = auditMaxLimit
	}
	entries, err := h.store.ReadAudit(c.Request.Context(), read)
	if err != nil {
		internalError(c, "Erreur lecture du journal d'audit", err)
		return
	}

	filtered := make([]models.AuditEntry, 0, len(entries))
	for _, e := range entries {
		if action != "" && e.Action != action {
			continue
		}
		if storeID != "" && e.Store != storeID {
			continue
		}
		filtered = append(filtered, e)
		if len(filtered) == limit {
			break
		}
	}

	c.HTML(http.StatusOK, "audit.html", gin.H{"Entries": filtered})
}
