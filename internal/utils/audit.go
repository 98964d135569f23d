package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

// ContextUserKey est la clé gin portant l'utilisateur admin connecté
const ContextUserKey = "admin_user"

// AuditSink reçoit les entrées du journal d'audit
type AuditSink interface {
	AuditLog(ctx context.Context, entry models.AuditEntry) error
}

// LogAction enregistre une action admin. Un échec d'écriture est journalisé
// mais ne fait pas échouer la requête.
func LogAction(c *gin.Context, sink AuditSink, action, storeID string, details map[string]interface{}) {
	user := c.GetString(ContextUserKey)
	if user == "" {
		user = "unknown"
	}
	entry := models.AuditEntry{
		Action:  action,
		Store:   storeID,
		User:    user,
		Details: details,
	}
	if err := sink.AuditLog(c.Request.Context(), entry); err != nil {
		zap.S().Errorf("❌ Erreur enregistrement log audit: %v", err)
	}
}
