package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
)

// LoginPage GET /admin/login
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.CurrentUser(c, h.sessions) != "" {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"CSRF": middleware.CSRFToken(c)})
}

// Login POST /admin/login
func (h *Handler) Login(c *gin.Context) {
	user := strings.TrimSpace(c.PostForm("user"))
	pass := c.PostForm("pass")

	if !h.creds.Check(user, pass) {
		zap.S().Warnw("⚠️ Échec de connexion admin", "user", user, "ip", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"CSRF":  middleware.CSRFToken(c),
			"Error": "Identifiants invalides",
		})
		return
	}

	if err := middleware.Login(c, h.sessions, user); err != nil {
		internalError(c, "Ouverture de session impossible", err)
		return
	}
	zap.S().Infow("✅ Connexion admin", "user", user, "ip", c.ClientIP())
	c.Redirect(http.StatusFound, "/admin")
}

// Logout GET /admin/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.Logout(c, h.sessions); err != nil {
		zap.S().Warnf("⚠️ Fermeture de session: %v", err)
	}
	c.Redirect(http.StatusFound, "/admin/login")
}
