// Package admin regroupe les pages HTML du panneau d'administration
package admin

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

type Options struct {
	Store              database.Store
	Images             *services.ImagePipeline
	Sessions           sessions.Store
	Credentials        utils.AdminCredentials
	ProductConstraints services.UploadConstraints
	LogoConstraints    services.UploadConstraints
}

type Handler struct {
	store       database.Store
	images      *services.ImagePipeline
	sessions    sessions.Store
	creds       utils.AdminCredentials
	productCons services.UploadConstraints
	logoCons    services.UploadConstraints
}

func New(opts Options) *Handler {
	h := &Handler{
		store:       opts.Store,
		images:      opts.Images,
		sessions:    opts.Sessions,
		creds:       opts.Credentials,
		productCons: opts.ProductConstraints,
		logoCons:    opts.LogoConstraints,
	}
	if h.productCons == (services.UploadConstraints{}) {
		h.productCons = services.ProductImageConstraints
	}
	if h.logoCons == (services.UploadConstraints{}) {
		h.logoCons = services.LogoConstraints
	}
	return h
}

func storePath(storeID string, suffix ...string) string {
	return "/admin/stores/" + url.PathEscape(storeID) + strings.Join(suffix, "")
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func renderError(c *gin.Context, code int, msg string) {
	c.HTML(code, "error.html", gin.H{"Error": msg})
}

func internalError(c *gin.Context, msg string, err error) {
	zap.S().Errorf("❌ %s: %v", msg, err)
	renderError(c, http.StatusInternalServerError, msg)
}

// rejectUpload traduit un refus du pipeline d'images en réponse HTTP :
// 429 + Retry-After pour le débit, 400 pour le reste.
func rejectUpload(c *gin.Context, err error) {
	ue, ok := services.AsUploadError(err)
	if !ok {
		zap.S().Errorf("❌ Enregistrement de l'image impossible: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Enregistrement de l'image impossible"})
		return
	}
	if ue.Kind == services.KindRateLimited {
		middleware.AbortRateLimited(c, ue.Message, ue.RetryAfter)
		return
	}
	zap.S().Infow("⚠️ Image refusée", "kind", ue.Kind.String(), "reason", ue.Message, "ip", c.ClientIP())
	c.JSON(http.StatusBadRequest, gin.H{"error": ue.Message})
}
