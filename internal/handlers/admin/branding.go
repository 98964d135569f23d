package admin

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

// brandingStore renvoie le magasin du catalogue, ou une fiche minimale pour
// un identifiant inconnu : la marque est enregistrée sous l'id brut.
func brandingStore(id string) models.Store {
	if s, ok := catalog.FindStore(id); ok {
		return s
	}
	id = strings.TrimSpace(id)
	return models.Store{ID: id, Slug: id, Name: id}
}

// BrandingPage GET /admin/stores/:id/branding
func (h *Handler) BrandingPage(c *gin.Context) {
	s := brandingStore(c.Param("id"))
	brand, found, err := h.store.GetBrand(c.Request.Context(), s.ID)
	if err != nil {
		internalError(c, "Erreur lecture de la marque", err)
		return
	}
	if found {
		s = catalog.ApplyBrand(s, brand)
	}
	c.HTML(http.StatusOK, "branding.html", gin.H{
		"Store": s,
		"OK":    c.Query("ok") == "1",
		"Error": c.Query("error"),
		"CSRF":  middleware.CSRFToken(c),
	})
}

// SaveBranding POST /admin/stores/:id/branding
// Répond toujours par une redirection vers la page, avec ?ok=1 ou ?error=.
func (h *Handler) SaveBranding(c *gin.Context) {
	ctx := c.Request.Context()
	storeID := brandingStore(c.Param("id")).ID
	back := storePath(storeID, "/branding")
	fail := func(msg string) {
		c.Redirect(http.StatusFound, back+"?error="+url.QueryEscape(msg))
	}
	if storeID == "" {
		fail("Magasin requis")
		return
	}

	brandColor := strings.TrimSpace(c.PostForm("brandColor"))
	textColor := strings.TrimSpace(c.PostForm("textColor"))
	if !utils.IsHexColor(brandColor) {
		fail("Couleur de marque invalide")
		return
	}
	if textColor != "" && !utils.IsHexColor(textColor) {
		fail("Couleur de texte invalide")
		return
	}

	current, _, err := h.store.GetBrand(ctx, storeID)
	if err != nil {
		internalError(c, "Erreur lecture de la marque", err)
		return
	}

	src, closer, err := uploadSource(c, "logoFile", "logo")
	if err != nil {
		fail("Formulaire invalide")
		return
	}
	defer closer.Close()

	logo := current.Logo
	if src.File != nil || strings.TrimSpace(src.URL) != "" {
		if logo, err = h.images.AcceptUpload(ctx, src, h.logoCons); err != nil {
			ue, ok := services.AsUploadError(err)
			if !ok {
				zap.S().Errorf("❌ Enregistrement du logo impossible: %v", err)
				fail("Enregistrement du logo impossible")
				return
			}
			if ue.Kind == services.KindRateLimited {
				c.Header("Retry-After", strconv.Itoa(middleware.RetryAfterSeconds(ue.RetryAfter)))
			}
			zap.S().Infow("⚠️ Logo refusé", "kind", ue.Kind.String(), "reason", ue.Message, "store", storeID)
			fail(ue.Message)
			return
		}
	}

	now := time.Now()
	brand := models.Brand{BrandColor: brandColor, TextColor: textColor, Logo: logo, UpdatedAt: &now}
	if _, err := h.store.SetBrand(ctx, storeID, brand); err != nil {
		internalError(c, "Erreur enregistrement de la marque", err)
		return
	}

	utils.LogAction(c, h.store, models.ActionSetBrand, storeID, map[string]interface{}{
		"brandColor": brandColor,
		"textColor":  textColor,
		"logo":       logo,
	})
	zap.S().Infof("🎨 Marque mise à jour pour %s", storeID)
	c.Redirect(http.StatusFound, back+"?ok=1")
}
