package admin

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

// uploadSource lit le champ fichier (prioritaire) ou, à défaut, le champ URL
// du formulaire. Le closer renvoyé n'est jamais nil.
func uploadSource(c *gin.Context, fileField, urlField string) (services.UploadSource, io.Closer, error) {
	src := services.UploadSource{
		URL:       c.PostForm(urlField),
		ClientKey: c.ClientIP(),
	}
	fh, err := c.FormFile(fileField)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return src, io.NopCloser(nil), nil
	default:
		return src, io.NopCloser(nil), err
	}

	f, err := fh.Open()
	if err != nil {
		return src, io.NopCloser(nil), err
	}
	src.File = f
	src.ContentType = fh.Header.Get("Content-Type")
	src.Size = fh.Size
	return src, f, nil
}

// UploadImage POST /admin/stores/:id/upload
func (h *Handler) UploadImage(c *gin.Context) {
	storeID := c.Param("id")
	productID := strings.TrimSpace(c.PostForm("productId"))
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId requis"})
		return
	}

	src, closer, err := uploadSource(c, "imageFile", "imageUrl")
	if err != nil {
		zap.S().Warnf("⚠️ Formulaire d'envoi illisible: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formulaire invalide"})
		return
	}
	defer closer.Close()

	ref, err := h.images.AcceptUpload(c.Request.Context(), src, h.productCons)
	if err != nil {
		rejectUpload(c, err)
		return
	}

	ctx := c.Request.Context()
	images, err := h.store.GetImageMap(ctx, storeID)
	if err != nil {
		internalError(c, "Erreur lecture des images", err)
		return
	}
	if images == nil {
		images = models.ImageMap{}
	}
	images[productID] = ref
	if err := h.store.SetImageMap(ctx, storeID, images); err != nil {
		internalError(c, "Erreur enregistrement de l'image", err)
		return
	}

	utils.LogAction(c, h.store, models.ActionSetImage, storeID, map[string]interface{}{
		"productId": productID,
		"file":      ref,
	})
	zap.S().Infof("🖼️ Image %s → %s/%s", ref, storeID, productID)
	c.Redirect(http.StatusFound, storePath(storeID))
}

// DeleteImage POST /admin/stores/:id/images/:productId/delete
func (h *Handler) DeleteImage(c *gin.Context) {
	ctx := c.Request.Context()
	storeID := c.Param("id")
	productID := c.Param("productId")

	images, err := h.store.GetImageMap(ctx, storeID)
	if err != nil {
		internalError(c, "Erreur lecture des images", err)
		return
	}
	if _, ok := images[productID]; ok {
		delete(images, productID)
		if err := h.store.SetImageMap(ctx, storeID, images); err != nil {
			internalError(c, "Erreur suppression de l'image", err)
			return
		}
		utils.LogAction(c, h.store, models.ActionDeleteImage, storeID, map[string]interface{}{
			"productId": productID,
		})
	}
	c.Redirect(http.StatusFound, storePath(storeID))
}
