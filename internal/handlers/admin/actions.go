package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

// optionalTime renvoie nil pour un champ datetime vide
func optionalTime(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// SavePromo POST /admin/stores/:id/promo
func (h *Handler) SavePromo(c *gin.Context) {
	storeID := c.Param("id")
	promo := models.Promo{
		Enabled:  c.PostForm("enabled") != "",
		Text:     strings.TrimSpace(c.PostForm("text")),
		StartsAt: optionalTime(c.PostForm("startsAt")),
		EndsAt:   optionalTime(c.PostForm("endsAt")),
	}
	if _, err := h.store.SetPromo(c.Request.Context(), storeID, promo); err != nil {
		internalError(c, "Erreur enregistrement du bandeau", err)
		return
	}
	utils.LogAction(c, h.store, models.ActionSetPromo, storeID, map[string]interface{}{
		"promo": map[string]interface{}{"enabled": promo.Enabled, "text": promo.Text},
	})
	c.Redirect(http.StatusFound, storePath(storeID))
}

// ClearCart POST /admin/stores/:id/cart/delete
func (h *Handler) ClearCart(c *gin.Context) {
	storeID := c.Param("id")
	if err := h.store.DeleteCart(c.Request.Context(), storeID); err != nil {
		internalError(c, "Erreur suppression du panier", err)
		return
	}
	utils.LogAction(c, h.store, models.ActionClearCart, storeID, nil)
	c.Redirect(http.StatusFound, storePath(storeID))
}

// DeleteOrder POST /admin/stores/:id/orders/:orderId/delete
func (h *Handler) DeleteOrder(c *gin.Context) {
	storeID := c.Param("id")
	orderID := c.Param("orderId")
	removed, err := h.store.DeleteOrder(c.Request.Context(), storeID, orderID)
	if err != nil {
		internalError(c, "Erreur suppression de la commande", err)
		return
	}
	if removed {
		utils.LogAction(c, h.store, models.ActionDeleteOrder, storeID, map[string]interface{}{
			"orderId": orderID,
		})
	}
	c.Redirect(http.StatusFound, storePath(storeID))
}
