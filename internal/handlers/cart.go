package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/pricing"
)

// GetCart GET /api/stores/:id/cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.store.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "Erreur lecture du panier", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// SaveCart POST /api/stores/:id/cart : remplace le panier entier
func (h *Handler) SaveCart(c *gin.Context) {
	var req struct {
		Items *[]models.RequestedItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ items (tableau) est requis"})
		return
	}

	items := make([]models.CartItem, 0, len(*req.Items))
	for _, it := range *req.Items {
		items = append(items, models.CartItem{ID: it.ID, Qty: pricing.QuantityOrZero(it.Qty)})
	}

	cart, err := h.store.SaveCart(c.Request.Context(), c.Param("id"), items)
	if err != nil {
		internalError(c, "Erreur enregistrement du panier", err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}
