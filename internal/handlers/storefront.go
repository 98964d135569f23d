package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/pricing"
)

// Pages HTML de la vitrine, rendues côté serveur à partir des mêmes données
// que l'API JSON.

func shopError(c *gin.Context, code int, msg string) {
	c.HTML(code, "shop_error.html", gin.H{"Error": msg})
}

func shopInternalError(c *gin.Context, msg string, err error) {
	zap.S().Errorf("❌ %s: %v", msg, err)
	shopError(c, http.StatusInternalServerError, msg)
}

// storefrontStore résout le magasin et sa marque, ou répond 404
func (h *Handler) storefrontStore(c *gin.Context) (models.Store, bool) {
	s, ok := catalog.FindStore(c.Param("id"))
	if !ok {
		shopError(c, http.StatusNotFound, "Store not found")
		return s, false
	}
	branded, err := h.branded(c, s)
	if err != nil {
		shopInternalError(c, "Erreur lecture de la marque", err)
		return s, false
	}
	return branded, true
}

// Home GET /
func (h *Handler) Home(c *gin.Context) {
	stores := catalog.Stores()
	for i, s := range stores {
		branded, err := h.branded(c, s)
		if err != nil {
			shopInternalError(c, "Erreur lecture de la marque", err)
			return
		}
		stores[i] = branded
	}
	c.HTML(http.StatusOK, "home.html", gin.H{"Stores": stores})
}

// StorefrontPage GET /stores/:id : bandeau promo, fiches produits et paliers
func (h *Handler) StorefrontPage(c *gin.Context) {
	s, ok := h.storefrontStore(c)
	if !ok {
		return
	}
	list, _, err := h.productsWithImages(c, s.ID)
	if err != nil {
		shopInternalError(c, "Erreur lecture des images", err)
		return
	}
	promo, err := h.store.GetPromo(c.Request.Context(), s.ID)
	if err != nil {
		shopInternalError(c, "Erreur lecture de la promo", err)
		return
	}

	c.HTML(http.StatusOK, "storefront.html", gin.H{
		"Store":    s,
		"Products": list,
		"Promo":    promo,
		"PromoOn":  promo.ActiveAt(h.now()),
	})
}

// CartPage GET /stores/:id/cart : panier enregistré, tarifé aux paliers en vigueur
func (h *Handler) CartPage(c *gin.Context) {
	s, ok := h.storefrontStore(c)
	if !ok {
		return
	}
	cart, err := h.store.GetCart(c.Request.Context(), s.ID)
	if err != nil {
		shopInternalError(c, "Erreur lecture du panier", err)
		return
	}

	requested := make([]models.RequestedItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		requested = append(requested, models.RequestedItem{ID: it.ID, Qty: it.Qty})
	}
	products, _ := catalog.Products(s.ID)
	lines, total := pricing.PriceOrderItems(products, requested)

	c.HTML(http.StatusOK, "cart.html", gin.H{
		"Store": s,
		"Lines": lines,
		"Total": total,
	})
}

// OrderPage GET /stores/:id/orders/:orderId : confirmation de commande
func (h *Handler) OrderPage(c *gin.Context) {
	s, ok := h.storefrontStore(c)
	if !ok {
		return
	}
	order, err := h.store.GetOrder(c.Request.Context(), s.ID, c.Param("orderId"))
	if errors.Is(err, database.ErrNotFound) {
		shopError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		shopInternalError(c, "Erreur lecture de la commande", err)
		return
	}
	c.HTML(http.StatusOK, "order.html", gin.H{"Store": s, "Order": order})
}
