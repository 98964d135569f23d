package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/pricing"
)

// ListStores GET /api/stores
func (h *Handler) ListStores(c *gin.Context) {
	stores := catalog.Stores()
	for i, s := range stores {
		branded, err := h.branded(c, s)
		if err != nil {
			internalError(c, "Erreur lecture de la marque", err)
			return
		}
		stores[i] = branded
	}
	c.JSON(http.StatusOK, stores)
}

// GetStore GET /api/stores/:id
func (h *Handler) GetStore(c *gin.Context) {
	s, ok := catalog.FindStore(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Magasin introuvable"})
		return
	}
	branded, err := h.branded(c, s)
	if err != nil {
		internalError(c, "Erreur lecture de la marque", err)
		return
	}
	c.JSON(http.StatusOK, branded)
}

func (h *Handler) branded(c *gin.Context, s models.Store) (models.Store, error) {
	brand, found, err := h.store.GetBrand(c.Request.Context(), s.ID)
	if err != nil || !found {
		return s, err
	}
	return catalog.ApplyBrand(s, brand), nil
}

// productsWithImages renvoie les produits du magasin avec la table d'images appliquée
func (h *Handler) productsWithImages(c *gin.Context, storeID string) ([]models.Product, bool, error) {
	list, ok := catalog.Products(storeID)
	if !ok {
		return nil, false, nil
	}
	images, err := h.store.GetImageMap(c.Request.Context(), storeID)
	if err != nil {
		return nil, true, err
	}
	return catalog.WithImages(list, images), true, nil
}

// ListProducts GET /api/stores/:id/products
func (h *Handler) ListProducts(c *gin.Context) {
	list, ok, err := h.productsWithImages(c, c.Param("id"))
	if err != nil {
		internalError(c, "Erreur lecture des images", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun produit pour ce magasin"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetProduct GET /api/stores/:id/products/:productId
func (h *Handler) GetProduct(c *gin.Context) {
	list, ok, err := h.productsWithImages(c, c.Param("id"))
	if err != nil {
		internalError(c, "Erreur lecture des images", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun produit pour ce magasin"})
		return
	}
	for _, p := range list {
		if p.ID == c.Param("productId") {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
}

// Price GET /api/stores/:id/price?productId=&qty=
func (h *Handler) Price(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId requis"})
		return
	}
	p, ok := catalog.FindProduct(c.Param("id"), productID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	qty := pricing.QuantityOrZero(c.Query("qty"))
	lt := pricing.ComputeLineTotal(p, qty)
	c.JSON(http.StatusOK, gin.H{
		"productId": productID,
		"qty":       qty,
		"unitPrice": lt.UnitPrice,
		"lineTotal": lt.LineTotal,
	})
}

// GetPromo GET /api/stores/:id/promo
func (h *Handler) GetPromo(c *gin.Context) {
	promo, err := h.store.GetPromo(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "Erreur lecture de la promo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":  promo.Enabled,
		"text":     promo.Text,
		"startsAt": promo.StartsAt,
		"endsAt":   promo.EndsAt,
		"active":   promo.ActiveAt(h.now()),
	})
}
