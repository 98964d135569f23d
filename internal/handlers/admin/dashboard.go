package admin

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

type storeRow struct {
	Store     models.Store
	Preferred int64
}

type imageRow struct {
	ProductID string
	Ref       string
}

// Dashboard GET /admin
func (h *Handler) Dashboard(c *gin.Context) {
	counts, err := h.store.PreferredCounts(c.Request.Context())
	if err != nil {
		internalError(c, "Erreur lecture des préférences", err)
		return
	}
	var rows []storeRow
	for _, s := range catalog.Stores() {
		rows = append(rows, storeRow{Store: s, Preferred: counts[s.ID]})
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Stores": rows})
}

// StorePage GET /admin/stores/:id
func (h *Handler) StorePage(c *gin.Context) {
	ctx := c.Request.Context()
	s, ok := catalog.FindStore(c.Param("id"))
	if !ok {
		renderError(c, http.StatusNotFound, "Magasin introuvable")
		return
	}

	cart, err := h.store.GetCart(ctx, s.ID)
	if err != nil {
		internalError(c, "Erreur lecture du panier", err)
		return
	}
	orders, err := h.store.ListOrders(ctx, s.ID)
	if err != nil {
		internalError(c, "Erreur lecture des commandes", err)
		return
	}
	promo, err := h.store.GetPromo(ctx, s.ID)
	if err != nil {
		internalError(c, "Erreur lecture du bandeau", err)
		return
	}
	images, err := h.store.GetImageMap(ctx, s.ID)
	if err != nil {
		internalError(c, "Erreur lecture des images", err)
		return
	}
	products, _ := catalog.Products(s.ID)

	c.HTML(http.StatusOK, "store.html", gin.H{
		"Store":    s,
		"Cart":     cart,
		"Orders":   orders,
		"Promo":    promo,
		"Products": products,
		"Images":   sortedImages(images),
		"CSRF":     middleware.CSRFToken(c),
	})
}

func sortedImages(images models.ImageMap) []imageRow {
	rows := make([]imageRow, 0, len(images))
	for id, ref := range images {
		rows = append(rows, imageRow{ProductID: id, Ref: ref})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductID < rows[j].ProductID })
	return rows
}
