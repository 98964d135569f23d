package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/pricing"
)

// TestPaymentToken est le seul jeton accepté par le paiement simulé
const TestPaymentToken = "tok_test"

type orderRequest struct {
	Items *[]models.RequestedItem `json:"items"`
	// Payment reste brut : seul un objet peut porter un jeton
	Payment interface{} `json:"payment"`
}

func (r orderRequest) paymentToken() interface{} {
	payment, ok := r.Payment.(map[string]interface{})
	if !ok {
		return nil
	}
	return payment["token"]
}

// ListOrders GET /api/stores/:id/orders
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.store.ListOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "Erreur lecture des commandes", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder GET /api/stores/:id/orders/:orderId
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.store.GetOrder(c.Request.Context(), c.Param("id"), c.Param("orderId"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		internalError(c, "Erreur lecture de la commande", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder POST /api/stores/:id/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if !bindOrder(c, &req) {
		return
	}
	h.placeOrder(c, req, false)
}

// Checkout POST /api/stores/:id/checkout : comme CreateOrder, avec paiement simulé
func (h *Handler) Checkout(c *gin.Context) {
	var req orderRequest
	if !bindOrder(c, &req) {
		return
	}
	token := req.paymentToken()
	if paymentDeclined(token) {
		zap.S().Infow("💳 Paiement refusé", "store", c.Param("id"))
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Paiement refusé"})
		return
	}
	h.placeOrder(c, req, token == TestPaymentToken)
}

func bindOrder(c *gin.Context, req *orderRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil || req.Items == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les articles de la commande sont requis"})
		return false
	}
	return true
}

// paymentDeclined : un jeton renseigné autre que le jeton de test est refusé,
// l'absence de paiement est acceptée (démo)
func paymentDeclined(token interface{}) bool {
	if token == nil || token == "" || token == false {
		return false
	}
	return token != TestPaymentToken
}

func (h *Handler) placeOrder(c *gin.Context, req orderRequest, paid bool) {
	storeID := c.Param("id")
	// un magasin inconnu n'a aucun produit : toutes les lignes passent à 0
	products, _ := catalog.Products(storeID)

	lines, total := pricing.PriceOrderItems(products, *req.Items)
	order := models.Order{
		ID:        uuid.NewString(),
		Items:     lines,
		Total:     total,
		CreatedAt: h.now().UTC(),
		Paid:      paid,
	}

	saved, err := h.store.AddOrder(c.Request.Context(), storeID, order)
	if err != nil {
		internalError(c, "Erreur enregistrement de la commande", err)
		return
	}
	zap.S().Infow("✅ Commande créée", "store", storeID, "order", saved.ID, "total", saved.Total)
	c.JSON(http.StatusCreated, saved)
}
