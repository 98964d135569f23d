package handlers

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

func newTestStorefront(t *testing.T) (*gin.Engine, database.Store) {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)

	h := New(store)
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	r.SetHTMLTemplate(StorefrontTemplates(template.New("test")))
	r.GET("/", h.Home)
	r.GET("/stores/:id", h.StorefrontPage)
	r.GET("/stores/:id/cart", h.CartPage)
	r.GET("/stores/:id/orders/:orderId", h.OrderPage)
	return r, store
}

func TestHomeListsStores(t *testing.T) {
	r, store := newTestStorefront(t)
	_, err := store.SetBrand(context.Background(), "woolworths", models.Brand{BrandColor: "#123456"})
	require.NoError(t, err)

	w := request(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/stores/thuso"`)
	assert.Contains(t, body, "Thuso Wholesaler")
	assert.Contains(t, body, "#123456")
}

func TestStorefrontPage(t *testing.T) {
	r, store := newTestStorefront(t)
	ctx := context.Background()

	w := request(r, http.MethodGet, "/stores/thuso", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="card"`), "one card per product")
	assert.Contains(t, body, "BWP 25.00")
	assert.Contains(t, body, "Buy 5+ @ BWP 23.00")
	assert.Contains(t, body, "Buy 12+ @ BWP 15.50")
	assert.Contains(t, body, "--brand-color:#0b5f3a")
	assert.NotContains(t, body, "promo-ribbon")

	past, future := "2024-05-01T00:00", "2024-07-01T00:00"
	_, err := store.SetPromo(ctx, "thuso", models.Promo{Enabled: true, Text: "Winter <sale>", StartsAt: &past, EndsAt: &future})
	require.NoError(t, err)
	_, err = store.SetBrand(ctx, "thuso", models.Brand{BrandColor: "#abcdef"})
	require.NoError(t, err)
	require.NoError(t, store.SetImageMap(ctx, "thuso", models.ImageMap{"t1": "/images/rice.png"}))

	body = request(r, http.MethodGet, "/stores/thuso", nil).Body.String()
	assert.Contains(t, body, `<div class="promo-ribbon">Winter &lt;sale&gt;</div>`)
	assert.Contains(t, body, "--brand-color:#abcdef")
	assert.Contains(t, body, `src="/images/rice.png"`)

	// hors fenêtre, le bandeau disparaît
	_, err = store.SetPromo(ctx, "thuso", models.Promo{Enabled: true, Text: "Later", StartsAt: &future})
	require.NoError(t, err)
	assert.NotContains(t, request(r, http.MethodGet, "/stores/thuso", nil).Body.String(), "promo-ribbon")

	w = request(r, http.MethodGet, "/stores/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Store not found")
}

func TestCartPage(t *testing.T) {
	r, store := newTestStorefront(t)

	w := request(r, http.MethodGet, "/stores/thuso/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")

	_, err := store.SaveCart(context.Background(), "thuso", []models.CartItem{{ID: "t2", Qty: 12}, {ID: "zz", Qty: 1}})
	require.NoError(t, err)

	body := request(r, http.MethodGet, "/stores/thuso/cart", nil).Body.String()
	assert.Contains(t, body, "Cooking Oil 5L x12 - BWP 186.00")
	assert.Contains(t, body, "(BWP 15.50/ea)")
	assert.Contains(t, body, "zz x1 - BWP 0.00")
	assert.Contains(t, body, "Total: BWP 186.00")
}

func TestOrderPage(t *testing.T) {
	r, store := newTestStorefront(t)
	order, err := store.AddOrder(context.Background(), "thuso", models.Order{
		ID:        "ord-1",
		Items:     []models.OrderLine{{ID: "t1", Name: "Bulk Rice 10kg", Price: 23, Qty: 5, LineTotal: 115}},
		Total:     115,
		CreatedAt: fixedNow,
		Paid:      true,
	})
	require.NoError(t, err)

	w := request(r, http.MethodGet, "/stores/thuso/orders/"+order.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Order ord-1")
	assert.Contains(t, body, "Bulk Rice 10kg - 5 × BWP 23.00 = BWP 115.00")
	assert.Contains(t, body, "Total: BWP 115.00")
	assert.Contains(t, body, "Paid")

	w = request(r, http.MethodGet, "/stores/thuso/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}
