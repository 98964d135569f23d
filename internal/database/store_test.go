package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

func newStores(t *testing.T) map[string]Store {
	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Store{
		"file":  fileStore,
		"redis": NewRedisStore(client),
	}
}

func TestStores(t *testing.T) {
	for name, s := range newStores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("panier", func(t *testing.T) {
				cart, err := s.GetCart(ctx, "thuso")
				require.NoError(t, err)
				assert.Empty(t, cart.Items)
				assert.Nil(t, cart.UpdatedAt)

				saved, err := s.SaveCart(ctx, "thuso", []models.CartItem{{ID: "t1", Qty: 5}})
				require.NoError(t, err)
				require.NotNil(t, saved.UpdatedAt)

				cart, err = s.GetCart(ctx, "thuso")
				require.NoError(t, err)
				assert.Equal(t, []models.CartItem{{ID: "t1", Qty: 5}}, cart.Items)

				require.NoError(t, s.DeleteCart(ctx, "thuso"))
				require.NoError(t, s.DeleteCart(ctx, "thuso"))
				cart, err = s.GetCart(ctx, "thuso")
				require.NoError(t, err)
				assert.Empty(t, cart.Items)
			})

			t.Run("commandes", func(t *testing.T) {
				orders, err := s.ListOrders(ctx, "choppies")
				require.NoError(t, err)
				assert.Empty(t, orders)

				o := models.Order{ID: "o1", Total: 4, CreatedAt: time.Now().UTC()}
				_, err = s.AddOrder(ctx, "choppies", o)
				require.NoError(t, err)
				_, err = s.AddOrder(ctx, "choppies", models.Order{ID: "o2"})
				require.NoError(t, err)

				got, err := s.GetOrder(ctx, "choppies", "o1")
				require.NoError(t, err)
				assert.Equal(t, 4.0, got.Total)

				_, err = s.GetOrder(ctx, "choppies", "missing")
				assert.ErrorIs(t, err, ErrNotFound)

				removed, err := s.DeleteOrder(ctx, "choppies", "o1")
				require.NoError(t, err)
				assert.True(t, removed)
				removed, err = s.DeleteOrder(ctx, "choppies", "o1")
				require.NoError(t, err)
				assert.False(t, removed)

				orders, err = s.ListOrders(ctx, "choppies")
				require.NoError(t, err)
				require.Len(t, orders, 1)
				assert.Equal(t, "o2", orders[0].ID)
			})

			t.Run("images", func(t *testing.T) {
				m, err := s.GetImageMap(ctx, "woolworths")
				require.NoError(t, err)
				assert.Empty(t, m)

				want := models.ImageMap{"w1": "/images/a.png", "w2": "https://cdn.test/b.jpg"}
				require.NoError(t, s.SetImageMap(ctx, "woolworths", want))

				got, err := s.GetImageMap(ctx, "woolworths")
				require.NoError(t, err)
				assert.Equal(t, want, got)

				ids, err := s.ImageStoreIDs(ctx)
				require.NoError(t, err)
				assert.Contains(t, ids, "woolworths")
			})

			t.Run("promo", func(t *testing.T) {
				p, err := s.GetPromo(ctx, "thuso")
				require.NoError(t, err)
				assert.Equal(t, models.Promo{}, p)

				empty := ""
				saved, err := s.SetPromo(ctx, "thuso", models.Promo{Enabled: true, Text: "-10%", StartsAt: &empty})
				require.NoError(t, err)
				assert.Nil(t, saved.StartsAt)

				p, err = s.GetPromo(ctx, "thuso")
				require.NoError(t, err)
				assert.True(t, p.Enabled)
				assert.Equal(t, "-10%", p.Text)
			})

			t.Run("marque", func(t *testing.T) {
				_, found, err := s.GetBrand(ctx, "sefalana")
				require.NoError(t, err)
				assert.False(t, found)

				_, err = s.SetBrand(ctx, "sefalana", models.Brand{BrandColor: "#abc", Logo: "/images/l.png"})
				require.NoError(t, err)

				b, found, err := s.GetBrand(ctx, "sefalana")
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, "#abc", b.BrandColor)
				assert.NotNil(t, b.UpdatedAt)
			})

			t.Run("audit", func(t *testing.T) {
				for _, action := range []string{models.ActionSetImage, models.ActionSetPromo, models.ActionClearCart} {
					require.NoError(t, s.AuditLog(ctx, models.AuditEntry{
						Action:  action,
						Store:   "thuso",
						User:    "admin",
						Details: map[string]interface{}{"productId": "t1"},
					}))
				}

				entries, err := s.ReadAudit(ctx, 2)
				require.NoError(t, err)
				require.Len(t, entries, 2)
				assert.Equal(t, models.ActionClearCart, entries[0].Action)
				assert.Equal(t, models.ActionSetPromo, entries[1].Action)
				assert.Equal(t, "t1", entries[0].Details["productId"])
				assert.False(t, entries[0].TS.IsZero())

				all, err := s.ReadAudit(ctx, 0)
				require.NoError(t, err)
				assert.Len(t, all, 3)
			})

			t.Run("magasin préféré", func(t *testing.T) {
				n, err := s.IncrementPreferred(ctx, "sefalana")
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
				n, err = s.IncrementPreferred(ctx, "sefalana")
				require.NoError(t, err)
				assert.Equal(t, int64(2), n)

				counts, err := s.PreferredCounts(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(2), counts["sefalana"])
			})
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetImageMap(ctx, "thuso", models.ImageMap{"t1": "/images/x.png"}))
	require.NoError(t, s.AuditLog(ctx, models.AuditEntry{Action: models.ActionSetImage, Store: "thuso", User: "admin"}))

	assert.FileExists(t, filepath.Join(dir, "images_thuso.json"))
	assert.FileExists(t, filepath.Join(dir, "audit.log"))

	line, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(line), `"action":"set_image"`)
	assert.Contains(t, string(line), `"store":"thuso"`)

	// aucun fichier temporaire laissé par les écritures atomiques
	require.NoError(t, s.SetImageMap(ctx, "thuso", models.ImageMap{"t1": "/images/y.png"}))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"images_thuso.json", "audit.log"}, names)
}

func TestFileStoreCorruptDocumentReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart_thuso.json"), []byte("{oops"), 0o644))

	cart, err := s.GetCart(context.Background(), "thuso")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestKeySanitizesStoreID(t *testing.T) {
	assert.Equal(t, "cart_thuso", Key(KindCart, "thuso"))
	assert.Equal(t, "cart_"+strings.Repeat("_", 6)+"etc", Key(KindCart, "../../etc"))
	assert.NotContains(t, Key(KindCart, "../../etc"), "/")
}
