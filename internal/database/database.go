package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/config"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

// ErrNotFound est renvoyée quand un enregistrement demandé n'existe pas
var ErrNotFound = errors.New("introuvable")

// Store est le collaborateur de persistance : des documents JSON par magasin,
// lus et remplacés en entier, clés "<kind>_<storeId>".
type Store interface {
	GetCart(ctx context.Context, storeID string) (models.Cart, error)
	SaveCart(ctx context.Context, storeID string, items []models.CartItem) (models.Cart, error)
	DeleteCart(ctx context.Context, storeID string) error

	ListOrders(ctx context.Context, storeID string) ([]models.Order, error)
	AddOrder(ctx context.Context, storeID string, order models.Order) (models.Order, error)
	GetOrder(ctx context.Context, storeID, orderID string) (models.Order, error)
	DeleteOrder(ctx context.Context, storeID, orderID string) (bool, error)

	GetImageMap(ctx context.Context, storeID string) (models.ImageMap, error)
	SetImageMap(ctx context.Context, storeID string, images models.ImageMap) error
	ImageStoreIDs(ctx context.Context) ([]string, error)

	GetPromo(ctx context.Context, storeID string) (models.Promo, error)
	SetPromo(ctx context.Context, storeID string, promo models.Promo) (models.Promo, error)

	GetBrand(ctx context.Context, storeID string) (models.Brand, bool, error)
	SetBrand(ctx context.Context, storeID string, brand models.Brand) (models.Brand, error)

	AuditLog(ctx context.Context, entry models.AuditEntry) error
	ReadAudit(ctx context.Context, limit int) ([]models.AuditEntry, error)

	IncrementPreferred(ctx context.Context, storeID string) (int64, error)
	PreferredCounts(ctx context.Context) (map[string]int64, error)
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
)

const (
	KindCart   = "cart"
	KindOrders = "orders"
	KindImages = "images"
	KindPromo  = "promo"
	KindBrand  = "brand"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Key construit la clé "<kind>_<storeId>" en neutralisant les caractères
// qui permettraient de sortir du répertoire de données.
func Key(kind, storeID string) string {
	return kind + "_" + unsafeKeyChars.ReplaceAllString(storeID, "_")
}

// Connect ouvre le backend de persistance choisi dans la configuration
func Connect(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		client, err := ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		zap.S().Infof("✅ Persistance Redis (%s)", cfg.RedisHost)
		return NewRedisStore(client), nil
	case "", "file":
		s, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		zap.S().Infof("✅ Persistance fichiers JSON (%s)", cfg.DataDir)
		return s, nil
	default:
		return nil, fmt.Errorf("backend de persistance inconnu: %q", cfg.StoreBackend)
	}
}

// ConnectRedis crée le client Redis et vérifie la connexion
func ConnectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connexion Redis: %w", err)
	}
	return client, nil
}
