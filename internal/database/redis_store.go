package database

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

const (
	redisAuditKey     = "audit_log"
	redisPreferredKey = "preferred_counts"
)

// RedisStore conserve les mêmes documents JSON que FileStore, sous forme de
// chaînes Redis ; l'audit est une liste et les préférences un hash.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Client expose la connexion pour les limiteurs de débit partagés
func (s *RedisStore) Client() *redis.Client { return s.client }

func (s *RedisStore) getJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		zap.S().Warnf("⚠️ Document Redis %s illisible, ignoré: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) GetCart(ctx context.Context, storeID string) (models.Cart, error) {
	cart := models.EmptyCart()
	found, err := s.getJSON(ctx, Key(KindCart, storeID), &cart)
	if err != nil || !found {
		return models.EmptyCart(), err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, storeID string, items []models.CartItem) (models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	now := s.now().UTC()
	cart := models.Cart{Items: items, UpdatedAt: &now}
	return cart, s.setJSON(ctx, Key(KindCart, storeID), cart)
}

func (s *RedisStore) DeleteCart(ctx context.Context, storeID string) error {
	return s.client.Del(ctx, Key(KindCart, storeID)).Err()
}

func (s *RedisStore) ListOrders(ctx context.Context, storeID string) ([]models.Order, error) {
	orders := []models.Order{}
	if _, err := s.getJSON(ctx, Key(KindOrders, storeID), &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *RedisStore) AddOrder(ctx context.Context, storeID string, order models.Order) (models.Order, error) {
	orders, err := s.ListOrders(ctx, storeID)
	if err != nil {
		return models.Order{}, err
	}
	orders = append(orders, order)
	return order, s.setJSON(ctx, Key(KindOrders, storeID), orders)
}

func (s *RedisStore) GetOrder(ctx context.Context, storeID, orderID string) (models.Order, error) {
	orders, err := s.ListOrders(ctx, storeID)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *RedisStore) DeleteOrder(ctx context.Context, storeID, orderID string) (bool, error) {
	orders, err := s.ListOrders(ctx, storeID)
	if err != nil {
		return false, err
	}
	kept := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return false, nil
	}
	return true, s.setJSON(ctx, Key(KindOrders, storeID), kept)
}

func (s *RedisStore) GetImageMap(ctx context.Context, storeID string) (models.ImageMap, error) {
	images := models.ImageMap{}
	if _, err := s.getJSON(ctx, Key(KindImages, storeID), &images); err != nil {
		return nil, err
	}
	if images == nil {
		images = models.ImageMap{}
	}
	return images, nil
}

func (s *RedisStore) SetImageMap(ctx context.Context, storeID string, images models.ImageMap) error {
	if images == nil {
		images = models.ImageMap{}
	}
	return s.setJSON(ctx, Key(KindImages, storeID), images)
}

func (s *RedisStore) ImageStoreIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, KindImages+"_*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), KindImages+"_"))
	}
	return ids, iter.Err()
}

func (s *RedisStore) GetPromo(ctx context.Context, storeID string) (models.Promo, error) {
	var promo models.Promo
	if _, err := s.getJSON(ctx, Key(KindPromo, storeID), &promo); err != nil {
		return models.Promo{}, err
	}
	return promo, nil
}

func (s *RedisStore) SetPromo(ctx context.Context, storeID string, promo models.Promo) (models.Promo, error) {
	promo = normalizePromo(promo)
	return promo, s.setJSON(ctx, Key(KindPromo, storeID), promo)
}

func (s *RedisStore) GetBrand(ctx context.Context, storeID string) (models.Brand, bool, error) {
	var brand models.Brand
	found, err := s.getJSON(ctx, Key(KindBrand, storeID), &brand)
	return brand, found, err
}

func (s *RedisStore) SetBrand(ctx context.Context, storeID string, brand models.Brand) (models.Brand, error) {
	now := s.now().UTC()
	brand.UpdatedAt = &now
	return brand, s.setJSON(ctx, Key(KindBrand, storeID), brand)
}

func (s *RedisStore) AuditLog(ctx context.Context, entry models.AuditEntry) error {
	if entry.TS.IsZero() {
		entry.TS = s.now()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, redisAuditKey, line).Err()
}

func (s *RedisStore) ReadAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	lines, err := s.client.LRange(ctx, redisAuditKey, start, -1).Result()
	if err != nil {
		return nil, err
	}
	all := make([]models.AuditEntry, 0, len(lines))
	for _, l := range lines {
		var e models.AuditEntry
		if err := json.Unmarshal([]byte(l), &e); err != nil {
			continue
		}
		all = append(all, e)
	}
	return newestFirst(all, limit), nil
}

func (s *RedisStore) IncrementPreferred(ctx context.Context, storeID string) (int64, error) {
	return s.client.HIncrBy(ctx, redisPreferredKey, storeID, 1).Result()
}

func (s *RedisStore) PreferredCounts(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, redisPreferredKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for id, v := range raw {
		if n, err := cast.ToInt64E(v); err == nil {
			out[id] = n
		}
	}
	return out, nil
}
