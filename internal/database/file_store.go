package database

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

const (
	auditFile       = "audit.log"
	preferredCounts = "preferred_counts"
)

// FileStore enregistre chaque document dans <dir>/<clé>.json
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("création du répertoire de données: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir renvoie le répertoire de données
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// readJSON lit un document. Un fichier absent ou illisible est traité comme absent.
func (s *FileStore) readJSON(name string, v interface{}) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		zap.S().Warnf("⚠️ Document %s illisible, ignoré: %v", name, err)
		return false, nil
	}
	return true, nil
}

// writeJSON écrit dans un fichier temporaire du même répertoire puis le
// renomme sur la cible
func (s *FileStore) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(s.path(name), data, 0o644, renameio.WithTempDir(s.dir))
}

func (s *FileStore) GetCart(_ context.Context, storeID string) (models.Cart, error) {
	cart := models.EmptyCart()
	found, err := s.readJSON(Key(KindCart, storeID), &cart)
	if err != nil || !found {
		return models.EmptyCart(), err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func (s *FileStore) SaveCart(_ context.Context, storeID string, items []models.CartItem) (models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	now := s.now().UTC()
	cart := models.Cart{Items: items, UpdatedAt: &now}
	if err := s.writeJSON(Key(KindCart, storeID), cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (s *FileStore) DeleteCart(_ context.Context, storeID string) error {
	err := os.Remove(s.path(Key(KindCart, storeID)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) ListOrders(_ context.Context, storeID string) ([]models.Order, error) {
	return s.listOrders(storeID)
}

func (s *FileStore) listOrders(storeID string) ([]models.Order, error) {
	orders := []models.Order{}
	if _, err := s.readJSON(Key(KindOrders, storeID), &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *FileStore) AddOrder(_ context.Context, storeID string, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.listOrders(storeID)
	if err != nil {
		return models.Order{}, err
	}
	orders = append(orders, order)
	if err := s.writeJSON(Key(KindOrders, storeID), orders); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *FileStore) GetOrder(_ context.Context, storeID, orderID string) (models.Order, error) {
	orders, err := s.listOrders(storeID)
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

func (s *FileStore) DeleteOrder(_ context.Context, storeID, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.listOrders(storeID)
	if err != nil {
		return false, err
	}
	kept := orders[:0]
	removed := false
	for _, o := range orders {
		if o.ID == orderID {
			removed = true
			continue
		}
		kept = append(kept, o)
	}
	if !removed {
		return false, nil
	}
	return true, s.writeJSON(Key(KindOrders, storeID), kept)
}

func (s *FileStore) GetImageMap(_ context.Context, storeID string) (models.ImageMap, error) {
	images := models.ImageMap{}
	if _, err := s.readJSON(Key(KindImages, storeID), &images); err != nil {
		return nil, err
	}
	if images == nil {
		images = models.ImageMap{}
	}
	return images, nil
}

func (s *FileStore) SetImageMap(_ context.Context, storeID string, images models.ImageMap) error {
	if images == nil {
		images = models.ImageMap{}
	}
	return s.writeJSON(Key(KindImages, storeID), images)
}

// ImageStoreIDs liste les magasins possédant une table d'images
func (s *FileStore) ImageStoreIDs(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, KindImages+"_*.json"))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".json")
		ids = append(ids, strings.TrimPrefix(base, KindImages+"_"))
	}
	return ids, nil
}

func (s *FileStore) GetPromo(_ context.Context, storeID string) (models.Promo, error) {
	var promo models.Promo
	if _, err := s.readJSON(Key(KindPromo, storeID), &promo); err != nil {
		return models.Promo{}, err
	}
	return promo, nil
}

func (s *FileStore) SetPromo(_ context.Context, storeID string, promo models.Promo) (models.Promo, error) {
	promo = normalizePromo(promo)
	return promo, s.writeJSON(Key(KindPromo, storeID), promo)
}

func (s *FileStore) GetBrand(_ context.Context, storeID string) (models.Brand, bool, error) {
	var brand models.Brand
	found, err := s.readJSON(Key(KindBrand, storeID), &brand)
	return brand, found, err
}

func (s *FileStore) SetBrand(_ context.Context, storeID string, brand models.Brand) (models.Brand, error) {
	now := s.now().UTC()
	brand.UpdatedAt = &now
	return brand, s.writeJSON(Key(KindBrand, storeID), brand)
}

// AuditLog ajoute une ligne JSON à audit.log
func (s *FileStore) AuditLog(_ context.Context, entry models.AuditEntry) error {
	if entry.TS.IsZero() {
		entry.TS = s.now()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, auditFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

// ReadAudit renvoie au plus limit entrées, les plus récentes d'abord.
// Les lignes illisibles sont ignorées.
func (s *FileStore) ReadAudit(_ context.Context, limit int) ([]models.AuditEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, auditFile))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.AuditEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var all []models.AuditEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e models.AuditEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		all = append(all, e)
	}
	return newestFirst(all, limit), nil
}

type preferredCount struct {
	Count int64 `json:"count"`
}

func (s *FileStore) IncrementPreferred(_ context.Context, storeID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]preferredCount{}
	if _, err := s.readJSON(preferredCounts, &counts); err != nil {
		return 0, err
	}
	if counts == nil {
		counts = map[string]preferredCount{}
	}
	c := counts[storeID]
	c.Count++
	counts[storeID] = c
	return c.Count, s.writeJSON(preferredCounts, counts)
}

func (s *FileStore) PreferredCounts(_ context.Context) (map[string]int64, error) {
	counts := map[string]preferredCount{}
	if _, err := s.readJSON(preferredCounts, &counts); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(counts))
	for id, c := range counts {
		out[id] = c.Count
	}
	return out, nil
}

func normalizePromo(p models.Promo) models.Promo {
	if p.StartsAt != nil && strings.TrimSpace(*p.StartsAt) == "" {
		p.StartsAt = nil
	}
	if p.EndsAt != nil && strings.TrimSpace(*p.EndsAt) == "" {
		p.EndsAt = nil
	}
	return p
}

func newestFirst(all []models.AuditEntry, limit int) []models.AuditEntry {
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]models.AuditEntry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out
}
