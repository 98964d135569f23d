// Package pricing calcule les prix unitaires dégressifs et les totaux de commande.
// Toutes les fonctions sont pures et sûres en concurrence.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

var (
	ErrQuantityMissing   = errors.New("quantité manquante")
	ErrQuantityMalformed = errors.New("quantité invalide")
)

// LineTotal est le résultat de la tarification d'une ligne
type LineTotal struct {
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// ResolveUnitPrice renvoie le prix unitaire applicable pour qty.
// Les paliers sont triés par MinQty croissant (sur une copie) puis le dernier
// palier atteint l'emporte ; sans palier atteint, c'est le prix de base.
func ResolveUnitPrice(p models.Product, qty float64) float64 {
	unit := p.Price
	for _, t := range SortedTiers(p) {
		if qty >= t.MinQty {
			unit = t.Price
		}
	}
	return unit
}

// SortedTiers renvoie une copie des paliers triés par MinQty croissant
func SortedTiers(p models.Product) []models.Tier {
	if len(p.BulkPricing) == 0 {
		return nil
	}
	tiers := make([]models.Tier, len(p.BulkPricing))
	copy(tiers, p.BulkPricing)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinQty < tiers[j].MinQty })
	return tiers
}

// Currency est l'unique devise affichée par la vitrine
const Currency = "BWP"

// FormatBWP formate un montant pour l'affichage, ex. "BWP 23.00"
func FormatBWP(amount float64) string {
	if amount == 0 {
		amount = 0 // évite "-0.00"
	}
	return fmt.Sprintf("%s %.2f", Currency, amount)
}

// ComputeLineTotal applique ResolveUnitPrice et multiplie par qty
func ComputeLineTotal(p models.Product, qty float64) LineTotal {
	unit := ResolveUnitPrice(p, qty)
	return LineTotal{UnitPrice: unit, LineTotal: unit * qty}
}

// PriceOrderItems tarife chaque ligne demandée contre le catalogue du magasin.
// Un produit inconnu devient une ligne de remplacement (nom = id, prix 0).
func PriceOrderItems(products []models.Product, items []models.RequestedItem) ([]models.OrderLine, float64) {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]models.OrderLine, 0, len(items))
	var total float64
	for _, it := range items {
		p, ok := byID[it.ID]
		if !ok {
			p = models.Product{ID: it.ID, Name: it.ID, Price: 0}
		}
		qty := QuantityOrZero(it.Qty)
		lt := ComputeLineTotal(p, qty)
		lines = append(lines, models.OrderLine{
			ID:        it.ID,
			Name:      p.Name,
			Price:     lt.UnitPrice,
			Qty:       qty,
			LineTotal: lt.LineTotal,
		})
		total += lt.LineTotal
	}
	return lines, total
}

// ParseQuantity convertit une quantité brute (nombre JSON, chaîne de query...)
// en float64 fini et positif ou nul.
func ParseQuantity(v interface{}) (float64, error) {
	if v == nil {
		return 0, ErrQuantityMissing
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, ErrQuantityMissing
		}
		v = s
	}

	q, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQuantityMalformed, v)
	}
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return 0, fmt.Errorf("%w: %v", ErrQuantityMalformed, v)
	}
	return q, nil
}

// QuantityOrZero est la version "valeur par défaut" de ParseQuantity :
// toute quantité absente ou invalide vaut 0.
func QuantityOrZero(v interface{}) float64 {
	q, err := ParseQuantity(v)
	if err != nil {
		if errors.Is(err, ErrQuantityMalformed) {
			zap.S().Debugw("⚠️ quantité invalide, remplacée par 0", "qty", v)
		}
		return 0
	}
	return q
}
