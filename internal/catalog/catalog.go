// Package catalog contient les magasins et produits statiques et les
// surcharges (images, marque) appliquées à la lecture.
package catalog

import (
	"strings"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

var stores = []models.Store{
	{
		ID: "choppies", Slug: "choppies", Name: "Choppies",
		BrandColor: "#e53935", BrandStrong: "#a50008", BrandLight: "#ff7565",
		Logo:        "/images/choppies-attach.png",
		Description: "Local groceries and essentials, everyday value",
	},
	{
		ID: "thuso", Slug: "thuso", Name: "Thuso Wholesaler",
		BrandColor: "#0b5f3a", BrandStrong: "#002f0f", BrandLight: "#489269",
		Logo:        "/images/thuso-attach.png",
		Description: "Wholesale and bulk groceries",
	},
	{
		ID: "woolworths", Slug: "woolworths", Name: "Woolworths",
		BrandColor: "#111", BrandStrong: "#000000", BrandLight: "#3b3b3b",
		Logo:        "/images/woolworths-attach.png",
		Description: "Premium supermarket, quality and convenience",
	},
	{
		ID: "sefalana", Slug: "sefalana", Name: "Sefalana Cash & Carry",
		BrandColor: "#fbb316", BrandStrong: "#bd7f00", BrandLight: "#ffeb59",
		Logo:        "/images/sefalana-attach.png",
		Description: "Your family value store",
	},
}

var products = map[string][]models.Product{
	"choppies": {
		{ID: "p1", Name: "Apple", Price: 2.0, Image: "/images/apple.svg", Category: "Produce"},
		{ID: "p2", Name: "Milk", Price: 3.1, Image: "/images/milk.svg", Category: "Dairy"},
		{ID: "p3", Name: "Broccoli", Price: 2.4, Category: "Produce"},
	},
	"thuso": {
		{
			ID: "t1", Name: "Bulk Rice 10kg", Price: 25.0, Image: "/images/thuso-rice.svg", Category: "Grains",
			Description: "Commercial grade long-grain rice, packed in 10kg sacks for wholesale buyers.",
			BulkPricing: []models.Tier{{MinQty: 5, Price: 23.0}, {MinQty: 10, Price: 20.0}},
		},
		{
			ID: "t2", Name: "Cooking Oil 5L", Price: 18.5, Image: "/images/thuso-oil.svg", Category: "Oils",
			Description: "Refined cooking oil sold in 5L bottles, ideal for catering and small retailers.",
			BulkPricing: []models.Tier{{MinQty: 6, Price: 17.0}, {MinQty: 12, Price: 15.5}},
		},
		{
			ID: "t3", Name: "Sugar 10kg", Price: 12.0, Image: "/images/thuso-sugar.svg", Category: "Baking",
			Description: "Granulated sugar packed in 10kg bags for bakeries and stores.",
			BulkPricing: []models.Tier{{MinQty: 4, Price: 11.0}, {MinQty: 10, Price: 9.5}},
		},
	},
	"woolworths": {
		{ID: "w1", Name: "Bananas", Price: 1.6, Category: "Produce"},
		{ID: "w2", Name: "Yogurt", Price: 1.9, Category: "Dairy"},
	},
}

// Stores renvoie une copie de la liste des magasins
func Stores() []models.Store {
	out := make([]models.Store, len(stores))
	copy(out, stores)
	return out
}

// StoreIDs renvoie les identifiants de tous les magasins connus
func StoreIDs() []string {
	ids := make([]string, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	return ids
}

// FindStore cherche un magasin par id ou par slug (insensible à la casse)
func FindStore(idOrSlug string) (models.Store, bool) {
	key := strings.ToLower(strings.TrimSpace(idOrSlug))
	for _, s := range stores {
		if s.ID == key || s.Slug == key {
			return s, true
		}
	}
	return models.Store{}, false
}

// Products renvoie une copie des produits d'un magasin. ok est faux si le
// magasin est inconnu ; un magasin connu sans produit renvoie une liste vide.
func Products(storeID string) ([]models.Product, bool) {
	if _, ok := FindStore(storeID); !ok {
		return nil, false
	}
	src := products[storeID]
	out := make([]models.Product, len(src))
	for i, p := range src {
		out[i] = cloneProduct(p)
	}
	return out, true
}

// FindProduct cherche un produit d'un magasin par id exact
func FindProduct(storeID, productID string) (models.Product, bool) {
	for _, p := range products[storeID] {
		if p.ID == productID {
			return cloneProduct(p), true
		}
	}
	return models.Product{}, false
}

// WithImages applique la table d'images d'un magasin sur une liste de produits.
// La liste d'entrée n'est pas modifiée.
func WithImages(list []models.Product, images models.ImageMap) []models.Product {
	out := make([]models.Product, len(list))
	for i, p := range list {
		out[i] = p
		if ref, ok := images[p.ID]; ok && ref != "" {
			out[i].Image = ref
		}
	}
	return out
}

// ApplyBrand surcharge les couleurs et le logo d'un magasin avec la marque enregistrée
func ApplyBrand(s models.Store, b models.Brand) models.Store {
	if b.BrandColor != "" {
		s.BrandColor = b.BrandColor
	}
	if b.TextColor != "" {
		s.TextColor = b.TextColor
	}
	if b.Logo != "" {
		s.Logo = b.Logo
	}
	return s
}

// StaticImageRefs renvoie toutes les images référencées par le catalogue statique
// (images produits et logos), utilisé par le nettoyage des images orphelines.
func StaticImageRefs() []string {
	var refs []string
	for _, s := range stores {
		if s.Logo != "" {
			refs = append(refs, s.Logo)
		}
	}
	for _, list := range products {
		for _, p := range list {
			if p.Image != "" {
				refs = append(refs, p.Image)
			}
		}
	}
	return refs
}

func cloneProduct(p models.Product) models.Product {
	if p.BulkPricing != nil {
		tiers := make([]models.Tier, len(p.BulkPricing))
		copy(tiers, p.BulkPricing)
		p.BulkPricing = tiers
	}
	return p
}
