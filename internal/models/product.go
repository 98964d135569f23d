package models

import "encoding/json"

// Tier est un palier de prix dégressif : à partir de MinQty unités, le prix unitaire devient Price
type Tier struct {
	MinQty float64 `json:"minQty"`
	Price  float64 `json:"price"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	BulkPricing []Tier  `json:"bulkPricing,omitempty"`
}

// MarshalJSON sérialise une image absente en null plutôt qu'en chaîne vide
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	var image *string
	if p.Image != "" {
		image = &p.Image
	}
	return json.Marshal(struct {
		plain
		Image *string `json:"image"`
	}{plain(p), image})
}

// ImageMap associe un productId à une référence d'image (chemin /images/... ou URL)
type ImageMap map[string]string
