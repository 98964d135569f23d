package models

import "time"

type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type CartItem struct {
	ID  string  `json:"id"`
	Qty float64 `json:"qty"`
}

// EmptyCart est la valeur renvoyée quand aucun panier n'a encore été enregistré
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}
