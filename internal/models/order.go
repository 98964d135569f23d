package models

import (
	"encoding/json"
	"time"

	"github.com/spf13/cast"
)

// RequestedItem est une ligne de commande telle qu'envoyée par le client,
// avant tarification. Qty reste brute (nombre, chaîne, null...).
type RequestedItem struct {
	ID  string      `json:"id"`
	Qty interface{} `json:"qty"`
}

// UnmarshalJSON accepte un id numérique ({"id": 7} devient "7")
func (it *RequestedItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID  interface{} `json:"id"`
		Qty interface{} `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.ID = cast.ToString(raw.ID)
	it.Qty = raw.Qty
	return nil
}

// OrderLine est figée au moment de la commande ; Price est le prix unitaire résolu
type OrderLine struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       float64 `json:"qty"`
	LineTotal float64 `json:"lineTotal"`
}

type Order struct {
	ID        string      `json:"id"`
	Items     []OrderLine `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
	Paid      bool        `json:"paid,omitempty"`
}
