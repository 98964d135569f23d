package models

import (
	"strings"
	"time"
)

// Formats acceptés pour startsAt / endsAt (champ datetime-local du formulaire ou RFC3339)
var promoTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

type Promo struct {
	Enabled  bool    `json:"enabled"`
	Text     string  `json:"text"`
	StartsAt *string `json:"startsAt"`
	EndsAt   *string `json:"endsAt"`
}

// ActiveAt indique si le bandeau doit être affiché à l'instant t.
// Une borne absente ou illisible est ignorée.
func (p Promo) ActiveAt(t time.Time) bool {
	if !p.Enabled {
		return false
	}
	if start, ok := parsePromoTime(p.StartsAt); ok && t.Before(start) {
		return false
	}
	if end, ok := parsePromoTime(p.EndsAt); ok && t.After(end) {
		return false
	}
	return true
}

func parsePromoTime(s *string) (time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, false
	}
	for _, layout := range promoTimeLayouts {
		if ts, err := time.ParseInLocation(layout, strings.TrimSpace(*s), time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
