package models

import "time"

type Store struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	BrandColor  string `json:"brandColor"`
	BrandStrong string `json:"brandStrong,omitempty"`
	BrandLight  string `json:"brandLight,omitempty"`
	TextColor   string `json:"textColor,omitempty"`
	Logo        string `json:"logo"`
	Description string `json:"description,omitempty"`
}

// Brand est la surcharge de marque enregistrée depuis l'admin (brand_<storeId>)
type Brand struct {
	BrandColor string     `json:"brandColor"`
	TextColor  string     `json:"textColor,omitempty"`
	Logo       string     `json:"logo,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}
