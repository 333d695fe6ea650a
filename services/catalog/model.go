package catalog

import (
	"github.com/shopspring/decimal"
)

type Category struct {
	UID         string `json:"uid" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// Product is immutable reference data: it is loaded once and never changed afterwards.
type Product struct {
	UID           string              `json:"uid" validate:"required"`
	Title         string              `json:"title" validate:"required"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price" validate:"gte=0"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice" validate:"omitempty,gte=0"`
	Category      string              `json:"category" validate:"required"`
	Images        []string            `json:"images" validate:"min=1,dive,required"`
	Featured      bool                `json:"featured"`
	Rating        float64             `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int                 `json:"reviews" validate:"gte=0"`
	Badge         string              `json:"badge,omitempty"`
}

func (p Product) IsDiscounted() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

func (p Product) clone() Product {
	p.Images = append([]string{}, p.Images...)
	return p
}

type CategorySummary struct {
	Category
	ProductCount int `json:"productCount"`
}

type ProductDetail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}

type document struct {
	Categories []Category `json:"categories" validate:"dive"`
	Products   []Product  `json:"products" validate:"dive"`
}
