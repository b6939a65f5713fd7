package models

import "time"

type Location struct {
	State string `json:"state" yaml:"state"`
	City  string `json:"city" yaml:"city"`
}

// Product is the canonical listing shape every source tier is converted into.
type Product struct {
	ID                  string    `json:"id" yaml:"id" validate:"required"`
	Name                string    `json:"name" yaml:"name" validate:"required"`
	Description         string    `json:"description" yaml:"description"`
	Price               float64   `json:"price" yaml:"price" validate:"gte=0"`
	Location            Location  `json:"location" yaml:"location"`
	Category            string    `json:"category" yaml:"category"`
	Condition           string    `json:"condition" yaml:"condition"`
	Images              []string  `json:"images" yaml:"images"`
	OwnerID             string    `json:"ownerId" yaml:"ownerId"`
	OwnerName           string    `json:"ownerName" yaml:"ownerName"`
	OwnerProfilePicture string    `json:"ownerProfilePicture,omitempty" yaml:"ownerProfilePicture,omitempty"`
	CreatedAt           time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type ProductPage struct {
	Products []Product  `json:"products" yaml:"products"`
	Total    int        `json:"total" yaml:"total"`
	Pages    int        `json:"pages" yaml:"pages"`
	Page     int        `json:"page" yaml:"page"`
	Limit    int        `json:"limit" yaml:"limit"`
	Source   SourceTier `json:"source" yaml:"source"`
}
