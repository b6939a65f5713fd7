package models

// CreateListingRequest is what an owner submits to publish a product.
type CreateListingRequest struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Description string   `json:"description" form:"description" validate:"required"`
	Price       float64  `json:"price" form:"price" validate:"gte=0"`
	State       string   `json:"state" form:"state" validate:"required"`
	City        string   `json:"city" form:"city" validate:"required"`
	Category    string   `json:"category" form:"category" validate:"required"`
	Condition   string   `json:"condition" form:"condition" validate:"required"`
	Images      []Upload `json:"-" form:"-"`
}

// UpdateListingRequest carries only the fields that change.
type UpdateListingRequest struct {
	Name        *string  `json:"name,omitempty" form:"name"`
	Description *string  `json:"description,omitempty" form:"description"`
	Price       *float64 `json:"price,omitempty" form:"price" validate:"omitempty,gte=0"`
	State       *string  `json:"state,omitempty" form:"state"`
	City        *string  `json:"city,omitempty" form:"city"`
	Category    *string  `json:"category,omitempty" form:"category"`
	Condition   *string  `json:"condition,omitempty" form:"condition"`
	Images      []Upload `json:"-" form:"-"`
}

type InterestResult struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

type ListingOverview struct {
	Mine       []Product `json:"mine" yaml:"mine"`
	Interested []Product `json:"interested" yaml:"interested"`
}
