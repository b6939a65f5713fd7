package models

import (
	"fmt"

	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ProductFilters narrows a product listing. A nil pointer or empty string means no constraint.
type ProductFilters struct {
	Search    string   `json:"search,omitempty" query:"search" yaml:"search,omitempty"`
	State     string   `json:"state,omitempty" query:"state" yaml:"state,omitempty"`
	City      string   `json:"city,omitempty" query:"city" yaml:"city,omitempty"`
	MinPrice  *float64 `json:"minPrice,omitempty" query:"minPrice" yaml:"minPrice,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty" query:"maxPrice" yaml:"maxPrice,omitempty"`
	Category  string   `json:"category,omitempty" query:"category" yaml:"category,omitempty"`
	Condition string   `json:"condition,omitempty" query:"condition" yaml:"condition,omitempty"`
	Page      *int     `json:"page,omitempty" query:"page" yaml:"page,omitempty"`
	Limit     *int     `json:"limit,omitempty" query:"limit" yaml:"limit,omitempty"`
}

// Validate rejects page and limit values that cannot address a page. Price bounds only narrow the
// result, so an empty or inverted range yields an empty page rather than an error.
func (f ProductFilters) Validate() error {
	if f.Limit != nil && *f.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidFilters, *f.Limit)
	}
	if f.Page != nil && *f.Page <= 0 {
		return fmt.Errorf("%w: page must be positive, got %d", ErrInvalidFilters, *f.Page)
	}
	return nil
}

func (f ProductFilters) PageOrDefault() int {
	return util.ValOr(f.Page, DefaultPage)
}

func (f ProductFilters) LimitOrDefault() int {
	return util.ValOr(f.Limit, DefaultLimit)
}
