package usecase

import (
	"strings"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

// dedupeByID keeps the first product for each id, preserving order.
func dedupeByID(products []models.Product) []models.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

type predicate func(models.Product) bool

// predicates returns the active filters in the order they are applied: search, state, city,
// min price, max price, category, condition.
func predicates(f models.ProductFilters) []predicate {
	var ps []predicate
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		ps = append(ps, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q)
		})
	}
	if f.State != "" {
		ps = append(ps, func(p models.Product) bool {
			return strings.EqualFold(p.Location.State, f.State)
		})
	}
	if f.City != "" {
		q := strings.ToLower(f.City)
		ps = append(ps, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Location.City), q)
		})
	}
	if f.MinPrice != nil {
		minPrice := *f.MinPrice
		ps = append(ps, func(p models.Product) bool { return p.Price >= minPrice })
	}
	if f.MaxPrice != nil {
		maxPrice := *f.MaxPrice
		ps = append(ps, func(p models.Product) bool { return p.Price <= maxPrice })
	}
	if f.Category != "" {
		ps = append(ps, func(p models.Product) bool {
			return strings.EqualFold(p.Category, f.Category)
		})
	}
	if f.Condition != "" {
		ps = append(ps, func(p models.Product) bool {
			return strings.EqualFold(p.Condition, f.Condition)
		})
	}
	return ps
}

func applyFilters(products []models.Product, f models.ProductFilters) []models.Product {
	out := products
	for _, keep := range predicates(f) {
		next := make([]models.Product, 0, len(out))
		for _, p := range out {
			if keep(p) {
				next = append(next, p)
			}
		}
		out = next
	}
	return out
}

// buildPage filters candidates and cuts the requested window. filters must already be valid.
func buildPage(candidates []models.Product, f models.ProductFilters) *models.ProductPage {
	filtered := applyFilters(dedupeByID(candidates), f)
	page, limit := f.PageOrDefault(), f.LimitOrDefault()

	total := len(filtered)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	// page and limit may be large enough that (page-1)*limit overflows
	start, end := total, total
	if page-1 < pages {
		start = (page - 1) * limit
		end = start + min(limit, total-start)
	}

	window := make([]models.Product, end-start)
	copy(window, filtered[start:end])

	return &models.ProductPage{
		Products: window,
		Total:    total,
		Pages:    pages,
		Page:     page,
		Limit:    limit,
	}
}
