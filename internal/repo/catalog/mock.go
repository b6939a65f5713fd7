package catalog

import (
	"slices"
	"time"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var mockProducts = []models.Product{
	{
		ID:          "1",
		Name:        "Smartphone Samsung Galaxy",
		Description: "Smartphone Samsung Galaxy em ótimo estado, apenas 1 ano de uso",
		Price:       800,
		Location:    models.Location{State: "SP", City: "São Paulo"},
		Category:    "Eletrônicos",
		Condition:   "Usado",
		Images:      []string{"/mock/smartphone.jpg"},
		OwnerID:     "user1",
		OwnerName:   "João Silva",
		CreatedAt:   mustTime("2025-01-15T10:30:00Z"),
		UpdatedAt:   mustTime("2025-01-15T10:30:00Z"),
	},
	{
		ID:          "2",
		Name:        "Bicicleta Mountain Bike",
		Description: "Bicicleta Mountain Bike aro 29, freios a disco, 21 marchas",
		Price:       1200,
		Location:    models.Location{State: "RJ", City: "Rio de Janeiro"},
		Category:    "Esportes",
		Condition:   "Usado",
		Images:      []string{"/mock/bike.jpg"},
		OwnerID:     "user2",
		OwnerName:   "Maria Oliveira",
		CreatedAt:   mustTime("2025-02-10T14:45:00Z"),
		UpdatedAt:   mustTime("2025-02-10T14:45:00Z"),
	},
	{
		ID:          "3",
		Name:        "Livro - Dom Casmurro",
		Description: "Livro em bom estado, edição de colecionador",
		Price:       45,
		Location:    models.Location{State: "MG", City: "Belo Horizonte"},
		Category:    "Livros",
		Condition:   "Usado",
		Images:      []string{"/mock/book.jpg"},
		OwnerID:     "user3",
		OwnerName:   "Carlos Mendes",
		CreatedAt:   mustTime("2025-03-05T09:15:00Z"),
		UpdatedAt:   mustTime("2025-03-05T09:15:00Z"),
	},
}

// MockProducts returns a fresh copy of the built-in dataset, in its fixed order.
func MockProducts() []models.Product {
	out := make([]models.Product, len(mockProducts))
	for i, p := range mockProducts {
		p.Images = slices.Clone(p.Images)
		out[i] = p
	}
	return out
}

func findMockProduct(id string) (*models.Product, bool) {
	for _, p := range MockProducts() {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}
