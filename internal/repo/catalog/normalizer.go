package catalog

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

const (
	defaultName           = "Produto sem nome"
	defaultDescription    = "Sem descrição disponível"
	defaultCategory       = "Diversos"
	defaultImage          = "/mock/default.jpg"
	defaultProfilePicture = "/mock/profile.jpg"

	ownerIDSpan    = 10
	createdAtSpanD = 30
)

var (
	locations = []models.Location{
		{State: "SP", City: "São Paulo"},
		{State: "RJ", City: "Rio de Janeiro"},
		{State: "MG", City: "Belo Horizonte"},
		{State: "RS", City: "Porto Alegre"},
		{State: "PR", City: "Curitiba"},
	}
	conditions = []string{
		"Novo",
		"Usado - Como novo",
		"Usado - Bom estado",
		"Usado - Com marcas de uso",
	}
	ownerNames = []string{
		"João Silva",
		"Maria Oliveira",
		"Carlos Mendes",
		"Ana Santos",
		"Pedro Alves",
	}
)

// ExternalProduct is the minimal product shape served by the secondary source.
// Every field is optional.
type ExternalProduct struct {
	ID          string
	Title       string
	Price       *float64
	Description string
	Category    string
	Image       string
}

// Normalizer fills the fields the external shape does not carry with plausible synthetic values.
// The synthetic values come from its generator, so two runs only agree when both start from the same seed.
type Normalizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

type NormalizerOption func(*Normalizer)

func WithSeed(seed uint64) NormalizerOption {
	return func(n *Normalizer) {
		n.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		n.now = now
	}
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize never fails. index is the position of raw in its source list and backs a missing id.
func (n *Normalizer) Normalize(raw ExternalProduct, index int) models.Product {
	n.mu.Lock()
	loc := locations[n.rng.IntN(len(locations))]
	condition := conditions[n.rng.IntN(len(conditions))]
	ownerID := fmt.Sprintf("user%d", n.rng.IntN(ownerIDSpan)+1)
	ownerName := ownerNames[n.rng.IntN(len(ownerNames))]
	ageDays := n.rng.IntN(createdAtSpanD)
	n.mu.Unlock()

	now := n.now()

	id := raw.ID
	if id == "" {
		id = strconv.Itoa(index + 1)
	}
	price := 0.0
	if raw.Price != nil && *raw.Price > 0 {
		price = *raw.Price
	}

	return models.Product{
		ID:                  id,
		Name:                orDefault(raw.Title, defaultName),
		Description:         orDefault(raw.Description, defaultDescription),
		Price:               price,
		Location:            loc,
		Category:            orDefault(raw.Category, defaultCategory),
		Condition:           condition,
		Images:              []string{orDefault(raw.Image, defaultImage)},
		OwnerID:             ownerID,
		OwnerName:           ownerName,
		OwnerProfilePicture: defaultProfilePicture,
		CreatedAt:           now.AddDate(0, 0, -ageDays),
		UpdatedAt:           now,
	}
}

func (n *Normalizer) NormalizeAll(raws []ExternalProduct) []models.Product {
	products := make([]models.Product, len(raws))
	for i, raw := range raws {
		products[i] = n.Normalize(raw, i)
	}
	return products
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
