package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/catalog"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
	"github.com/nguyentranbao-ct/reuse/pkg/ctxval"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

var primarySource = models.SourceConfig{
	Tier:         models.TierPrimary,
	BaseURL:      "http://primary.invalid",
	ProductsPath: "/products",
	Shape:        models.ShapeCanonical,
}

func product(id, name string, price float64, state, city string) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Location: models.Location{State: state, City: city},
		Category: "Diversos",
		Images:   []string{},
	}
}

func sampleCandidates() []models.Product {
	return []models.Product{
		product("1", "Mountain Bike", 1200, "RJ", "Rio de Janeiro"),
		product("2", "Dom Casmurro", 45, "MG", "Belo Horizonte"),
		product("3", "Bike helmet", 150, "SP", "São Paulo"),
		product("4", "Sofá retrátil", 900, "SP", "São José dos Campos"),
		product("5", "Road bike", 2500, "RS", "Porto Alegre"),
		product("6", "Notebook", 3100, "sp", "Campinas"),
	}
}

func newProductUsecase(sel SourceSelector, cat catalog.Client, st store.Store, rec *fakeRecorder) ProductUsecase {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if rec == nil {
		rec = &fakeRecorder{}
	}
	return NewProductUsecase(sel, cat, st, rec)
}

func TestListProducts_BikeExample(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = []models.Product{
		product("1", "Mountain Bike", 1200, "RJ", "Rio de Janeiro"),
		product("2", "Dom Casmurro", 45, "MG", "Belo Horizonte"),
	}
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	page, err := uc.ListProducts(context.Background(), models.ProductFilters{
		Search:   "bike",
		MinPrice: util.Ptr(0.0),
		MaxPrice: util.Ptr(2000.0),
		Page:     util.Ptr(1),
		Limit:    util.Ptr(10),
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Mountain Bike", page.Products[0].Name)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Pages)
	assert.Equal(t, models.TierPrimary, page.Source)
}

func TestListProducts_SecondPageOfThree(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = sampleCandidates()
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	page, err := uc.ListProducts(context.Background(), models.ProductFilters{
		Search: "bike",
		Page:   util.Ptr(2),
		Limit:  util.Ptr(1),
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "3", page.Products[0].ID)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 3, page.Pages)
}

func TestListProducts_FilterSemantics(t *testing.T) {
	tests := []struct {
		name    string
		filters models.ProductFilters
		want    []string
	}{
		{name: "no filters", filters: models.ProductFilters{}, want: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "state is case-insensitive equality", filters: models.ProductFilters{State: "SP"}, want: []string{"3", "4", "6"}},
		{name: "city is substring", filters: models.ProductFilters{City: "são"}, want: []string{"3", "4"}},
		{name: "price bounds are inclusive", filters: models.ProductFilters{MinPrice: util.Ptr(150.0), MaxPrice: util.Ptr(1200.0)}, want: []string{"1", "3", "4"}},
		{name: "search ignores case", filters: models.ProductFilters{Search: "CASMURRO"}, want: []string{"2"}},
		{name: "category", filters: models.ProductFilters{Category: "diversos", MaxPrice: util.Ptr(100.0)}, want: []string{"2"}},
		{name: "condition matches nothing", filters: models.ProductFilters{Condition: "Novo"}, want: []string{}},
		{name: "combined", filters: models.ProductFilters{Search: "bike", State: "rs"}, want: []string{"5"}},
		{name: "inverted price range is empty", filters: models.ProductFilters{MinPrice: util.Ptr(2000.0), MaxPrice: util.Ptr(100.0)}, want: []string{}},
		{name: "negative min price keeps everything", filters: models.ProductFilters{MinPrice: util.Ptr(-1.0)}, want: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "negative max price keeps nothing", filters: models.ProductFilters{MaxPrice: util.Ptr(-1.0)}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newStubCatalog()
			cat.products[models.TierPrimary] = sampleCandidates()
			uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

			page, err := uc.ListProducts(context.Background(), tt.filters)
			require.NoError(t, err)
			ids := make([]string, 0, len(page.Products))
			for _, p := range page.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestListProducts_PaginationCompleteness(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = sampleCandidates()
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	for limit := 1; limit <= 7; limit++ {
		first, err := uc.ListProducts(context.Background(), models.ProductFilters{Limit: util.Ptr(limit)})
		require.NoError(t, err)
		assert.Equal(t, (first.Total+limit-1)/limit, first.Pages)

		var seen []string
		for page := 1; page <= first.Pages; page++ {
			res, err := uc.ListProducts(context.Background(), models.ProductFilters{Page: util.Ptr(page), Limit: util.Ptr(limit)})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(res.Products), limit)
			for _, p := range res.Products {
				seen = append(seen, p.ID)
			}
		}
		assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, seen, "limit %d", limit)

		beyond, err := uc.ListProducts(context.Background(), models.ProductFilters{Page: util.Ptr(first.Pages + 1), Limit: util.Ptr(limit)})
		require.NoError(t, err)
		assert.Empty(t, beyond.Products)
		assert.Equal(t, first.Total, beyond.Total)
	}
}

func TestListProducts_HugePageAndLimit(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = sampleCandidates()
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	all, err := uc.ListProducts(context.Background(), models.ProductFilters{Limit: util.Ptr(math.MaxInt)})
	require.NoError(t, err)
	assert.Equal(t, 6, all.Total)
	assert.Equal(t, 1, all.Pages)
	assert.Len(t, all.Products, 6)

	tests := []struct {
		page, limit int
		wantPages   int
	}{
		{page: 1 << 62, limit: 4, wantPages: 2},
		{page: math.MaxInt, limit: math.MaxInt, wantPages: 1},
		{page: 2, limit: math.MaxInt, wantPages: 1},
	}
	for _, tt := range tests {
		page, err := uc.ListProducts(context.Background(), models.ProductFilters{Page: util.Ptr(tt.page), Limit: util.Ptr(tt.limit)})
		require.NoError(t, err)
		assert.Empty(t, page.Products)
		assert.Equal(t, 6, page.Total)
		assert.Equal(t, tt.wantPages, page.Pages)
		assert.Equal(t, tt.page, page.Page)
	}
}

func TestListProducts_DedupesByID(t *testing.T) {
	cat := newStubCatalog()
	first := product("1", "first", 10, "SP", "São Paulo")
	dup := product("1", "duplicate", 20, "SP", "São Paulo")
	cat.products[models.TierPrimary] = []models.Product{first, dup, product("2", "other", 5, "RJ", "Rio de Janeiro")}
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	page, err := uc.ListProducts(context.Background(), models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "first", page.Products[0].Name)
}

func TestListProducts_InvalidFiltersSkipNetwork(t *testing.T) {
	sel := &fixedSelector{source: primarySource}
	cat := newStubCatalog()
	uc := newProductUsecase(sel, cat, nil, nil)

	for _, f := range []models.ProductFilters{
		{Limit: util.Ptr(0)},
		{Page: util.Ptr(-1)},
		{Page: util.Ptr(0), Limit: util.Ptr(5)},
	} {
		_, err := uc.ListProducts(context.Background(), f)
		assert.ErrorIs(t, err, models.ErrInvalidFilters)
	}
	assert.Zero(t, sel.probes)
	assert.Empty(t, cat.calls)
}

func TestListProducts_FallsBackToMockOnce(t *testing.T) {
	cat := newStubCatalog()
	cat.errs[models.TierPrimary] = errors.New("connection reset")
	cat.products[models.TierMock] = catalog.MockProducts()
	rec := &fakeRecorder{}
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, rec)

	ctx := ctxval.Wrap(context.Background())
	page, err := uc.ListProducts(ctx, models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, models.TierMock, page.Source)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, []models.SourceTier{models.TierPrimary, models.TierMock}, cat.calls)
	assert.Equal(t, []models.ActivityAction{models.ActivityMockFallback}, rec.actions())

	tier, ok := ctxval.Get(ctx, SourceTierKey)
	assert.True(t, ok)
	assert.Equal(t, models.TierMock, tier)
}

func TestListProducts_MockFailureIsReturned(t *testing.T) {
	cat := newStubCatalog()
	cat.errs[models.TierPrimary] = errors.New("primary down")
	cat.errs[models.TierMock] = errors.New("mock broken")
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	_, err := uc.ListProducts(context.Background(), models.ProductFilters{})
	assert.ErrorContains(t, err, "mock broken")
	assert.Equal(t, []models.SourceTier{models.TierPrimary, models.TierMock}, cat.calls)

	cat.calls = nil
	uc = newProductUsecase(&fixedSelector{source: models.MockSource()}, cat, nil, nil)
	_, err = uc.ListProducts(context.Background(), models.ProductFilters{})
	assert.Error(t, err)
	assert.Equal(t, []models.SourceTier{models.TierMock}, cat.calls)
}

func TestListProducts_EmptyRemoteStaysEmpty(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = []models.Product{}
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	page, err := uc.ListProducts(context.Background(), models.ProductFilters{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Pages)
	assert.Empty(t, page.Products)
	assert.Equal(t, models.TierPrimary, page.Source)
	assert.Equal(t, []models.SourceTier{models.TierPrimary}, cat.calls)
}

func TestListProducts_CanceledContextDoesNotFallBack(t *testing.T) {
	cat := newStubCatalog()
	cat.errs[models.TierPrimary] = context.Canceled
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := uc.ListProducts(ctx, models.ProductFilters{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []models.SourceTier{models.TierPrimary}, cat.calls)
}

func TestListProducts_SendsStoredTokenToCanonicalSource(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(), store.Entry{Key: store.KeyUserToken, Value: "tok"}))
	cat := newStubCatalog()
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, st, nil)

	_, err := uc.ListProducts(context.Background(), models.ProductFilters{})
	require.NoError(t, err)

	external := primarySource
	external.Tier, external.Shape = models.TierSecondary, models.ShapeExternal
	uc = newProductUsecase(&fixedSelector{source: external}, cat, st, nil)
	_, err = uc.ListProducts(context.Background(), models.ProductFilters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"tok", ""}, cat.tokens)
}

func TestListProducts_StoreFailureDoesNotBreakReads(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = sampleCandidates()
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, brokenStore{}, nil)

	page, err := uc.ListProducts(context.Background(), models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)
}

// Against a canonical source the whole page is stable across calls. Against an external source
// that is normalized, identity and order are stable but the synthetic fields (location, condition,
// owner, createdAt) are redrawn on every fetch, so location filters may select different products.
// A normalizer re-seeded with the same value restores full determinism.
func TestListProducts_Idempotence(t *testing.T) {
	t.Run("canonical source", func(t *testing.T) {
		cat := newStubCatalog()
		cat.products[models.TierPrimary] = sampleCandidates()
		uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

		f := models.ProductFilters{State: "sp", Limit: util.Ptr(2)}
		a, err := uc.ListProducts(context.Background(), f)
		require.NoError(t, err)
		b, err := uc.ListProducts(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Backpack","price":109.95},
			{"id":2,"title":"T-Shirt","price":22.3},
			{"id":3,"title":"Jacket","price":55.99},
			{"id":4,"title":"Ring","price":9.99}
		]`))
	}))
	defer srv.Close()
	external := models.SourceConfig{Tier: models.TierSecondary, BaseURL: srv.URL, ProductsPath: "/", Shape: models.ShapeExternal}
	now := func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	newClient := func(n *catalog.Normalizer) catalog.Client {
		return catalog.NewClient(util.NewRestyClient(util.RestyOptions{}), n, validator.New(), catalog.Options{})
	}

	t.Run("external source keeps identity but not synthetic fields", func(t *testing.T) {
		uc := newProductUsecase(&fixedSelector{source: external}, newClient(catalog.NewNormalizer(catalog.WithClock(now))), nil, nil)

		f := models.ProductFilters{MaxPrice: util.Ptr(60.0)}
		a, err := uc.ListProducts(context.Background(), f)
		require.NoError(t, err)
		b, err := uc.ListProducts(context.Background(), f)
		require.NoError(t, err)

		assert.Equal(t, a.Total, b.Total)
		assert.Equal(t, a.Pages, b.Pages)
		for i := range a.Products {
			assert.Equal(t, a.Products[i].ID, b.Products[i].ID)
			assert.Equal(t, a.Products[i].Name, b.Products[i].Name)
		}
	})

	t.Run("external source with re-seeded normalizer", func(t *testing.T) {
		f := models.ProductFilters{State: "SP"}
		a, err := newProductUsecase(&fixedSelector{source: external},
			newClient(catalog.NewNormalizer(catalog.WithSeed(11), catalog.WithClock(now))), nil, nil).
			ListProducts(context.Background(), f)
		require.NoError(t, err)
		b, err := newProductUsecase(&fixedSelector{source: external},
			newClient(catalog.NewNormalizer(catalog.WithSeed(11), catalog.WithClock(now))), nil, nil).
			ListProducts(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestGetProductDetails(t *testing.T) {
	cat := newStubCatalog()
	cat.products[models.TierPrimary] = sampleCandidates()
	cat.products[models.TierMock] = catalog.MockProducts()
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, nil)

	p, err := uc.GetProductDetails(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "Sofá retrátil", p.Name)

	_, err = uc.GetProductDetails(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGetProductDetails_Fallback(t *testing.T) {
	cat := newStubCatalog()
	cat.errs[models.TierPrimary] = errors.New("timeout")
	cat.products[models.TierMock] = catalog.MockProducts()
	rec := &fakeRecorder{}
	uc := newProductUsecase(&fixedSelector{source: primarySource}, cat, nil, rec)

	p, err := uc.GetProductDetails(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Livro - Dom Casmurro", p.Name)
	assert.Equal(t, []models.ActivityAction{models.ActivityMockFallback}, rec.actions())

	_, err = uc.GetProductDetails(context.Background(), "404")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}
