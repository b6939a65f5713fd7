package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/activity"
	"github.com/nguyentranbao-ct/reuse/internal/repo/catalog"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
	"github.com/nguyentranbao-ct/reuse/pkg/ctxval"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

// maxMockRetries bounds how many times a failed read is retried against the mock tier.
const maxMockRetries = 1

type productUsecase struct {
	selector SourceSelector
	catalog  catalog.Client
	store    store.Store
	recorder activity.Recorder
	log      *zap.SugaredLogger
}

func NewProductUsecase(selector SourceSelector, catalogClient catalog.Client, st store.Store, recorder activity.Recorder) ProductUsecase {
	return &productUsecase{
		selector: selector,
		catalog:  catalogClient,
		store:    st,
		recorder: recorder,
		log:      logger.MustNamed("product_usecase"),
	}
}

func (uc *productUsecase) ListProducts(ctx context.Context, filters models.ProductFilters) (*models.ProductPage, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	src, _ := uc.selector.Probe(ctx)
	token := uc.bearer(ctx, src)

	var candidates []models.Product
	for attempt := 0; ; attempt++ {
		products, err := uc.catalog.ListProducts(ctx, src, token)
		if err == nil {
			candidates = products
			break
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("list products: %w", ctx.Err())
		}
		if src.UseMock() || attempt >= maxMockRetries {
			return nil, fmt.Errorf("list products from %s source: %w", src.Tier, err)
		}
		uc.fallback(ctx, src, err)
		src = models.MockSource()
	}

	ctxval.Set(ctx, SourceTierKey, src.Tier)
	page := buildPage(candidates, filters)
	page.Source = src.Tier
	return page, nil
}

func (uc *productUsecase) GetProductDetails(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id is required", models.ErrInvalidInput)
	}

	src, _ := uc.selector.Probe(ctx)
	token := uc.bearer(ctx, src)

	for attempt := 0; ; attempt++ {
		product, err := uc.catalog.GetProduct(ctx, src, token, id)
		if err == nil {
			ctxval.Set(ctx, SourceTierKey, src.Tier)
			return product, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("get product %s: %w", id, ctx.Err())
		}
		if src.UseMock() || attempt >= maxMockRetries {
			return nil, fmt.Errorf("get product %s from %s source: %w", id, src.Tier, err)
		}
		uc.fallback(ctx, src, err)
		src = models.MockSource()
	}
}

func (uc *productUsecase) fallback(ctx context.Context, from models.SourceConfig, cause error) {
	uc.log.Warnw("product source failed, falling back to mock data", "tier", from.Tier, "error", cause)
	if err := uc.recorder.Record(ctx, models.Activity{
		Action: models.ActivityMockFallback,
		Tier:   from.Tier,
		Detail: cause.Error(),
	}); err != nil {
		uc.log.Errorw("failed to record mock fallback", "error", err)
	}
}

// bearer returns the stored token for canonical sources, which accept authenticated reads.
// Reads never fail because the store does.
func (uc *productUsecase) bearer(ctx context.Context, src models.SourceConfig) string {
	if src.Shape != models.ShapeCanonical {
		return ""
	}
	token, _, err := uc.store.Get(ctx, store.KeyUserToken)
	if err != nil {
		uc.log.Warnw("failed to read stored token", "error", err)
		return ""
	}
	return token
}
