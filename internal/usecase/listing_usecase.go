package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/listings"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
)

type listingUsecase struct {
	api      listings.Client
	store    store.Store
	validate *validator.Validate
}

func NewListingUsecase(api listings.Client, st store.Store, validate *validator.Validate) ListingUsecase {
	return &listingUsecase{api: api, store: st, validate: validate}
}

func (uc *listingUsecase) CreateListing(ctx context.Context, req models.CreateListingRequest) (*models.Product, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	p, err := uc.api.Create(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return p, nil
}

func (uc *listingUsecase) UpdateListing(ctx context.Context, id string, req models.UpdateListingRequest) (*models.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: listing id is required", models.ErrInvalidInput)
	}
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	p, err := uc.api.Update(ctx, token, id, req)
	if err != nil {
		return nil, fmt.Errorf("update listing %s: %w", id, err)
	}
	return p, nil
}

func (uc *listingUsecase) DeleteListing(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: listing id is required", models.ErrInvalidInput)
	}
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return err
	}
	if err := uc.api.Delete(ctx, token, id); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

func (uc *listingUsecase) ShowInterest(ctx context.Context, id string) (*models.InterestResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: listing id is required", models.ErrInvalidInput)
	}
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	res, err := uc.api.ShowInterest(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("show interest in %s: %w", id, err)
	}
	return res, nil
}

func (uc *listingUsecase) MyListings(ctx context.Context) ([]models.Product, error) {
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	products, err := uc.api.Mine(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("my listings: %w", err)
	}
	return products, nil
}

func (uc *listingUsecase) InterestedListings(ctx context.Context) ([]models.Product, error) {
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	products, err := uc.api.Interested(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("interested listings: %w", err)
	}
	return products, nil
}

// Overview fetches both profile lists concurrently; either failure fails the whole call.
func (uc *listingUsecase) Overview(ctx context.Context) (*models.ListingOverview, error) {
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}

	var overview models.ListingOverview
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		products, err := uc.api.Mine(egCtx, token)
		if err != nil {
			return fmt.Errorf("my listings: %w", err)
		}
		overview.Mine = products
		return nil
	})
	eg.Go(func() error {
		products, err := uc.api.Interested(egCtx, token)
		if err != nil {
			return fmt.Errorf("interested listings: %w", err)
		}
		overview.Interested = products
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}
