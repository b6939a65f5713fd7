package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/pkg/ctxval"
)

// SourceTierKey reports the tier that served a product read back to request logging.
var SourceTierKey = ctxval.NewKey[models.SourceTier]("source_tier")

type SourceSelector interface {
	// Probe checks primary then secondary connectivity and returns the tier to read from.
	// It never fails: when neither answers it selects the mock tier and says why in the result.
	Probe(ctx context.Context) (models.SourceConfig, models.ProbeResult)
	// Current is the outcome of the last probe. It is for health reporting only.
	Current() (models.SourceConfig, models.ProbeResult, bool)
}

type ProductUsecase interface {
	ListProducts(ctx context.Context, filters models.ProductFilters) (*models.ProductPage, error)
	GetProductDetails(ctx context.Context, id string) (*models.Product, error)
}

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error)
	ValidateToken(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*models.Session, error)
}

type ListingUsecase interface {
	CreateListing(ctx context.Context, req models.CreateListingRequest) (*models.Product, error)
	UpdateListing(ctx context.Context, id string, req models.UpdateListingRequest) (*models.Product, error)
	DeleteListing(ctx context.Context, id string) error
	ShowInterest(ctx context.Context, id string) (*models.InterestResult, error)
	MyListings(ctx context.Context) ([]models.Product, error)
	InterestedListings(ctx context.Context) ([]models.Product, error)
	Overview(ctx context.Context) (*models.ListingOverview, error)
}
