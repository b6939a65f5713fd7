package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/reuse/internal/server/middleware"
)

func (h *controller) CreateListing(c echo.Context, req models.CreateListingRequest) (*pkgmdw.Response, error) {
	uploads, closeUploads, err := formUploads(c, "images")
	if err != nil {
		return nil, err
	}
	defer closeUploads()
	req.Images = uploads

	p, err := h.listings.CreateListing(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return &pkgmdw.Response{Status: http.StatusCreated, Success: true, Data: p}, nil
}

func (h *controller) UpdateListing(c echo.Context, req UpdateListingRequest) (*models.Product, error) {
	uploads, closeUploads, err := formUploads(c, "images")
	if err != nil {
		return nil, err
	}
	defer closeUploads()
	req.Images = uploads

	return h.listings.UpdateListing(c.Request().Context(), req.ID, req.UpdateListingRequest)
}

func (h *controller) DeleteListing(c echo.Context, req ListingRequest) error {
	return h.listings.DeleteListing(c.Request().Context(), req.ID)
}

func (h *controller) ShowInterest(c echo.Context, req ListingRequest) (*models.InterestResult, error) {
	return h.listings.ShowInterest(c.Request().Context(), req.ID)
}

func (h *controller) MyListings(c echo.Context, _ EmptyRequest) ([]models.Product, error) {
	return h.listings.MyListings(c.Request().Context())
}

func (h *controller) InterestedListings(c echo.Context, _ EmptyRequest) ([]models.Product, error) {
	return h.listings.InterestedListings(c.Request().Context())
}

func (h *controller) ListingOverview(c echo.Context, _ EmptyRequest) (*models.ListingOverview, error) {
	return h.listings.Overview(c.Request().Context())
}
