package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/reuse/internal/server/middleware"
	"github.com/nguyentranbao-ct/reuse/internal/usecase"
)

type Controller interface {
	Health(c echo.Context) error

	ListProducts(c echo.Context, req models.ProductFilters) (*models.ProductPage, error)
	GetProduct(c echo.Context, req ProductRequest) (*models.Product, error)

	Login(c echo.Context, req models.LoginRequest) (*models.Session, error)
	Register(c echo.Context, req models.RegisterRequest) (*models.Session, error)
	Logout(c echo.Context, req EmptyRequest) error
	ValidateSession(c echo.Context, req EmptyRequest) (*ValidateResponse, error)
	CurrentSession(c echo.Context, req EmptyRequest) (*models.Session, error)

	CreateListing(c echo.Context, req models.CreateListingRequest) (*pkgmdw.Response, error)
	UpdateListing(c echo.Context, req UpdateListingRequest) (*models.Product, error)
	DeleteListing(c echo.Context, req ListingRequest) error
	ShowInterest(c echo.Context, req ListingRequest) (*models.InterestResult, error)
	MyListings(c echo.Context, req EmptyRequest) ([]models.Product, error)
	InterestedListings(c echo.Context, req EmptyRequest) ([]models.Product, error)
	ListingOverview(c echo.Context, req EmptyRequest) (*models.ListingOverview, error)
}

type EmptyRequest struct{}

type ProductRequest struct {
	ID string `param:"id" validate:"required"`
}

type ListingRequest struct {
	ID string `param:"id" validate:"required"`
}

type UpdateListingRequest struct {
	ID string `param:"id" validate:"required"`
	models.UpdateListingRequest
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

type HealthResponse struct {
	Status string               `json:"status"`
	Source *models.SourceConfig `json:"source,omitempty"`
	Probe  *models.ProbeResult  `json:"probe,omitempty"`
}

type controller struct {
	selector usecase.SourceSelector
	products usecase.ProductUsecase
	auth     usecase.AuthUsecase
	listings usecase.ListingUsecase
}

func NewController(
	selector usecase.SourceSelector,
	products usecase.ProductUsecase,
	auth usecase.AuthUsecase,
	listings usecase.ListingUsecase,
) Controller {
	return &controller{
		selector: selector,
		products: products,
		auth:     auth,
		listings: listings,
	}
}

// Health reports the outcome of the last source probe without probing again.
func (h *controller) Health(c echo.Context) error {
	resp := HealthResponse{Status: "healthy"}
	if src, result, ok := h.selector.Current(); ok {
		resp.Source = &src
		resp.Probe = &result
	}
	return c.JSON(http.StatusOK, resp)
}

// formUploads opens the files sent under field. The returned func closes them.
func formUploads(c echo.Context, field string) ([]models.Upload, func(), error) {
	nop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nop, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nop, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	uploads := make([]models.Upload, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nop, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		closers = append(closers, f)
		uploads = append(uploads, models.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}
