package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

func (h *controller) ListProducts(c echo.Context, req models.ProductFilters) (*models.ProductPage, error) {
	return h.products.ListProducts(c.Request().Context(), req)
}

func (h *controller) GetProduct(c echo.Context, req ProductRequest) (*models.Product, error) {
	return h.products.GetProductDetails(c.Request().Context(), req.ID)
}
