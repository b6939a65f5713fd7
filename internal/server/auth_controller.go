package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

func (h *controller) Login(c echo.Context, req models.LoginRequest) (*models.Session, error) {
	return h.auth.Login(c.Request().Context(), req.Email, req.Password)
}

func (h *controller) Register(c echo.Context, req models.RegisterRequest) (*models.Session, error) {
	uploads, closeUploads, err := formUploads(c, "profilePicture")
	if err != nil {
		return nil, err
	}
	defer closeUploads()
	if len(uploads) > 0 {
		req.ProfilePicture = &uploads[0]
	}
	return h.auth.Register(c.Request().Context(), req)
}

func (h *controller) Logout(c echo.Context, _ EmptyRequest) error {
	return h.auth.Logout(c.Request().Context())
}

func (h *controller) ValidateSession(c echo.Context, _ EmptyRequest) (*ValidateResponse, error) {
	valid, err := h.auth.ValidateToken(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &ValidateResponse{Valid: valid}, nil
}

func (h *controller) CurrentSession(c echo.Context, _ EmptyRequest) (*models.Session, error) {
	return h.auth.CurrentSession(c.Request().Context())
}
