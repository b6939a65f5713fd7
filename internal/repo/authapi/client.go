package authapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/remote"
)

var ErrMissingToken = errors.New("authapi: response has no token")

// Client talks to the marketplace auth endpoints. A non-2xx answer is returned as
// *models.RemoteError; anything else that fails is a transport error.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error)
	// ValidateToken returns nil when the server accepts token.
	ValidateToken(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
}

type client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(http *resty.Client, baseURL string) Client {
	return &client{http: http, baseURL: baseURL}
}

func (c *client) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.baseURL + "/auth/login")
	if err != nil {
		return nil, fmt.Errorf("post login: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, remote.Error(resp, "login failed")
	}
	return decodeSession(resp.Body())
}

func (c *client) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	r := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"name":     req.Name,
			"email":    req.Email,
			"password": req.Password,
		})
	if pic := req.ProfilePicture; pic != nil && pic.Content != nil {
		r.SetMultipartField("profilePicture", pic.FileName, pic.ContentType, pic.Content)
	}

	resp, err := r.Post(c.baseURL + "/auth/register")
	if err != nil {
		return nil, fmt.Errorf("post register: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, remote.Error(resp, "registration failed")
	}
	return decodeSession(resp.Body())
}

func (c *client) ValidateToken(ctx context.Context, token string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post(c.baseURL + "/auth/validate-token")
	if err != nil {
		return fmt.Errorf("post validate-token: %w", err)
	}
	if !resp.IsSuccess() {
		return remote.Error(resp, "invalid token")
	}
	return nil
}

func (c *client) Logout(ctx context.Context, token string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post(c.baseURL + "/auth/logout")
	if err != nil {
		return fmt.Errorf("post logout: %w", err)
	}
	if !resp.IsSuccess() {
		return remote.Error(resp, "logout failed")
	}
	return nil
}

func decodeSession(body []byte) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return nil, ErrMissingToken
	}
	return &s, nil
}
