package listings

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/catalog"
	"github.com/nguyentranbao-ct/reuse/internal/repo/remote"
)

// Client manages the signed-in user's listings on the canonical marketplace API.
// Every call needs a bearer token.
type Client interface {
	Create(ctx context.Context, token string, req models.CreateListingRequest) (*models.Product, error)
	Update(ctx context.Context, token, id string, req models.UpdateListingRequest) (*models.Product, error)
	Delete(ctx context.Context, token, id string) error
	ShowInterest(ctx context.Context, token, id string) (*models.InterestResult, error)
	Mine(ctx context.Context, token string) ([]models.Product, error)
	Interested(ctx context.Context, token string) ([]models.Product, error)
}

type client struct {
	http     *resty.Client
	baseURL  string
	validate *validator.Validate
}

// NewClient expects http to retry only idempotent requests; see util.NewRestyClient.
func NewClient(http *resty.Client, baseURL string, validate *validator.Validate) Client {
	return &client{http: http, baseURL: baseURL, validate: validate}
}

func (c *client) productURL(id string) string {
	return c.baseURL + "/products/" + url.PathEscape(id)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func attachImages(r *resty.Request, images []models.Upload) {
	for _, img := range images {
		if img.Content == nil {
			continue
		}
		r.SetMultipartField("images", img.FileName, img.ContentType, img.Content)
	}
}

func (c *client) Create(ctx context.Context, token string, req models.CreateListingRequest) (*models.Product, error) {
	r := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetMultipartFormData(map[string]string{
			"name":        req.Name,
			"description": req.Description,
			"price":       formatPrice(req.Price),
			"state":       req.State,
			"city":        req.City,
			"category":    req.Category,
			"condition":   req.Condition,
		})
	attachImages(r, req.Images)

	resp, err := r.Post(c.baseURL + "/products")
	if err != nil {
		return nil, fmt.Errorf("post product: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, remote.Error(resp, "failed to create product")
	}
	return catalog.DecodeProduct(c.validate, resp.Body())
}

func (c *client) Update(ctx context.Context, token, id string, req models.UpdateListingRequest) (*models.Product, error) {
	fields := map[string]string{}
	for name, v := range map[string]*string{
		"name":        req.Name,
		"description": req.Description,
		"state":       req.State,
		"city":        req.City,
		"category":    req.Category,
		"condition":   req.Condition,
	} {
		if v != nil {
			fields[name] = *v
		}
	}
	if req.Price != nil {
		fields["price"] = formatPrice(*req.Price)
	}

	r := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetMultipartFormData(fields)
	attachImages(r, req.Images)

	resp, err := r.Put(c.productURL(id))
	if err != nil {
		return nil, fmt.Errorf("put product %s: %w", id, err)
	}
	if !resp.IsSuccess() {
		return nil, remote.Error(resp, "failed to update product")
	}
	return catalog.DecodeProduct(c.validate, resp.Body())
}

func (c *client) Delete(ctx context.Context, token, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(c.productURL(id))
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if !resp.IsSuccess() {
		return remote.Error(resp, "failed to delete product")
	}
	return nil
}

func (c *client) ShowInterest(ctx context.Context, token, id string) (*models.InterestResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post(c.productURL(id) + "/interest")
	if err != nil {
		return nil, fmt.Errorf("post interest %s: %w", id, err)
	}
	if !resp.IsSuccess() {
		return nil, remote.Error(resp, "failed to register interest")
	}
	var res models.InterestResult
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return nil, fmt.Errorf("decode interest result: %w", err)
	}
	return &res, nil
}

func (c *client) Mine(ctx context.Context, token string) ([]models.Product, error) {
	return c.list(ctx, token, "/products/my-products", "failed to fetch your products")
}

func (c *client) Interested(ctx context.Context, token string) ([]models.Product, error) {
	return c.list(ctx, token, "/products/interested", "failed to fetch products of interest")
}

func (c *client) list(ctx context.Context, token, path, failMsg string) ([]models.Product, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return nil, remote.Error(resp, failMsg)
	}
	products, err := catalog.DecodeProducts(c.validate, resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return products, nil
}
