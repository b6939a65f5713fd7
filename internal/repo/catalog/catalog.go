package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/remote"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

// Client fetches products from whichever tier a probe selected. The mock tier is served from the
// built-in dataset without any I/O.
type Client interface {
	// Probe reports whether url answers a GET with a 2xx status.
	Probe(ctx context.Context, url string) error
	ListProducts(ctx context.Context, src models.SourceConfig, token string) ([]models.Product, error)
	GetProduct(ctx context.Context, src models.SourceConfig, token, id string) (*models.Product, error)
}

type Options struct {
	// LimitHint is sent as ?limit= to external-shape sources. Zero disables it.
	LimitHint int
}

type client struct {
	http       *resty.Client
	normalizer *Normalizer
	validate   *validator.Validate
	opts       Options
	log        *zap.SugaredLogger
}

func NewClient(http *resty.Client, normalizer *Normalizer, validate *validator.Validate, opts Options) Client {
	return &client{
		http:       http,
		normalizer: normalizer,
		validate:   validate,
		opts:       opts,
		log:        logger.MustNamed("catalog"),
	}
}

func (c *client) Probe(ctx context.Context, probeURL string) error {
	resp, err := c.http.R().SetContext(ctx).Get(probeURL)
	if err != nil {
		return fmt.Errorf("probe %s: %w", probeURL, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("probe %s: status %d", probeURL, resp.StatusCode())
	}
	return nil
}

func (c *client) ListProducts(ctx context.Context, src models.SourceConfig, token string) ([]models.Product, error) {
	if src.UseMock() {
		return MockProducts(), nil
	}

	req := c.http.R().SetContext(ctx)
	if src.Shape == models.ShapeExternal && c.opts.LimitHint > 0 {
		req.SetQueryParam("limit", strconv.Itoa(c.opts.LimitHint))
	}
	if src.Shape == models.ShapeCanonical && token != "" {
		req.SetAuthToken(token)
	}

	endpoint := src.BaseURL + src.ProductsPath
	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("get %s: %w", endpoint, remote.Error(resp, ""))
	}

	switch src.Shape {
	case models.ShapeExternal:
		raws, err := decodeExternalList(resp.Body())
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		c.log.Debugw("normalizing external products", "tier", src.Tier, "count", len(raws))
		return c.normalizer.NormalizeAll(raws), nil
	default:
		products, err := decodeCanonicalList(c.validate, resp.Body())
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return products, nil
	}
}

func (c *client) GetProduct(ctx context.Context, src models.SourceConfig, token, id string) (*models.Product, error) {
	if src.UseMock() {
		p, ok := findMockProduct(id)
		if !ok {
			return nil, fmt.Errorf("mock product %q: %w", id, models.ErrProductNotFound)
		}
		return p, nil
	}

	req := c.http.R().SetContext(ctx)
	if src.Shape == models.ShapeCanonical && token != "" {
		req.SetAuthToken(token)
	}

	endpoint := src.BaseURL + src.ProductsPath + "/" + url.PathEscape(id)
	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("get %s: %w", endpoint, remote.Error(resp, ""))
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode %s: %w", endpoint, malformed("body is not valid JSON"))
	}
	elem := gjson.ParseBytes(body)
	if wrapped := elem.Get("product"); wrapped.IsObject() {
		elem = wrapped
	}

	switch src.Shape {
	case models.ShapeExternal:
		raw, err := decodeExternal(elem)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		if raw.ID == "" {
			raw.ID = id
		}
		p := c.normalizer.Normalize(raw, 0)
		return &p, nil
	default:
		p, err := decodeCanonical(c.validate, elem)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return p, nil
	}
}
