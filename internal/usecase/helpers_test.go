package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
)

type fakeRecorder struct {
	mu         sync.Mutex
	activities []models.Activity
	err        error
}

func (r *fakeRecorder) Record(_ context.Context, a models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, a)
	return r.err
}

func (r *fakeRecorder) actions() []models.ActivityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ActivityAction, len(r.activities))
	for i, a := range r.activities {
		out[i] = a.Action
	}
	return out
}

type fixedSelector struct {
	mu     sync.Mutex
	source models.SourceConfig
	probes int
}

func (s *fixedSelector) Probe(context.Context) (models.SourceConfig, models.ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes++
	return s.source, models.ProbeResult{Success: !s.source.UseMock()}
}

func (s *fixedSelector) Current() (models.SourceConfig, models.ProbeResult, bool) {
	return s.source, models.ProbeResult{}, true
}

// stubCatalog serves canned products per tier. A tier with an error set fails every call.
type stubCatalog struct {
	mu       sync.Mutex
	products map[models.SourceTier][]models.Product
	errs     map[models.SourceTier]error
	calls    []models.SourceTier
	tokens   []string
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[models.SourceTier][]models.Product{},
		errs:     map[models.SourceTier]error{},
	}
}

func (c *stubCatalog) Probe(context.Context, string) error { return nil }

func (c *stubCatalog) ListProducts(_ context.Context, src models.SourceConfig, token string) ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, src.Tier)
	c.tokens = append(c.tokens, token)
	if err := c.errs[src.Tier]; err != nil {
		return nil, err
	}
	return append([]models.Product(nil), c.products[src.Tier]...), nil
}

func (c *stubCatalog) GetProduct(_ context.Context, src models.SourceConfig, token, id string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, src.Tier)
	c.tokens = append(c.tokens, token)
	if err := c.errs[src.Tier]; err != nil {
		return nil, err
	}
	for _, p := range c.products[src.Tier] {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

var errStoreDown = errors.New("store down")

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errStoreDown }
func (brokenStore) Set(context.Context, ...store.Entry) error         { return errStoreDown }
func (brokenStore) Remove(context.Context, ...string) error           { return errStoreDown }
