package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/reuse/internal/config"
	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/catalog"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

func statusServer(t *testing.T, status int, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func selectorConfig(primaryURL, secondaryURL string) *config.Config {
	return &config.Config{Sources: config.SourcesConfig{
		Primary:      config.SourceConfig{BaseURL: primaryURL, ProductsPath: "/products", ProbePath: "/products", Shape: models.ShapeCanonical},
		Secondary:    config.SourceConfig{BaseURL: secondaryURL, ProductsPath: "/products", ProbePath: "/", Shape: models.ShapeExternal},
		ProbeTimeout: 100 * time.Millisecond,
	}}
}

func newSelector(t *testing.T, cfg *config.Config, rec *fakeRecorder) SourceSelector {
	t.Helper()
	cat := catalog.NewClient(util.NewRestyClient(util.RestyOptions{}), catalog.NewNormalizer(), validator.New(), catalog.Options{})
	sel, err := NewSourceSelector(cfg, cat, rec)
	require.NoError(t, err)
	return sel
}

func TestProbe_PrimaryFirst(t *testing.T) {
	primary := statusServer(t, http.StatusOK, 0)
	secondary := statusServer(t, http.StatusOK, 0)
	sel := newSelector(t, selectorConfig(primary.URL, secondary.URL), &fakeRecorder{})

	src, res := sel.Probe(context.Background())
	assert.True(t, res.Success)
	assert.Equal(t, models.SourceConfig{
		Tier:         models.TierPrimary,
		BaseURL:      primary.URL,
		ProductsPath: "/products",
		Shape:        models.ShapeCanonical,
	}, src)
}

func TestProbe_SecondaryWhenPrimaryFails(t *testing.T) {
	secondary := statusServer(t, http.StatusOK, 0)

	for name, primaryURL := range map[string]string{
		"non-2xx":     statusServer(t, http.StatusServiceUnavailable, 0).URL,
		"timeout":     statusServer(t, http.StatusOK, time.Second).URL,
		"unreachable": "http://127.0.0.1:1",
	} {
		t.Run(name, func(t *testing.T) {
			sel := newSelector(t, selectorConfig(primaryURL, secondary.URL), &fakeRecorder{})
			src, res := sel.Probe(context.Background())
			assert.True(t, res.Success)
			assert.Equal(t, models.TierSecondary, src.Tier)
			assert.Equal(t, models.ShapeExternal, src.Shape)
			assert.Equal(t, secondary.URL, src.BaseURL)
		})
	}
}

func TestProbe_MockWhenBothFail(t *testing.T) {
	primary := statusServer(t, http.StatusInternalServerError, 0)
	secondary := statusServer(t, http.StatusNotFound, 0)
	sel := newSelector(t, selectorConfig(primary.URL, secondary.URL), &fakeRecorder{})

	start := time.Now()
	src, res := sel.Probe(context.Background())
	assert.Less(t, time.Since(start), time.Second)

	assert.False(t, res.Success)
	assert.True(t, src.UseMock())
	assert.Contains(t, res.Message, "status 500")
	assert.Contains(t, res.Message, "status 404")
}

func TestProbe_CurrentAndActivity(t *testing.T) {
	primary := statusServer(t, http.StatusOK, 0)
	rec := &fakeRecorder{}
	cfg := selectorConfig(primary.URL, "http://127.0.0.1:1")
	sel := newSelector(t, cfg, rec)

	_, _, ok := sel.Current()
	assert.False(t, ok)

	sel.Probe(context.Background())
	sel.Probe(context.Background())
	current, res, ok := sel.Current()
	require.True(t, ok)
	assert.Equal(t, models.TierPrimary, current.Tier)
	assert.True(t, res.Success)
	// a repeated tier is not recorded again
	assert.Equal(t, []models.ActivityAction{models.ActivitySourceSelected}, rec.actions())

	primary.Close()
	sel.Probe(context.Background())
	current, _, _ = sel.Current()
	assert.Equal(t, models.TierMock, current.Tier)
	assert.Len(t, rec.actions(), 2)
}
