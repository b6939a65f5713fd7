package listings

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/testutil/fakemarket"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

func setup(t *testing.T, retries int) (*fakemarket.Market, Client, string) {
	m := fakemarket.New(t)
	c := NewClient(util.NewRestyClient(util.RestyOptions{RetryCount: retries}), m.URL, validator.New())
	return m, c, m.IssueToken(fakemarket.DemoUserID)
}

func sampleListing() models.CreateListingRequest {
	return models.CreateListingRequest{
		Name:        "Cadeira gamer",
		Description: "Pouco uso",
		Price:       350.5,
		State:       "SP",
		City:        "Campinas",
		Category:    "Móveis",
		Condition:   "Usado - Bom estado",
		Images: []models.Upload{
			{FileName: "front.jpg", ContentType: "image/jpeg", Content: strings.NewReader("a")},
			{FileName: "back.jpg", ContentType: "image/jpeg", Content: strings.NewReader("b")},
		},
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	m, c, token := setup(t, 0)
	ctx := context.Background()

	created, err := c.Create(ctx, token, sampleListing())
	require.NoError(t, err)
	assert.Equal(t, "Cadeira gamer", created.Name)
	assert.Equal(t, 350.5, created.Price)
	assert.Equal(t, models.Location{State: "SP", City: "Campinas"}, created.Location)
	assert.Equal(t, []string{"/uploads/front.jpg", "/uploads/back.jpg"}, created.Images)
	assert.Equal(t, fakemarket.DemoUserID, created.OwnerID)

	newPrice := 300.0
	newCity := "Santos"
	updated, err := c.Update(ctx, token, created.ID, models.UpdateListingRequest{Price: &newPrice, City: &newCity})
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.Price)
	assert.Equal(t, "Santos", updated.Location.City)
	assert.Equal(t, "Cadeira gamer", updated.Name)
	assert.Equal(t, created.Images, updated.Images)

	mine, err := c.Mine(ctx, token)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	require.NoError(t, c.Delete(ctx, token, created.ID))
	assert.Empty(t, m.Products())

	err = c.Delete(ctx, token, created.ID)
	var remote *models.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
	assert.Equal(t, "Produto não encontrado", remote.Message)
}

func TestShowInterest(t *testing.T) {
	m, c, token := setup(t, 0)
	ctx := context.Background()
	m.SetProducts([]models.Product{
		{ID: "p1", Name: "Violão", Price: 200, OwnerID: "someone-else"},
		{ID: "p2", Name: "Mesa", Price: 90, OwnerID: fakemarket.DemoUserID},
	})

	res, err := c.ShowInterest(ctx, token, "p1")
	require.NoError(t, err)
	assert.True(t, res.Success)

	interested, err := c.Interested(ctx, token)
	require.NoError(t, err)
	require.Len(t, interested, 1)
	assert.Equal(t, "p1", interested[0].ID)

	_, err = c.ShowInterest(ctx, token, "p2")
	var remote *models.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
}

func TestUnauthorized(t *testing.T) {
	_, c, _ := setup(t, 0)
	_, err := c.Mine(context.Background(), "bogus")
	var remote *models.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
}

func TestGetRetriesTransientFailures(t *testing.T) {
	m, c, token := setup(t, 2)

	m.FailTimes("GET /products/my-products", http.StatusServiceUnavailable, 2)
	mine, err := c.Mine(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, mine)
	assert.Equal(t, 3, m.Hits("GET /products/my-products"))
}

func TestWritesDoNotRetry(t *testing.T) {
	m, c, token := setup(t, 2)

	m.FailTimes("POST /products", http.StatusServiceUnavailable, 1)
	_, err := c.Create(context.Background(), token, sampleListing())
	var remote *models.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusServiceUnavailable, remote.StatusCode)
	assert.Equal(t, 1, m.Hits("POST /products"))
}
