// Package remote holds helpers shared by the marketplace API clients.
package remote

import (
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

// Error turns a non-2xx response into a *models.RemoteError carrying the "message" field of the
// body. fallback is used when the body has none; an empty fallback falls back to the HTTP status text.
func Error(resp *resty.Response, fallback string) error {
	msg := gjson.GetBytes(resp.Body(), "message").String()
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = resp.Status()
	}
	return &models.RemoteError{StatusCode: resp.StatusCode(), Message: msg}
}
