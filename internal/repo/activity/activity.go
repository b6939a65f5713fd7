package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

// Recorder appends an activity to an audit sink. Callers treat failures as non-fatal.
type Recorder interface {
	Record(ctx context.Context, a models.Activity) error
}

type nopRecorder struct{}

func NewNopRecorder() Recorder { return nopRecorder{} }

func (nopRecorder) Record(context.Context, models.Activity) error { return nil }

// stamp fills the id and timestamp the sinks require.
func stamp(a models.Activity) models.Activity {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return a
}
