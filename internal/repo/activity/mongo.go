package activity

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

const CollectionName = "activities"

type mongoRecorder struct {
	collection *mongo.Collection
}

func NewMongoRecorder(collection *mongo.Collection) Recorder {
	return &mongoRecorder{collection: collection}
}

func (r *mongoRecorder) Record(ctx context.Context, a models.Activity) error {
	if _, err := r.collection.InsertOne(ctx, stamp(a)); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}
