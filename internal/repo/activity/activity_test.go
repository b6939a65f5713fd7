package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

func TestKafkaRecorder(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	defer func() { require.NoError(t, producer.Close()) }()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var a models.Activity
		if err := json.Unmarshal(val, &a); err != nil {
			return err
		}
		if a.Action != models.ActivityLogin || a.UserID != "u1" {
			return errors.New("unexpected activity payload")
		}
		if a.ID == "" || a.CreatedAt.IsZero() {
			return errors.New("activity not stamped")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	r, err := NewKafkaRecorder(producer, "reuse.activity")
	require.NoError(t, err)

	require.NoError(t, r.Record(context.Background(), models.Activity{Action: models.ActivityLogin, UserID: "u1"}))
	err = r.Record(context.Background(), models.Activity{Action: models.ActivityLogout})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestMongoRecorder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		r := NewMongoRecorder(mt.Coll)
		err := r.Record(context.Background(), models.Activity{Action: models.ActivitySourceSelected, Tier: models.TierSecondary})
		assert.NoError(t, err)
	})

	mt.Run("insert error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		r := NewMongoRecorder(mt.Coll)
		err := r.Record(context.Background(), models.Activity{ID: "fixed", Action: models.ActivityLogin})
		assert.ErrorContains(t, err, "duplicate key")
	})
}

func TestStamp(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	kept := stamp(models.Activity{ID: "x", CreatedAt: at})
	assert.Equal(t, "x", kept.ID)
	assert.Equal(t, at, kept.CreatedAt)

	filled := stamp(models.Activity{})
	assert.NotEmpty(t, filled.ID)
	assert.False(t, filled.CreatedAt.IsZero())

	assert.NoError(t, NewNopRecorder().Record(context.Background(), models.Activity{}))
}
