package activity

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

type kafkaRecorder struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *prometheus.CounterVec
}

func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "reuse"
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}
	return producer, nil
}

// NewKafkaRecorder publishes activities as JSON, keyed by action.
func NewKafkaRecorder(producer sarama.SyncProducer, topic string) (Recorder, error) {
	metrics, err := util.GetCounterVec("activity_published", "status", "action")
	if err != nil {
		return nil, fmt.Errorf("get counter vec: %w", err)
	}
	return &kafkaRecorder{producer: producer, topic: topic, metrics: metrics}, nil
}

func (r *kafkaRecorder) Record(_ context.Context, a models.Activity) error {
	a = stamp(a)
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	_, _, err = r.producer.SendMessage(&sarama.ProducerMessage{
		Topic: r.topic,
		Key:   sarama.StringEncoder(a.Action),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		r.metrics.WithLabelValues("error", string(a.Action)).Inc()
		return fmt.Errorf("send activity: %w", err)
	}
	r.metrics.WithLabelValues("ok", string(a.Action)).Inc()
	return nil
}
