package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/config"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/observability"
)

const publishTimeout = 5 * time.Second

// KafkaSink publishes broadcast events to a Kafka topic. Delivery is best
// effort: a failed publish is logged and dropped so ingestion is never
// blocked on the broker.
type KafkaSink struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewKafkaSink builds a sink for the configured brokers and topic.
func NewKafkaSink(cfg config.KafkaConfig, logger *slog.Logger, metrics *observability.Metrics) *KafkaSink {
	return &KafkaSink{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
		},
		logger:  logger.With("component", "kafka-sink"),
		metrics: metrics,
	}
}

// Broadcast implements ingest.Broadcaster. Events for the same zone share a
// message key so per-zone ordering survives partitioning.
func (s *KafkaSink) Broadcast(ctx context.Context, ev domain.BroadcastEvent) {
	value, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("marshal event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafkago.Message{
		Key:   []byte(ev.Payload.ID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("publish event", "topic", s.writer.Topic, "zone_id", ev.Payload.ID, "error", err)
		return
	}
	s.metrics.KafkaEventsPublished.Inc()
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
