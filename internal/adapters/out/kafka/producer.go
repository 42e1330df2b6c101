// Package kafka publishes job events, customer codes and payout requests to
// Kafka. Every delivery is best effort: a circuit breaker stops hammering an
// unavailable cluster and callers only log the returned error.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

const defaultWriteTimeout = 3 * time.Second

// MessageWriter is the part of *kafkago.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NewWriter returns a synchronous writer; the topic is set per message.
func NewWriter(brokers ...string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// Producer serialises messages as JSON and writes them through a breaker.
type Producer struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func NewProducer(writer MessageWriter, logger *slog.Logger) *Producer {
	return &Producer{
		writer: writer,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "kafka-producer",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
		timeout: defaultWriteTimeout,
		now:     time.Now,
		logger:  logger.With("component", "kafka_producer"),
	}
}

// publish writes value to topic keyed by key, so that messages of one job
// keep their order within a partition.
func (p *Producer) publish(ctx context.Context, topic, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", topic, err)
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.writer.WriteMessages(writeCtx, kafkago.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: payload,
			Time:  p.now(),
		})
	})
	if err != nil {
		return fmt.Errorf("kafka: publish %s: %w", topic, err)
	}
	return nil
}
