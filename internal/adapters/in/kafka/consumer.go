// Package kafka consumes the marketplace topics that drive the job lifecycle
// from outside: assignments create jobs, cancellations cancel them.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fieldservice/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	maxAttempts  = 5
	retryBackoff = 200 * time.Millisecond
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewReader returns a consumer group reader with manual commits.
func NewReader(brokers []string, groupID, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  500 * time.Millisecond,
	})
}

// MessageHandler processes one message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg kafkago.Message) error
}

// Consumer reads one topic and hands every message to its handler. Messages
// failing with a transient error are retried a few times; every message is
// committed afterwards so a poison message never blocks the partition.
type Consumer struct {
	reader  MessageReader
	handler MessageHandler
	backoff time.Duration
	logger  *slog.Logger
}

func NewConsumer(reader MessageReader, handler MessageHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		handler: handler,
		backoff: retryBackoff,
		logger:  logger.With("component", "kafka_consumer"),
	}
}

// Run consumes until ctx is done and then closes the reader.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("closing kafka reader failed", "error", err)
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, "fetching kafka message failed", "error", err)
			if !c.sleep(ctx) {
				return nil
			}
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, "committing kafka message failed",
				"topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafkago.Message) {
	for attempt := 1; ; attempt++ {
		err := c.handler.HandleMessage(ctx, msg)
		if err == nil {
			return
		}
		if isTransient(err) && attempt < maxAttempts {
			c.logger.WarnContext(ctx, "kafka message handling failed, retrying",
				"topic", msg.Topic, "offset", msg.Offset, "attempt", attempt, "error", err)
			if c.sleep(ctx) {
				continue
			}
		}
		c.logger.ErrorContext(ctx, "kafka message dropped",
			"topic", msg.Topic, "offset", msg.Offset, "attempts", attempt, "error", err)
		return
	}
}

func (c *Consumer) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isTransient(err error) bool {
	return errors.Is(err, ports.ErrJobBusy) || errors.Is(err, ports.ErrConcurrentModification)
}
