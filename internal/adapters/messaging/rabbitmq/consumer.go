package rabbitmq

import (
	"context"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veloxpay/payment-service/internal/middleware"
)

// HandlerFunc processes one delivery body. A nil return acknowledges the
// message; an error rejects it without requeue, which routes it to the
// queue's dead-letter exchange.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer runs message handlers against declared queues. Each Consume call
// owns its own goroutine; handler panics are recovered and treated as
// failures so the message dead-letters instead of killing the process.
type Consumer struct {
	ch     *amqp091.Channel
	logger *slog.Logger
}

// NewConsumer creates a consumer runner over an open channel.
func NewConsumer(ch *amqp091.Channel, logger *slog.Logger) *Consumer {
	return &Consumer{ch: ch, logger: logger}
}

// Consume starts consuming queue with handler until ctx is cancelled or the
// channel closes.
func (c *Consumer) Consume(ctx context.Context, queue string, handler HandlerFunc) error {
	deliveries, err := c.ch.Consume(
		queue,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	logger := c.logger.With(slog.String("queue", queue))
	logger.Info("Consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Consumer stopped")
				return
			case d, ok := <-deliveries:
				if !ok {
					logger.Warn("Delivery channel closed")
					return
				}
				c.handleDelivery(ctx, logger, d, handler)
			}
		}
	}()

	return nil
}

func (c *Consumer) handleDelivery(ctx context.Context, logger *slog.Logger, d amqp091.Delivery, handler HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panicked, dead-lettering message", slog.Any("panic", r))
			if err := d.Nack(false, false); err != nil {
				logger.Error("Failed to nack message after panic", slog.String("error", err.Error()))
			}
		}
	}()

	msgCtx := middleware.ContextWithLogger(ctx, logger)

	if err := handler(msgCtx, d.Body); err != nil {
		logger.Error("Handler failed, dead-lettering message", slog.String("error", err.Error()))
		if nackErr := d.Nack(false, false); nackErr != nil {
			logger.Error("Failed to nack message", slog.String("error", nackErr.Error()))
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.Error("Failed to ack message", slog.String("error", err.Error()))
	}
}
