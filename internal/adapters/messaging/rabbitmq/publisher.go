package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/dto"
)

const publishTimeout = 5 * time.Second

// TransactionPublisher routes persisted PENDING transactions onto the queue
// matching their type.
type TransactionPublisher struct {
	ch     *amqp091.Channel
	logger *slog.Logger
}

var _ portssvc.TransactionPublisher = (*TransactionPublisher)(nil)

// NewTransactionPublisher creates a publisher over an open channel.
func NewTransactionPublisher(ch *amqp091.Channel, logger *slog.Logger) *TransactionPublisher {
	return &TransactionPublisher{ch: ch, logger: logger}
}

// PublishTransaction publishes the transaction message to the payment
// exchange with the routing key fixed for its type.
func (p *TransactionPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	var routingKey string
	switch txn.Type {
	case domain.Deposit:
		routingKey = DepositRoutingKey
	case domain.Withdrawal:
		routingKey = WithdrawalRoutingKey
	case domain.Transfer:
		routingKey = TransferRoutingKey
	default:
		return fmt.Errorf("unknown transaction type: %s", txn.Type)
	}

	body, err := json.Marshal(dto.ToTransactionMessage(txn))
	if err != nil {
		return fmt.Errorf("failed to marshal transaction message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(
		ctx,
		PaymentExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("failed to publish transaction %s: %w", txn.TransactionReference, err)
	}

	p.logger.Info("Published transaction to queue",
		slog.String("reference", txn.TransactionReference),
		slog.String("routing_key", routingKey),
	)
	return nil
}

// NotificationPublisher emits notification events for terminal transactions.
type NotificationPublisher struct {
	ch     *amqp091.Channel
	logger *slog.Logger
	now    func() time.Time
}

var _ portssvc.NotificationPublisher = (*NotificationPublisher)(nil)

// NewNotificationPublisher creates a publisher over an open channel.
func NewNotificationPublisher(ch *amqp091.Channel, logger *slog.Logger) *NotificationPublisher {
	return &NotificationPublisher{ch: ch, logger: logger, now: time.Now}
}

// PublishTransactionNotification builds the notification message from the
// transaction and publishes it to the notification exchange. The caller does
// not wait for delivery.
func (p *NotificationPublisher) PublishTransactionNotification(ctx context.Context, txn domain.Transaction) error {
	msg := domain.NewNotificationMessage(txn, p.now())

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(
		ctx,
		NotificationExchange,
		NotificationRoutingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("failed to publish notification for %s: %w", txn.TransactionReference, err)
	}

	p.logger.Info("Published notification", slog.String("reference", txn.TransactionReference))
	return nil
}
