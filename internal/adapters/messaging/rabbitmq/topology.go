package rabbitmq

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Queue names
const (
	PaymentDepositQueue    = "payment.deposit.queue"
	PaymentWithdrawalQueue = "payment.withdrawal.queue"
	PaymentTransferQueue   = "payment.transfer.queue"
	NotificationQueue      = "notification.queue"

	PaymentDepositDLQ    = "payment.deposit.dlq"
	PaymentWithdrawalDLQ = "payment.withdrawal.dlq"
	PaymentTransferDLQ   = "payment.transfer.dlq"
	NotificationDLQ      = "notification.dlq"
)

// Exchange names
const (
	PaymentExchange      = "payment.exchange"
	PaymentDLX           = "payment.dlx"
	NotificationExchange = "notification.exchange"
	NotificationDLX      = "notification.dlx"
)

// Routing keys
const (
	DepositRoutingKey      = "payment.deposit"
	WithdrawalRoutingKey   = "payment.withdrawal"
	TransferRoutingKey     = "payment.transfer"
	NotificationRoutingKey = "notification"
)

// Dial connects to RabbitMQ with a bounded connection timeout.
func Dial(url string) (*amqp091.Connection, error) {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(context.Background(), network, addr)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// DeclareTopology declares the payment and notification exchanges, their
// dead-letter exchanges, and the durable per-type queues. Dead-lettering is
// the only safety net against a consumer crash losing a message, so the
// service refuses to start if any declaration fails.
func DeclareTopology(ch *amqp091.Channel) error {
	for _, exchange := range []string{PaymentExchange, PaymentDLX, NotificationExchange, NotificationDLX} {
		if err := ch.ExchangeDeclare(
			exchange,
			"direct",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	bindings := []struct {
		queue      string
		dlq        string
		exchange   string
		dlx        string
		routingKey string
	}{
		{PaymentDepositQueue, PaymentDepositDLQ, PaymentExchange, PaymentDLX, DepositRoutingKey},
		{PaymentWithdrawalQueue, PaymentWithdrawalDLQ, PaymentExchange, PaymentDLX, WithdrawalRoutingKey},
		{PaymentTransferQueue, PaymentTransferDLQ, PaymentExchange, PaymentDLX, TransferRoutingKey},
		{NotificationQueue, NotificationDLQ, NotificationExchange, NotificationDLX, NotificationRoutingKey},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(
			b.queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			amqp091.Table{
				"x-dead-letter-exchange":    b.dlx,
				"x-dead-letter-routing-key": b.routingKey,
			},
		); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}

		if _, err := ch.QueueDeclare(b.dlq, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead-letter queue %s: %w", b.dlq, err)
		}
		if err := ch.QueueBind(b.dlq, b.routingKey, b.dlx, false, nil); err != nil {
			return fmt.Errorf("failed to bind dead-letter queue %s: %w", b.dlq, err)
		}
	}

	return nil
}
