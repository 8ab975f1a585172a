package events

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

// OrderUpdatesExchange is the fanout exchange order updates are published to.
const OrderUpdatesExchange = "order_updates"

// AMQPBus publishes order updates to a fanout exchange so that processes
// other than the API server (kitchen displays, notification workers) can
// follow the live order feed. Publishes wait for broker confirms.
type AMQPBus struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // confirms are ordered, serialize publishes
}

// DialAMQP connects to the broker, enables publisher confirms and declares
// the order updates exchange.
func DialAMQP(url string) (*AMQPBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "enable confirms")
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	if err := ch.ExchangeDeclare(OrderUpdatesExchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}

	return &AMQPBus{conn: conn, ch: ch, acks: acks}, nil
}

// Close tears down the channel and connection.
func (b *AMQPBus) Close() {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}

// Ping reports whether the broker connection is still open.
func (b *AMQPBus) Ping() error {
	if b.conn == nil || b.conn.IsClosed() {
		return errors.New("amqp connection is closed")
	}
	return nil
}

// Publish sends o to the fanout exchange and waits for the broker ack.
func (b *AMQPBus) Publish(ctx context.Context, o *order.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ch.PublishWithContext(ctx, OrderUpdatesExchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         EncodeOrder(o),
	}); err != nil {
		return errors.Wrap(err, "publish order update")
	}

	select {
	case conf := <-b.acks:
		if !conf.Ack {
			return errors.New("order update nacked by broker")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fanout broadcasts each order update to all wrapped publishers.
type Fanout []order.EventPublisher

// PublishOrderUpdate implements order.EventPublisher.
func (f Fanout) PublishOrderUpdate(ctx context.Context, o *order.Order) {
	for _, pub := range f {
		pub.PublishOrderUpdate(ctx, o)
	}
}

// BestEffort adapts the AMQP bus to the order service's publisher
// interface. Broker failures are logged, not surfaced: a lost broadcast is
// recoverable by the next poll, a failed order mutation is not.
type BestEffort struct {
	AMQP *AMQPBus
}

// PublishOrderUpdate implements order.EventPublisher.
func (p BestEffort) PublishOrderUpdate(ctx context.Context, o *order.Order) {
	if err := p.AMQP.Publish(ctx, o); err != nil {
		zctx.From(ctx).Warn("Publish order update", zap.Error(err))
	}
}

// Consume binds an exclusive queue to the exchange and forwards decoded
// order updates into dst until ctx is cancelled or the delivery stream
// closes. Malformed messages are rejected without requeue.
func (b *AMQPBus) Consume(ctx context.Context, dst *Bus) error {
	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return errors.Wrap(err, "declare queue")
	}
	if err := b.ch.QueueBind(q.Name, "", OrderUpdatesExchange, false, nil); err != nil {
		return errors.Wrap(err, "bind queue")
	}

	deliveries, err := b.ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "consume")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			o, err := DecodeOrder(d.Body)
			if err != nil {
				_ = d.Reject(false)
				continue
			}
			dst.PublishOrderUpdate(ctx, o)
			_ = d.Ack(false)
		}
	}
}
