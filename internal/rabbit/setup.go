// setup.go
package rabbit

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ShipmentRequestedExchange = "shipment_requested"
	ShipmentRequestsQueue     = "shipment_tracking_requests"

	// unacked deliveries the broker may push to this consumer at once
	prefetchCount = 10
)

// Channel is the part of *amqp091.Channel the intake needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
}

// SetupConsumers declares the intake queue, binds it to the fanout exchange
// and consumes until ctx is done or the channel closes.
func SetupConsumers(ctx context.Context, ch Channel, consumer *ShipmentRequestedConsumer) error {
	if err := ch.ExchangeDeclare(
		ShipmentRequestedExchange,
		amqp091.ExchangeFanout,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		ShipmentRequestsQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// fanout ignores the routing key
	if err := ch.QueueBind(q.Name, "", ShipmentRequestedExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					consumer.logger.Warn("delivery channel closed")
					return
				}
				consumer.process(ctx, m)
			}
		}
	}()

	consumer.logger.Info("subscribed", "exchange", ShipmentRequestedExchange, "queue", q.Name)
	return nil
}

// acknowledger is the part of amqp091.Delivery the consumer settles with.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *ShipmentRequestedConsumer) process(ctx context.Context, m amqp091.Delivery) {
	c.settle(&m, c.Handle(ctx, m.Body))
}

func (c *ShipmentRequestedConsumer) settle(d acknowledger, err error) {
	var ackErr error
	if shouldRequeue(err) {
		ackErr = d.Nack(false, true)
	} else {
		ackErr = d.Ack(false)
	}
	if ackErr != nil {
		c.logger.Error("failed to settle delivery", "error", ackErr)
	}
}
