// Package amqp connects the ledger to the backup worker over RabbitMQ. One
// durable direct exchange carries both sale event kinds on a single queue.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	applog "github.com/Adnan1921/radnja-tracker/internal/log"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, channel: channel, exchange: exchange, queue: queue}
	if err := c.declareTopology(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// declareTopology sets up the durable exchange and queue. The routing key
// equals the queue name, so a direct exchange behaves like a named pipe
// while leaving room to add more queues later.
func (c *Client) declareTopology() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.exchange, err)
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}
	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", c.queue, err)
	}
	return nil
}

// PublishSaleRecorded implements ledger.Publisher.
func (c *Client) PublishSaleRecorded(ctx context.Context, saleID string) error {
	return c.publish(ctx, NewSaleRecordedMessage(saleID))
}

// PublishSaleDeleted implements ledger.Publisher.
func (c *Client) PublishSaleDeleted(ctx context.Context, saleID, date, itemName, recordedBy string, totalCents int64) error {
	return c.publish(ctx, NewSaleDeletedMessage(saleID, date, itemName, recordedBy, totalCents))
}

func (c *Client) publish(ctx context.Context, msg *SaleEventMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	if err := c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish sale event: %w", err)
	}

	slog.InfoContext(ctx, "Published sale event",
		"kind", msg.Kind,
		applog.FieldSaleID, msg.SaleID,
		"exchange", c.exchange)
	return nil
}

// ConsumeSaleEvents delivers sale events to the handler with manual acks.
// Handler failures requeue the message; undecodable bodies are dropped.
func (c *Client) ConsumeSaleEvents(ctx context.Context, handler func(*SaleEventMessage) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming from %s: %w", c.queue, err)
	}

	slog.InfoContext(ctx, "Consuming sale events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping sale event consumer", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.dispatch(ctx, delivery, handler)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, delivery amqp091.Delivery, handler func(*SaleEventMessage) error) {
	msg, err := SaleEventMessageFromJSON(delivery.Body)
	if err != nil {
		// A body we cannot decode today we cannot decode on redelivery
		// either; drop it.
		slog.ErrorContext(ctx, "Dropping undecodable sale event", applog.FieldError, err)
		delivery.Nack(false, false)
		return
	}

	if err := handler(msg); err != nil {
		slog.ErrorContext(ctx, "Sale event handler failed, requeueing",
			applog.FieldError, err,
			"kind", msg.Kind,
			applog.FieldSaleID, msg.SaleID)
		delivery.Nack(false, true)
		return
	}

	delivery.Ack(false)
	slog.DebugContext(ctx, "Processed sale event", "kind", msg.Kind, applog.FieldSaleID, msg.SaleID)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
