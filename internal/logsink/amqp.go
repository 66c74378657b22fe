package logsink

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"medicine-verify/internal/store"
)

type publishChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink publishes verification events to a direct exchange.
type AMQPSink struct {
	conn       *amqp.Connection
	channel    publishChannel
	exchange   string
	routingKey string
	mu         sync.Mutex
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(amqpURL, exchange, routingKey string) (*AMQPSink, error) {
	conn, err := amqp.DialConfig(amqpURL, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSink{conn: conn, channel: channel, exchange: exchange, routingKey: routingKey}, nil
}

func newAMQPSink(channel publishChannel, exchange, routingKey string) *AMQPSink {
	return &AMQPSink{channel: channel, exchange: exchange, routingKey: routingKey}
}

func (a *AMQPSink) Name() string { return "amqp" }

// RecordVerification publishes the record as a persistent JSON message.
func (a *AMQPSink) RecordVerification(ctx context.Context, entry *store.VerificationLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(NewEvent(entry))
	if err != nil {
		return fmt.Errorf("marshal verification event: %w", err)
	}
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    entry.RequestID,
	}

	// amqp.Channel is not safe for concurrent publishing.
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.channel.Publish(a.exchange, a.routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("publish verification event: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (a *AMQPSink) Close() error {
	var err error
	if a.channel != nil {
		if channelErr := a.channel.Close(); channelErr != nil {
			logrus.WithError(channelErr).Warn("close amqp channel")
			err = channelErr
		}
	}
	if a.conn != nil {
		if connErr := a.conn.Close(); connErr != nil {
			logrus.WithError(connErr).Warn("close amqp connection")
			if err == nil {
				err = connErr
			}
		}
	}
	return err
}
