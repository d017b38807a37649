// Package rabbitmq publishes delivery status changes to a RabbitMQ topic exchange.
//
// Every committed transition becomes one persistent JSON message routed by the new status,
// e.g. "delivery.status.picked_up". Consumers bind "delivery.status.#" for all changes or a
// single key for one status.
package rabbitmq

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "delivery_topic"

// Config describes the broker and the exchange status changes go to.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	Exchange string
}

// URL builds the amqp connection string.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.VHost,
	}
	return u.String()
}

func (c Config) exchange() string {
	if c.Exchange == "" {
		return DefaultExchange
	}
	return c.Exchange
}

// Connection owns the AMQP connection and the channel used for publishing.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Connect dials the broker, opens a channel and declares the durable topic exchange.
func Connect(_ context.Context, cfg Config) (*Connection, error) {
	conn, err := amqp091.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.exchange(), // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.exchange(), err)
	}

	return &Connection{conn: conn, channel: channel}, nil
}

// Channel returns the publishing channel.
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			_ = c.conn.Close()
			return fmt.Errorf("error closing channel: %w", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing connection: %w", err)
		}
	}
	return nil
}
