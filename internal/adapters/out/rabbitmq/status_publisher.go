package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"rxdelivery/internal/core/domain/services"

	"github.com/rabbitmq/amqp091-go"
)

const (
	routingKeyPrefix = "delivery.status."
	publishTimeout   = 5 * time.Second
)

var _ services.TransitionListener = (*StatusPublisher)(nil)

// publisher is the part of *amqp091.Channel the status publisher needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool,
		msg amqp091.Publishing) error
}

// StatusChangedMessage is the JSON body of a status change notification.
// OldStatus is empty for a newly registered delivery.
type StatusChangedMessage struct {
	OrderID   string    `json:"order_id"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

// StatusPublisher sends a message for every committed transition.
// Publishing failures are logged; they never affect the transition.
type StatusPublisher struct {
	channel  publisher
	exchange string
	logger   *slog.Logger
}

func NewStatusPublisher(channel publisher, exchange string, logger *slog.Logger) *StatusPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &StatusPublisher{
		channel:  channel,
		exchange: exchange,
		logger:   logger.With("component", "status_publisher"),
	}
}

func (p *StatusPublisher) OnTransition(ctx context.Context, transition services.Transition) {
	if err := p.Publish(ctx, transition); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish status change",
			"order_id", transition.OrderID.String(),
			"new_status", transition.To.Code(),
			"error", err,
		)
	}
}

// Publish sends one transition and reports the failure instead of logging it.
func (p *StatusPublisher) Publish(ctx context.Context, transition services.Transition) error {
	message := StatusChangedMessage{
		OrderID:   transition.OrderID.String(),
		OldStatus: transition.From.Code(),
		NewStatus: transition.To.Code(),
		ChangedAt: transition.At.UTC(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal status change: %w", err)
	}

	routingKey := RoutingKey(message.NewStatus)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange name
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    fmt.Sprintf("%s:%s", message.OrderID, message.NewStatus),
			Timestamp:    message.ChangedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish status change: %w", err)
	}

	p.logger.DebugContext(ctx, "status change published",
		"order_id", message.OrderID,
		"routing_key", routingKey,
	)
	return nil
}

// RoutingKey returns the routing key for a status wire code.
func RoutingKey(statusCode string) string {
	return routingKeyPrefix + statusCode
}
