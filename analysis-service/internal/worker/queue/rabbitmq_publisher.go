package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// AMQPChannel - часть *amqp.Channel, которая нужна издателю.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQPublisher struct {
	channel        AMQPChannel
	exchange       string
	publishTimeout time.Duration
	logger         zerolog.Logger
}

func NewRabbitMQPublisher(channel AMQPChannel, exchange string, publishTimeout time.Duration, logger zerolog.Logger) *RabbitMQPublisher {
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &RabbitMQPublisher{
		channel:        channel,
		exchange:       exchange,
		publishTimeout: publishTimeout,
		logger:         logger.With().Str("component", "rabbitmq_publisher").Logger(),
	}
}

func (p *RabbitMQPublisher) PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.publish(ctx, models.AnalysisCompletedRoutingKey, body); err != nil {
		return fmt.Errorf("failed to publish %s: %w", models.AnalysisCompletedRoutingKey, err)
	}

	p.logger.Debug().
		Int64("submission_id", event.SubmissionID).
		Str("routing_key", models.AnalysisCompletedRoutingKey).
		Msg("Event published")

	return nil
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, body []byte) error {
	publishCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		publishCtx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
