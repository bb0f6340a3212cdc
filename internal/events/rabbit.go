package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
)

// DialRabbit connects to the broker at the given AMQP URL.
func DialRabbit(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// RabbitSubmitter records orders by publishing OrderPlaced events to the
// storefront topic exchange. It satisfies submit.Submitter, so checkout only
// clears the cart once the broker has accepted the publish.
type RabbitSubmitter struct {
	ch     *amqp.Channel
	seq    SequenceSource
	logger *log.Logger
}

// NewRabbitSubmitter opens a channel and declares the exchange so the first
// publish never fails on missing infra. seq may be nil; envelopes then carry
// no sequence number.
func NewRabbitSubmitter(conn *amqp.Connection, seq SequenceSource, logger *log.Logger) (*RabbitSubmitter, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}

	return &RabbitSubmitter{ch: ch, seq: seq, logger: logger}, nil
}

func (p *RabbitSubmitter) Close() error {
	return p.ch.Close()
}

func (p *RabbitSubmitter) Submit(ctx context.Context, o *order.Order) error {
	var sequence *int64
	if p.seq != nil {
		next, err := p.seq.NextSequence(ctx, o.ID)
		if err != nil {
			// Sequences improve consumer-side ordering but are not worth
			// failing a checkout over.
			p.logger.Printf("order %s: sequence unavailable: %v", o.ID, err)
		} else {
			sequence = &next
		}
	}

	env := BuildOrderPlacedEnvelope(o, sequence)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	if err := p.ch.PublishWithContext(ctx,
		EventsExchange,
		OrderPlacedRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish OrderPlaced for %s: %w", o.ID, err)
	}
	return nil
}
