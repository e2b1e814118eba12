package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"finance-server/entities"

	"github.com/streadway/amqp"
)

const ledgerQueue = "ledger_events"

// Publisher is anything that accepts ledger events.
type Publisher interface {
	Publish(event entities.LedgerEvent) error
}

// Fanout delivers each event to every publisher and reports all failures.
type Fanout []Publisher

func (f Fanout) Publish(event entities.LedgerEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AMQPPublisher writes ledger events to a durable queue.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	queue, err := ch.QueueDeclare(
		ledgerQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", ledgerQueue, err)
	}

	log.Printf("Publishing ledger events to AMQP queue %s", queue.Name)
	return &AMQPPublisher{conn: conn, channel: ch, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(event entities.LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.channel.Publish(
		"",           // default exchange routes by queue name
		p.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(event.Type),
			Timestamp:    event.At,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() {
	p.channel.Close()
	p.conn.Close()
}
