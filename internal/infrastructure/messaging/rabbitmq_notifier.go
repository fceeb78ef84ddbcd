package messaging

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher is the subset of *amqp091.Channel the notifier needs.
type AMQPPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// RabbitMQNotifier publishes notifications to a durable queue through the
// default exchange. A channel is not safe for concurrent publishes, so
// sends are serialized.
type RabbitMQNotifier struct {
	mu            sync.Mutex
	conn          *amqp091.Connection
	channel       AMQPPublisher
	queue         string
	publicBaseURL string
}

var _ interfaces.INotifier = (*RabbitMQNotifier)(nil)

// DialRabbitMQNotifier connects and declares the queue.
func DialRabbitMQNotifier(url, queue, publicBaseURL string) (*RabbitMQNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	log.Printf("[notify][rabbitmq] connected queue=%s", queue)
	n := NewRabbitMQNotifier(ch, queue, publicBaseURL)
	n.conn = conn
	return n, nil
}

func NewRabbitMQNotifier(ch AMQPPublisher, queue, publicBaseURL string) *RabbitMQNotifier {
	return &RabbitMQNotifier{channel: ch, queue: queue, publicBaseURL: publicBaseURL}
}

func (n *RabbitMQNotifier) Notify(ctx context.Context, kind entities.AuditEventKind, p entities.Proposal, recipient string) error {
	body, err := NewMessage(kind, p, recipient, n.publicBaseURL).Encode()
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	err = n.channel.PublishWithContext(ctx, "", n.queue, false, false, amqp091.Publishing{
		DeliveryMode: amqp091.Persistent,
		ContentType:  "application/json",
		Type:         string(kind),
		Body:         body,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	log.Printf("[notify][rabbitmq] published event=%s proposal_id=%s", kind, p.ID)
	return nil
}

func (n *RabbitMQNotifier) Close() error {
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
