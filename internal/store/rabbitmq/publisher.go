package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/paper-explorer/internal/quiz"
)

const publishTimeout = 5 * time.Second

// Publisher hands quiz results to the worker through RabbitMQ.
type Publisher struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex // amqp channels are not safe for concurrent publishes
	ch *amqp.Channel
}

var _ quiz.Recorder = (*Publisher)(nil)

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbit dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbit channel: %w", err)
	}
	if err := DeclareTopology(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Record publishes r as a persistent JSON message.
func (p *Publisher) Record(ctx context.Context, r *quiz.Result) error {
	body, err := EncodeResult(r)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    r.Ref,
			Body:         body,
			Timestamp:    r.CreatedAt,
		},
	)
}

func EncodeResult(r *quiz.Result) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode quiz result: %w", err)
	}
	return body, nil
}

// DecodeResult parses a message body, rejecting results that could never
// be stored.
func DecodeResult(body []byte) (*quiz.Result, error) {
	var r quiz.Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode quiz result: %w", err)
	}
	if r.Ref == "" || r.UserID == 0 || r.PaperTitle == "" {
		return nil, fmt.Errorf("decode quiz result: missing ref, user or title")
	}
	r.ID = 0
	return &r, nil
}
