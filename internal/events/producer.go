package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	OrderPlaced     = "order_placed"
	ProductCreated  = "product_created"
	ProductUpdated  = "product_updated"
	ProductDeleted  = "product_deleted"
	CategoryCreated = "category_created"
	CategoryUpdated = "category_updated"
	CategoryDeleted = "category_deleted"
	TagCreated      = "tag_created"
	TagUpdated      = "tag_updated"
	TagDeleted      = "tag_deleted"
)

// Writer is the part of *kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is what services depend on. A nil Publisher disables events.
type Publisher interface {
	PublishEvent(ctx context.Context, key string, event map[string]any) error
}

type Producer struct {
	w      Writer
	closed atomic.Bool
}

func NewProducer(brokers []string, topic string) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func NewProducerWithWriter(w Writer) *Producer {
	return &Producer{w: w}
}

// PublishEvent writes event as JSON; messages with the same key keep their
// order on one partition.
func (p *Producer) PublishEvent(ctx context.Context, key string, event map[string]any) error {
	if p.closed.Load() {
		return fmt.Errorf("kafka: producer closed")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()}
	if t, ok := event["type"].(string); ok {
		msg.Headers = []kafka.Header{{Key: "type", Value: []byte(t)}}
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.w.Close()
}
