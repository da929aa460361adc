package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	eventPort "timelium/internal/ports/postevent"

	"github.com/segmentio/kafka-go"
)

// MessageWriter subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds configuration parameters for Kafka.
type Config struct {
	Brokers      []string      // list of Kafka brokers
	Topic        string        // topic name
	WriteTimeout time.Duration // write timeout duration
}

// Publisher writes post events to Kafka, keyed by post ID so events of one post stay ordered.
type Publisher struct {
	writer MessageWriter
}

// NewPublisher creates a Kafka writer for the post events topic.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is empty")
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Publisher{writer: w}, nil
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, msg eventPort.Message) error {
	if p.writer == nil {
		return errors.New("kafka writer is nil")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: event %s: %v", eventPort.ErrUnencodable, msg.EventID, err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.PostID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(msg.Type)},
		},
	})
}

func (p *Publisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
