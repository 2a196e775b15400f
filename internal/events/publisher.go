package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher emits domain events to Kafka. Consumers (notification
// pipeline, analytics) are outside this binary.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}
	return &Publisher{writer: w}
}

type envelope struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publish emits one event of the given kind. The key only picks the
// partition, typically the conversation id so per-conversation ordering
// holds.
func (p *Publisher) Publish(ctx context.Context, kind, key string, event any) error {
	b, err := json.Marshal(envelope{
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    event,
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
