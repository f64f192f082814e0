package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/moliceiro/meals/utils"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives every lifecycle event.
const DefaultTopic = "moliceiro.events"

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

// NewKafkaWriter returns an async writer: WriteMessages only queues, and
// delivery failures are logged from the completion callback.
func NewKafkaWriter(broker, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             logDeliveryFailure,
	}
}

func logDeliveryFailure(msgs []kafka.Message, err error) {
	if err != nil {
		utils.ErrorLogger.Printf("kafka dropped %d event(s): %v", len(msgs), err)
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(msg.Event)},
		},
	})
	if err != nil {
		return fmt.Errorf("publishing %s to kafka: %w", msg.Event, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
