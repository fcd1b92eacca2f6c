package changefeed

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rzbill/coinlog/internal/eventlog"
)

// Header keys attached to every published record.
const (
	HeaderNamespace = "coinlog-namespace"
	HeaderEntity    = "coinlog-entity"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher forwards appended records to a Kafka topic, keyed by entity so
// that one entity's records stay in one partition.
type Publisher struct {
	writer messageWriter
}

// NewPublisher builds a synchronous writer for topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// AfterAppend implements eventlog.AppendHook.
func (p *Publisher) AfterAppend(ctx context.Context, key eventlog.EntityKey, record []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key.String()),
		Value: record,
		Headers: []kafka.Header{
			{Key: HeaderNamespace, Value: []byte(key.Namespace)},
			{Key: HeaderEntity, Value: []byte(key.ID)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
