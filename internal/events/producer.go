package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer lazily manages one Kafka writer per topic. A nil *Producer is
// valid and publishes nothing, so hosts without brokers skip events
// without conditional wiring.
type Producer struct {
	brokers []string
	logger  *zap.Logger
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewProducer creates a Producer for the given brokers. Returns nil when
// no brokers are configured.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		brokers: brokers,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

// Publish marshals the payload and writes it keyed by user ID, so one
// user's events stay on one partition. Errors are logged, not returned:
// event delivery must never fail a dialogue flow.
func (p *Producer) Publish(ctx context.Context, topic, userID string, payload any) {
	if p == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshal event", zap.String("topic", topic), zap.Error(err))
		return
	}

	writer := p.writerForTopic(topic)
	msg := kafka.Message{
		Key:   []byte(userID),
		Value: body,
	}
	if err := writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish event",
			zap.String("topic", topic),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (p *Producer) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
