package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/model"
)

const messageIDHeader = "message-id"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes crawl messages to a topic, keyed by run id so a run
// stays on one partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(broker, topic string, logger *zap.Logger) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: false,
	}, logger)
}

func NewKafkaPublisherWithWriter(writer messageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg model.CrawlMessage) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal crawl message: %w", err)
	}

	id := uuid.NewV4().String()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.RunID),
		Value:   payload,
		Headers: []kafka.Header{{Key: messageIDHeader, Value: []byte(id)}},
		Time:    time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("write kafka message: %w", err)
	}

	p.logger.Info("url enqueued",
		zap.String("messageId", id),
		zap.String("url", msg.VisitedURL),
		zap.String("runId", msg.RunID))
	return id, nil
}
