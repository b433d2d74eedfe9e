package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishes carry one event each and flush without waiting for a batch
const flushInterval = 10 * time.Millisecond

type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           flushInterval,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish keys messages by entity id so events of one entity stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.log.Debug("publishing event",
		zap.String("type", ev.Type),
		zap.Uint("entity_id", ev.EntityID),
	)

	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(strconv.FormatUint(uint64(ev.EntityID), 10)),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(ev.Type)},
			},
		},
	)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
