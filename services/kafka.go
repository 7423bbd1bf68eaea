package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/dtos/request"
)

type IEventPublisher interface {
	Publish(ctx context.Context, eventType request.AuthEventType, userID string)
}

// EventPublisher sends auth audit events to kafka. A nil producer turns it into a no-op.
type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

func NewEventPublisher(producer sarama.SyncProducer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic, now: time.Now}
}

// Publish is best effort. Delivery failures are logged and never fail the caller's operation.
func (p *EventPublisher) Publish(_ context.Context, eventType request.AuthEventType, userID string) {
	if p == nil || p.producer == nil {
		return
	}
	data, err := json.Marshal(&request.AuthEvent{Type: eventType, UserID: userID, OccurredAt: p.now().UTC()})
	if err != nil {
		log.Error("failed to encode auth event: ", err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(userID),
		Value: sarama.ByteEncoder(data),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.Errorf("failed to send %s event: %v", eventType, err)
		return
	}
	log.Debugf("sent %s event to partition %d at offset %d", eventType, partition, offset)
}

func (p *EventPublisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
