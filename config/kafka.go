package config

import (
	"github.com/IBM/sarama"
	"github.com/gofiber/fiber/v2/log"
)

// NewSyncProducer returns nil when no brokers are configured.
func NewSyncProducer(brokers []string) sarama.SyncProducer {
	if len(brokers) == 0 {
		log.Warn("kafka brokers are not configured, auth events will not be published")
		return nil
	}
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		log.Panic("failed to create kafka sync producer: ", err)
	}
	return producer
}
