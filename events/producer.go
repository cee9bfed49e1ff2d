package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"food-ordering-api/models"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

const (
	OrderCreatedTopic       = "order.created"
	OrderStatusChangedTopic = "order.status_changed"
	OrderCancelledTopic     = "order.cancelled"
)

type OrderEvent struct {
	OrderID        uint               `json:"orderId"`
	UserID         uint               `json:"userId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    float64            `json:"totalAmount"`
	ChangedBy      uint               `json:"changedBy,omitempty"`
	Forced         bool               `json:"forced,omitempty"`
	EventTime      time.Time          `json:"eventTime"`
}

// Publisher sends order lifecycle events somewhere other services can see
// them.
type Publisher interface {
	Publish(ctx context.Context, topic string, event OrderEvent) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

func NewKafkaProducer(brokers []string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaProducerWith(producer, logger), nil
}

// NewKafkaProducerWith wraps an existing sarama producer.
func NewKafkaProducerWith(producer sarama.SyncProducer, logger *logrus.Logger) *KafkaProducer {
	return &KafkaProducer{producer: producer, logger: logger}
}

func (p *KafkaProducer) Publish(ctx context.Context, topic string, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.EventTime.IsZero() {
		event.EventTime = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to send message to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"order_id":  event.OrderID,
	}).Info("Event published to Kafka")

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, OrderEvent) error { return nil }
func (NopPublisher) Close() error { return nil }
