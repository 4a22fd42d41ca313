package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	kafkautils "github.com/marketbay/shopfront/pkg/kafka"
	"github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"go.uber.org/zap"
)

type PaymentEventPublisher interface {
	PublishPaymentEvent(event views.PaymentEvent) error
	Close()
}

type PaymentEventPublisherImpl struct {
	logger   *zap.Logger
	producer *kafka.Producer
	cnf      *configs.Config
}

// NewPaymentEventPublisher creates the payment-events producer and ensures
// the topics exist.
func NewPaymentEventPublisher(logger *zap.Logger, ctx context.Context, cnf *configs.Config) PaymentEventPublisher {
	topicConfig := kafkautils.KafkaConfig{
		BootstrapServers: cnf.KafkaBrokers,
		Topics: []kafkautils.TopicConfig{
			{
				Topic:             cnf.KafkaPaymentTopic,
				NumPartitions:     int(cnf.KafkaPartition),
				ReplicationFactor: 1,
				Config: map[string]string{
					"cleanup.policy": "delete",
					"retention.ms":   fmt.Sprintf("%d", cnf.KafkaPaymentRetention.Milliseconds()),
				},
			},
			{
				Topic:             cnf.KafkaNotifyDLQTopic,
				NumPartitions:     1,
				ReplicationFactor: 1,
				Config: map[string]string{
					"cleanup.policy": "delete",
					"retention.ms":   fmt.Sprintf("%d", cnf.KafkaPaymentRetention.Milliseconds()),
				},
			},
		},
	}
	err := kafkautils.InitKafkaTopics(logger, ctx, topicConfig)
	if err != nil {
		logger.Fatal("failed to initialize kafka topics", zap.Error(err))
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cnf.KafkaBrokers, // Kafka broker(s)
		"acks":               "all",            // Wait for all replicas
		"enable.idempotence": "true",           // Ensure messages are not sent twice
		"retries":            "1",              // Built-in retry mechanism
	})
	if err != nil {
		logger.Fatal("failed to create kafka producer", zap.Error(err))
	}
	logger.Info("kafka producer created successfully", zap.String("brokers", cnf.KafkaBrokers))
	go handleDeliveryReports(logger, p) // Async error handling
	return &PaymentEventPublisherImpl{
		logger:   logger,
		cnf:      cnf,
		producer: p,
	}
}

func (k PaymentEventPublisherImpl) PublishPaymentEvent(event views.PaymentEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Deterministic partitioning by order code so redeliveries for the same
	// order stay ordered.
	h := fnv.New32a()
	_, _ = h.Write([]byte(event.OrderCode))
	partition := int32(h.Sum32() % k.cnf.KafkaPartition)

	// Produce asynchronously; delivery results are handled by handleDeliveryReports
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.cnf.KafkaPaymentTopic,
			Partition: partition,
		},
		Key:   []byte(event.OrderCode),
		Value: msgBytes,
	}, nil)
}

func (k PaymentEventPublisherImpl) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}

func handleDeliveryReports(logger *zap.Logger, p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.Error("failed to publish message", zap.Error(ev.TopicPartition.Error))
			}
		}
	}
}
