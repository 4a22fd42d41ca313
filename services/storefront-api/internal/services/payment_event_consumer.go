package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/go-playground/validator/v10"
	"github.com/marketbay/shopfront/pkg"
	kafkautils "github.com/marketbay/shopfront/pkg/kafka"
	"github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"github.com/marketbay/shopfront/services/storefront-api/internal/observability"
	"go.uber.org/zap"
)

// PaymentEventConsumer drains the payment-events topic into the process-local
// relay and the mail notifier.
type PaymentEventConsumer interface {
	Start() func()
}

// PaymentEventConsumerConfig holds configuration and dependencies for the
// consumer. GroupID must be unique per instance: every replica keeps its own
// relay, so every replica has to see every event.
type PaymentEventConsumerConfig struct {
	Context context.Context
	Logger  *zap.Logger
	Config  *configs.Config
	GroupID string
	Relay   Relay
	Mailer  Mailer

	// internal initialization
	consumer    *kafka.Consumer
	dlqProducer *kafka.Producer
	commits     *kafkautils.CommitManager
	validate    *validator.Validate
	notifySem   chan struct{} // Semaphore to limit concurrent notify jobs
}

// NewPaymentEventConsumer initializes a PaymentEventConsumer with the
// provided configuration.
func NewPaymentEventConsumer(cfg PaymentEventConsumerConfig) PaymentEventConsumer {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers":  cfg.Config.KafkaBrokers,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "latest", // Only events arriving while this replica is alive matter
		"enable.auto.commit": false,    // Manual offset management
	}
	kafkaConsumer, err := kafka.NewConsumer(kafkaConfig)
	if err != nil {
		cfg.Logger.Fatal("Failed to create payment event consumer", zap.Error(err))
	}

	// DLQ producer for notify jobs that exhausted their retries
	dlqProducer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Config.KafkaBrokers,
		"acks":               "all",
		"enable.idempotence": true,
	})
	if err != nil {
		cfg.Logger.Fatal("Failed to create DLQ producer", zap.Error(err))
	}

	cfg.notifySem = make(chan struct{}, cfg.Config.MaxNotifyJobs)
	cfg.consumer = kafkaConsumer
	cfg.dlqProducer = dlqProducer
	cfg.commits = kafkautils.NewCommitManager(kafkaConsumer, cfg.Logger)
	cfg.validate = validator.New()
	return &cfg
}

// Start initiates the consumption loop and returns a cleanup function.
func (k *PaymentEventConsumerConfig) Start() func() {
	err := k.consumer.SubscribeTopics([]string{k.Config.KafkaPaymentTopic}, nil)
	if err != nil {
		k.Logger.Fatal("Failed to subscribe to payment events topic", zap.Error(err))
	}

	k.Logger.Info("Listening to payment events",
		zap.String("topic", k.Config.KafkaPaymentTopic),
		zap.String("group", k.GroupID))

	go func() {
		for {
			select {
			case <-k.Context.Done():
				return
			default:
			}
			msg, err := k.consumer.ReadMessage(time.Second)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok && kerr.IsTimeout() {
					continue
				}
				k.Logger.Error("Failed to read payment event", zap.Error(err))
				continue
			}
			// Acquire semaphore slot, blocking if limit is reached
			k.notifySem <- struct{}{}
			go func(m *kafka.Message) {
				defer func() { <-k.notifySem }() // Release slot after processing
				k.processMessage(m)
			}(msg)
		}
	}()

	return func() {
		if k.dlqProducer != nil {
			k.dlqProducer.Flush(5000)
			k.dlqProducer.Close()
		}
		if err := k.consumer.Close(); err != nil {
			k.Logger.Error("Failed to close payment event consumer", zap.Error(err))
		}
		k.Logger.Info("Payment event consumer closed successfully")
	}
}

// processMessage decodes and validates one payment event, resolves local
// waiters and triggers the mail notify. Malformed events go to the DLQ and
// are committed so they never wedge the partition.
func (k *PaymentEventConsumerConfig) processMessage(msg *kafka.Message) {
	select {
	case <-k.Context.Done():
		return
	default:
	}

	var event views.PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		k.Logger.Error("Failed to decode payment event", zap.Error(err))
		observability.PaymentEventsConsumed.WithLabelValues("decode_error").Inc()
		k.sendToDLQ(event, "json unmarshal error", err.Error())
		k.commits.Ack(event.OrderCode, msg)
		return
	}

	if err := k.validate.Struct(&event); err != nil {
		k.Logger.Error("Failed to validate payment event", zap.Error(err))
		observability.PaymentEventsConsumed.WithLabelValues("validation_error").Inc()
		k.sendToDLQ(event, "validation error", err.Error())
		k.commits.Ack(event.OrderCode, msg)
		return
	}

	delivered := k.Relay.Publish(event)
	k.Logger.Info("Payment event dispatched",
		zap.String(pkg.OrderCode, event.OrderCode),
		zap.Int("waiters", delivered))

	if err := k.Mailer.Notify(k.Context, event); err != nil {
		k.Logger.Error("Failed to send mail notification, sending to DLQ",
			zap.String(pkg.OrderCode, event.OrderCode),
			zap.Error(err))
		observability.PaymentEventsConsumed.WithLabelValues("notify_failed").Inc()
		k.sendToDLQ(event, "mailNotifyError", err.Error())
		k.commits.Ack(event.OrderCode, msg)
		return
	}

	observability.PaymentEventsConsumed.WithLabelValues("ok").Inc()
	k.commits.Ack(event.OrderCode, msg)
}

// sendToDLQ sends a failed event to the Dead Letter Queue with context.
func (k *PaymentEventConsumerConfig) sendToDLQ(event views.PaymentEvent, reason, errMsg string) {
	payload := map[string]any{
		"event":         event,
		"failureReason": reason,
		"error":         errMsg,
		"failedAt":      time.Now().UTC().Format(time.RFC3339Nano),
	}

	b, err := json.Marshal(payload)
	if err != nil {
		k.Logger.Error("Failed to marshal DLQ payload",
			zap.String(pkg.OrderCode, event.OrderCode),
			zap.Error(err))
		return
	}

	err = k.dlqProducer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.Config.KafkaNotifyDLQTopic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.OrderCode),
		Value: b,
	}, nil)
	if err != nil {
		k.Logger.Error("Failed to produce DLQ message",
			zap.String(pkg.OrderCode, event.OrderCode),
			zap.Error(err))
		return
	}
	k.Logger.Info("Sent to notify DLQ",
		zap.String(pkg.OrderCode, event.OrderCode),
		zap.String("reason", reason))
}
