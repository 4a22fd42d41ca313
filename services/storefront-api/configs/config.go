package configs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/marketbay/shopfront/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds application configuration for storefront-api.
type Config struct {
	Port          string `mapstructure:"PORT" validate:"required"`
	PrimaryDbAddr string `mapstructure:"PRIMARY_DB_ADDR" validate:"required"`
	ReplicaDbAddr string `mapstructure:"REPLICA_DB_ADDR"`
	MaxDbCons     int32  `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons     int32  `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1"`
	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"required"`

	KafkaBrokers          string        `mapstructure:"KAFKA_BROKERS" validate:"required"`
	KafkaPaymentTopic     string        `mapstructure:"KAFKA_PAYMENT_TOPIC" validate:"required"`
	KafkaNotifyDLQTopic   string        `mapstructure:"KAFKA_NOTIFY_DLQ_TOPIC" validate:"required"`
	KafkaPaymentRetention time.Duration `mapstructure:"KAFKA_PAYMENT_RETENTION" validate:"required"`
	KafkaPartition        uint32        `mapstructure:"KAFKA_PARTITION" validate:"min=1"`

	WebhookSecret     string        `mapstructure:"WEBHOOK_SECRET"` // optional; empty disables signature checks
	WebhookRateLimit  int           `mapstructure:"WEBHOOK_RATE_LIMIT" validate:"min=1"`
	WebhookRateBurst  int           `mapstructure:"WEBHOOK_RATE_BURST" validate:"min=1"`
	WebhookDedupTTL   time.Duration `mapstructure:"WEBHOOK_DEDUP_TTL" validate:"required"`
	PaymentWaitTTL    time.Duration `mapstructure:"PAYMENT_WAIT_TTL" validate:"required"`
	BannerCacheTTL    time.Duration `mapstructure:"BANNER_CACHE_TTL" validate:"required"`
	MaxNotifyJobs     int           `mapstructure:"MAX_NOTIFY_CONCURRENT_JOBS" validate:"min=1"`
	NotifyURL         string        `mapstructure:"NOTIFY_URL"` // optional mail-notify endpoint
	NotifyMaxAttempts int           `mapstructure:"NOTIFY_MAX_ATTEMPTS" validate:"min=1"`
	NotifyBaseBackoff time.Duration `mapstructure:"NOTIFY_BASE_BACKOFF" validate:"required"`
	NotifyMaxBackoff  time.Duration `mapstructure:"NOTIFY_MAX_BACKOFF" validate:"required"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MAX_DB_CONNECTIONS", "10")
	viper.SetDefault("MIN_DB_CONNECTIONS", "2")
	viper.SetDefault("KAFKA_PARTITION", "4")
	viper.SetDefault("KAFKA_PAYMENT_TOPIC", "payment-events")
	viper.SetDefault("KAFKA_NOTIFY_DLQ_TOPIC", "payment-events-dlq")
	viper.SetDefault("KAFKA_PAYMENT_RETENTION", "24h")
	viper.SetDefault("WEBHOOK_RATE_LIMIT", "50")
	viper.SetDefault("WEBHOOK_RATE_BURST", "100")
	viper.SetDefault("WEBHOOK_DEDUP_TTL", "24h")
	viper.SetDefault("PAYMENT_WAIT_TTL", "5m")
	viper.SetDefault("BANNER_CACHE_TTL", "10m")
	viper.SetDefault("MAX_NOTIFY_CONCURRENT_JOBS", "8")
	viper.SetDefault("NOTIFY_MAX_ATTEMPTS", "3")
	viper.SetDefault("NOTIFY_BASE_BACKOFF", "500ms")
	viper.SetDefault("NOTIFY_MAX_BACKOFF", "10s")

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running_in_test_mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running_in_development_mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/storefront-api/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	// Validate after unmarshal
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
