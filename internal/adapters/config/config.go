package config

import (
	"time"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	URI                    string
	Database               string
	Timeout                time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

type RabbitMQConfig struct {
	URL             string
	MaxRetries      int
	RetryDelay      time.Duration
	ExchangeConfigs []ExchangeConfig
}

type ExchangeConfig struct {
	Name       string
	Type       string // direct, topic, fanout, headers
	Durable    bool
	AutoDelete bool
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type OutboxConfig struct {
	BatchSize int
	Interval  time.Duration
}

type HTTPConfig struct {
	Port            string
	BindInterface   string
	ShutdownTimeout time.Duration
}

type OrderConfig struct {
	MaxItems               int
	CacheTTL               time.Duration
	IdempotencyTTL         time.Duration
	IdempotencyPollEvery   time.Duration
	IdempotencyPollTimeout time.Duration
}

type RateLimitConfig struct {
	CreateOrderLimit  int
	CreateOrderWindow time.Duration
}

type LoggerConfig struct {
	Endpoint     string
	ServiceName  string
	IsProduction bool
	Level        string
}

type Config struct {
	Mongo     MongoConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Outbox    OutboxConfig
	HTTP      HTTPConfig
	Logger    LoggerConfig
	Order     OrderConfig
	RateLimit RateLimitConfig
}

func NewConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Mongo: MongoConfig{
			URI:                    getStringEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database:               getStringEnv("MONGO_DATABASE", "sales"),
			Timeout:                getDurationEnv("MONGO_TIMEOUT", 10, time.Second),
			MaxPoolSize:            getUint64Env("MONGO_MAX_POOL_SIZE", 100),
			MinPoolSize:            getUint64Env("MONGO_MIN_POOL_SIZE", 10),
			ConnectTimeout:         getDurationEnv("MONGO_CONNECT_TIMEOUT", 10, time.Second),
			ServerSelectionTimeout: getDurationEnv("MONGO_SERVER_SELECTION_TIMEOUT", 5, time.Second),
		},
		Redis: RedisConfig{
			URL:      getStringEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getStringEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Outbox: OutboxConfig{
			BatchSize: getIntEnv("OUTBOX_BATCH_SIZE", 100),
			Interval:  getDurationEnv("OUTBOX_INTERVAL", 500, time.Millisecond),
		},
		HTTP: HTTPConfig{
			Port:            getStringEnv("HTTP_PORT", "8080"),
			BindInterface:   getStringEnv("HTTP_BIND_INTERFACE", "0.0.0.0"),
			ShutdownTimeout: getDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 10, time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getStringEnv("RABBITMQ_URL", "amqp://localhost:5672"),
			MaxRetries: getIntEnv("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay: getDurationEnv("RABBITMQ_RETRY_DELAY", 1, time.Second),
			ExchangeConfigs: []ExchangeConfig{
				{
					Name:       getStringEnv("RABBITMQ_EXCHANGE_NAME", "exchange.order"),
					Type:       getStringEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
					Durable:    getBoolEnv("RABBITMQ_EXCHANGE_DURABLE", true),
					AutoDelete: getBoolEnv("RABBITMQ_EXCHANGE_AUTO_DELETE", false),
				},
			},
		},
		Logger: LoggerConfig{
			Endpoint:     getStringEnv("OTEL_ENDPOINT", "localhost:4317"),
			ServiceName:  getStringEnv("OTEL_SERVICE_NAME", "sales"),
			IsProduction: getBoolEnv("IS_PRODUCTION", false),
			Level:        getStringEnv("LOG_LEVEL", "debug"),
		},
		Order: OrderConfig{
			MaxItems:               getIntEnv("ORDER_MAX_ITEMS", 100),
			CacheTTL:               getDurationEnv("ORDER_CACHE_TTL", 900, time.Second),
			IdempotencyTTL:         getDurationEnv("IDEMPOTENCY_TTL", 86400, time.Second),
			IdempotencyPollEvery:   getDurationEnv("IDEMPOTENCY_POLL_INTERVAL", 100, time.Millisecond),
			IdempotencyPollTimeout: getDurationEnv("IDEMPOTENCY_POLL_TIMEOUT", 5000, time.Millisecond),
		},
		RateLimit: RateLimitConfig{
			CreateOrderLimit:  getIntEnv("RATE_LIMIT_CREATE_ORDER", 30),
			CreateOrderWindow: getDurationEnv("RATE_LIMIT_CREATE_ORDER_WINDOW", 60, time.Second),
		},
	}
}
