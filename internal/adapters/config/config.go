package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"pythia/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Binance       BinanceConfig
	CoinGecko     CoinGeckoConfig
	Ingest        IngestConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"pythia"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type MongoConfig struct {
	URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGO_DB" default:"social_media_analysis"`
	// Collections match the original deployment's naming
	EntryCollection     string `envconfig:"MONGO_ENTRY_COLLECTION" default:"sentiment_details"`
	AggregateCollection string `envconfig:"MONGO_AGGREGATE_COLLECTION" default:"sentiment_average"`
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	// Empty broker list disables event publishing
	Brokers []string `envconfig:"KAFKA_BROKERS"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type BinanceConfig struct {
	BaseURL           string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
	RequestsPerMinute int           `envconfig:"BINANCE_REQUESTS_PER_MINUTE" default:"1200"`
	Timeout           time.Duration `envconfig:"BINANCE_TIMEOUT" default:"10s"`
}

type CoinGeckoConfig struct {
	BaseURL string        `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com"`
	Timeout time.Duration `envconfig:"COINGECKO_TIMEOUT" default:"10s"`
}

type IngestConfig struct {
	// PriceEnabled turns on the per-entry price fallback chain. With it off the
	// service behaves like the pre-price revisions: entries carry no price and
	// the aggregate price is a single current spot lookup for the batch keyword.
	PriceEnabled bool `envconfig:"INGEST_PRICE_ENABLED" default:"true"`

	// StoreEmptyAggregate controls what happens when no entry contributed a
	// sentiment score: store an aggregate with absent averages, or skip storage
	// and report "no average stored".
	StoreEmptyAggregate bool `envconfig:"INGEST_STORE_EMPTY_AGGREGATE" default:"true"`

	// LookupTimeout bounds each external price-source call
	LookupTimeout time.Duration `envconfig:"INGEST_LOOKUP_TIMEOUT" default:"5s"`

	// PriceCacheTTL bounds how long a resolved per-minute price stays cached
	PriceCacheTTL time.Duration `envconfig:"INGEST_PRICE_CACHE_TTL" default:"10m"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
