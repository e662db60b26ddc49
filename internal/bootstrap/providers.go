package bootstrap

import (
	"context"
	"time"

	"pythia/internal/adapters/config"
	noopadapter "pythia/internal/adapters/errors/noop"
	sentryadapter "pythia/internal/adapters/errors/sentry"
	binanceclient "pythia/internal/adapters/exchanges/binance"
	"pythia/internal/adapters/coingecko"
	"pythia/internal/adapters/kafka"
	mongoclient "pythia/internal/adapters/mongo"
	redisclient "pythia/internal/adapters/redis"
	"pythia/internal/api"
	"pythia/internal/api/health"
	ingestapi "pythia/internal/api/ingest"
	"pythia/internal/events"
	"pythia/internal/nlp/language"
	"pythia/internal/nlp/relevance"
	"pythia/internal/nlp/sentiment"
	"pythia/internal/repository/mongo"
	"pythia/internal/services/ingest"
	"pythia/internal/services/price"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logging
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled, using noop tracker")
		return noopadapter.New()
	}

	tracker, err := sentryadapter.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Errorf("Failed to init Sentry, falling back to noop: %v", err)
		return noopadapter.New()
	}

	log.Info("✓ Sentry error tracking initialized")
	return tracker
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects data stores and event streaming
func (c *Container) MustInitInfrastructure() {
	c.Log.Info("Connecting to MongoDB...")
	ctx, cancel := context.WithTimeout(c.Context, 15*time.Second)
	defer cancel()

	mongoClient, err := mongoclient.NewClient(ctx, c.Config.Mongo)
	if err != nil {
		c.Log.Fatalf("failed to connect mongodb: %v", err)
	}
	c.Mongo = mongoClient
	c.Log.Info("✓ MongoDB connected")

	if c.Config.Redis.Enabled {
		c.Log.Info("Connecting to Redis...")
		redisClient, err := redisclient.NewClient(c.Config.Redis)
		if err != nil {
			c.Log.Fatalf("failed to connect redis: %v", err)
		}
		c.Redis = redisClient
		c.Log.Info("✓ Redis connected")
	}

	if c.Config.Kafka.Enabled() {
		c.KafkaProducer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers: c.Config.Kafka.Brokers,
		})
		c.EventPublisher = events.NewPublisher(c.KafkaProducer)
		c.Log.Info("✓ Kafka producer initialized")
	}
}

// ========================================
// Phase 3: Pipeline Components
// ========================================

// MustInitPipeline builds the NLP components, the price fallback chain, and
// the batch ingestion service
func (c *Container) MustInitPipeline() {
	c.EntryRepo = mongo.NewEntryRepository(
		c.Mongo.Database(),
		c.Config.Mongo.EntryCollection,
		c.Config.Mongo.AggregateCollection,
	)

	c.Language = language.NewLinguaDetector()
	c.Relevance = relevance.NewClassifier(relevance.NewProseRecognizer())
	c.Sentiment = sentiment.NewScorer(sentiment.NewLexicon(), sentiment.NewVADER())
	c.Log.Info("✓ NLP components initialized")

	binance := binanceclient.NewClient(binanceclient.Config{
		BaseURL:           c.Config.Binance.BaseURL,
		RequestsPerMinute: c.Config.Binance.RequestsPerMinute,
		Timeout:           c.Config.Binance.Timeout,
	})
	gecko := coingecko.NewClient(coingecko.Config{
		BaseURL: c.Config.CoinGecko.BaseURL,
		Timeout: c.Config.CoinGecko.Timeout,
	})

	var cache price.Cache
	if c.Redis != nil {
		cache = price.NewRedisCache(c.Redis, c.Config.Ingest.PriceCacheTTL)
	}

	// Fallback order: exchange history, exchange live ticker, secondary spot API
	c.PriceResolver = price.NewResolver(
		c.Config.Ingest.LookupTimeout,
		cache,
		price.NewKlineSource(binance),
		price.NewTickerSource(binance),
		price.NewSpotSource(gecko),
	)

	var publisher ingest.EventPublisher
	if c.EventPublisher != nil {
		publisher = c.EventPublisher
	}

	c.Ingest = ingest.NewService(
		c.EntryRepo,
		c.Language,
		c.Relevance,
		c.Sentiment,
		c.PriceResolver,
		publisher,
		ingest.Config{
			PriceEnabled:        c.Config.Ingest.PriceEnabled,
			StoreEmptyAggregate: c.Config.Ingest.StoreEmptyAggregate,
		},
	)
	c.Log.Info("✓ Ingestion pipeline initialized")
}

// ========================================
// Phase 4: Application Layer
// ========================================

// MustInitApplication builds the HTTP surface
func (c *Container) MustInitApplication() {
	c.HealthHandler = health.New(c.Log, c.Mongo, c.Redis, c.Config.App.Name, Version)

	ingestHandler := ingestapi.NewHandler(c.Ingest)
	c.HTTPServer = api.NewServer(api.ServerConfig{
		Port:        c.Config.HTTP.Port,
		ServiceName: c.Config.App.Name,
		Version:     Version,
	}, ingestHandler, c.HealthHandler, c.Log)
}
