package bootstrap

import (
	"context"

	"pythia/internal/adapters/config"
	"pythia/internal/adapters/kafka"
	mongoclient "pythia/internal/adapters/mongo"
	redisclient "pythia/internal/adapters/redis"
	"pythia/internal/api"
	"pythia/internal/api/health"
	"pythia/internal/domain/entry"
	"pythia/internal/events"
	"pythia/internal/nlp/language"
	"pythia/internal/nlp/relevance"
	"pythia/internal/nlp/sentiment"
	"pythia/internal/services/ingest"
	"pythia/internal/services/price"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure Layer (data stores, optional)
	Mongo *mongoclient.Client
	Redis *redisclient.Client // nil when caching is disabled

	// Domain Layer
	EntryRepo entry.Repository

	// NLP pipeline components
	Language  *language.LinguaDetector
	Relevance *relevance.Classifier
	Sentiment *sentiment.Scorer

	// Price resolution
	PriceResolver *price.Resolver

	// Event streaming (optional)
	KafkaProducer  *kafka.Producer
	EventPublisher *events.Publisher

	// Core pipeline
	Ingest *ingest.Service

	// Application Layer
	HTTPServer    *api.Server
	HealthHandler *health.Handler

	// Lifecycle management
	Lifecycle *Lifecycle
	Context   context.Context
	Cancel    context.CancelFunc
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Lifecycle: NewLifecycle(),
		Context:   ctx,
		Cancel:    cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitPipeline()
	c.MustInitApplication()
}

// Shutdown performs coordinated cleanup of all components
func (c *Container) Shutdown() {
	c.Lifecycle.Shutdown(
		c.HTTPServer,
		c.KafkaProducer,
		c.Redis,
		c.Mongo,
		c.ErrorTracker,
		c.Log,
	)
	c.Cancel()
}

// StartHTTP runs the HTTP server, blocking until it stops
func (c *Container) StartHTTP() error {
	return c.HTTPServer.Start()
}
