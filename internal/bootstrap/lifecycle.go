package bootstrap

import (
	"context"
	"time"

	"pythia/internal/adapters/kafka"
	mongoclient "pythia/internal/adapters/mongo"
	redisclient "pythia/internal/adapters/redis"
	"pythia/internal/api"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// Lifecycle manages graceful startup and shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 30 * time.Second,
	}
}

// Shutdown performs coordinated cleanup in the correct order:
// 1. HTTP server stops accepting requests and drains in-flight batches
// 2. Kafka producer flushes pending events
// 3. Redis closes
// 4. MongoDB closes last, in-flight batches may still be writing
// 5. Error tracker flushes
func (l *Lifecycle) Shutdown(
	httpServer *api.Server,
	kafkaProducer *kafka.Producer,
	redisClient *redisclient.Client,
	mongoClient *mongoclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer cancel()

	log.Info("[1/5] Stopping HTTP server...")
	if httpServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 15*time.Second)
		if err := httpServer.Shutdown(httpCtx); err != nil {
			log.Errorf("HTTP server shutdown failed: %v", err)
		}
		httpCancel()
	}

	log.Info("[2/5] Closing Kafka producer...")
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Errorf("Kafka producer close failed: %v", err)
		} else {
			log.Info("✓ Kafka producer closed")
		}
	}

	log.Info("[3/5] Closing Redis...")
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorf("Redis close failed: %v", err)
		} else {
			log.Info("✓ Redis closed")
		}
	}

	log.Info("[4/5] Closing MongoDB...")
	if mongoClient != nil {
		mongoCtx, mongoCancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		if err := mongoClient.Close(mongoCtx); err != nil {
			log.Errorf("MongoDB close failed: %v", err)
		} else {
			log.Info("✓ MongoDB closed")
		}
		mongoCancel()
	}

	log.Info("[5/5] Flushing error tracker...")
	if errorTracker != nil {
		flushCtx, flushCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		if err := errorTracker.Flush(flushCtx); err != nil {
			log.Errorf("Error tracker flush failed: %v", err)
		}
		flushCancel()
	}

	log.Info("Shutdown complete")
}
