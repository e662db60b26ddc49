package main

import (
	"os"
	"os/signal"
	"syscall"

	"pythia/internal/bootstrap"
	"pythia/pkg/logger"
)

func main() {
	container := bootstrap.NewContainer()
	container.MustInit()
	defer logger.Sync()

	log := container.Log
	log.Info("System initialized successfully")

	// Run the HTTP server; a startup failure takes the process down
	errCh := make(chan error, 1)
	go func() {
		errCh <- container.StartHTTP()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("Received signal %s, shutting down...", sig)
	case err := <-errCh:
		if err != nil {
			log.Errorf("HTTP server failed: %v", err)
		}
	}

	container.Shutdown()
}
