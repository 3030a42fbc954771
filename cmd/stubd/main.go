package main

import (
	"fmt"
	"moneta/internal/config"
	"moneta/internal/logger"
	"moneta/internal/remote"
	"net/http"
	"os"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("MONETA_ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// In-memory backend: state lives for the lifetime of the process. Meant
	// for development and manual sync testing, not production.
	server := remote.NewStubServer(remote.NewMemStore())

	log.Infof("Starting Moneta stub backend on %s", appConfig.StubAddr)
	return http.ListenAndServe(appConfig.StubAddr, server.Handler())
}
