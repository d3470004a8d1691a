package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kaustack/catalog/internal/pkg/logger"
	"github.com/kaustack/catalog/internal/server"
)

// @title Catalog API
// @version 1.0
// @description Course catalog service: feed synchronization plus section, course and instructor search
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@kaustack.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// A local .env is optional; deployments carry real environment variables
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
