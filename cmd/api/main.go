package main

import (
	"os"

	"github.com/unicen/alumni-registry/internal/pkg/logger"
	"github.com/unicen/alumni-registry/internal/server"
)

// @title UNICEN Alumni Registry API
// @version 1.0
// @description Backend for the UNICEN graduate registry and world map

// @contact.name API Support
// @contact.email sistemas@alumni.unicen.edu.ar

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}
}
