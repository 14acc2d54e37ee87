package main

import (
	"os"

	"github.com/weiting/stellact/internal/pkg/logger"
	"github.com/weiting/stellact/internal/server"
)

// @title Stellact API
// @version 1.0
// @description Community action platform: actions rendered as constellations, with joins, reactions and comments

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
}
