// Command dashctl is the admin CLI of the routing dashboard. It works on the
// same configuration and route history store as the API server.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/pkordes/routing-dashboard/internal/config"
	"github.com/pkordes/routing-dashboard/internal/logging"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Stderr, "info", "text")
	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger = logging.New(os.Stderr, cfg.LogLevel, "text")

	runner := NewRunner(RunnerOpts{Config: &cfg, Logger: logger})

	app := &cli.Command{
		Name:     "dashctl",
		Usage:    "Inspect location documents and manage the route history",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("dashctl failed", "error", err)
		os.Exit(1)
	}
}
