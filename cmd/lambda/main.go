package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"mood-recommender/internal/app"
	"mood-recommender/internal/config"
	"mood-recommender/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logger := logging.Setup(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx = logger.WithContext(ctx)

	h, err := app.NewHandler(ctx, cfg, app.SSMSecretLoader)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create handler")
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
