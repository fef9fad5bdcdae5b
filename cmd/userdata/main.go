// Command userdata logs every row of the users table with PII redacted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/duynhne/session-auth-service/config"
	database "github.com/duynhne/session-auth-service/internal/core"
	"github.com/duynhne/session-auth-service/internal/core/repository"
	"github.com/duynhne/session-auth-service/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	dataLog := log.With().Str("logger", "user_data").Logger()

	if cfg.Database.URL == "" {
		dataLog.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		dataLog.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	count := 0
	err = repository.NewUserRepository(pool).EachRecord(ctx, func(columns []string, values []any) error {
		dataLog.Info().Msg(logger.FormatRecord(columns, values))
		count++
		return nil
	})
	if err != nil {
		dataLog.Error().Err(err).Msg("Failed to read users")
		pool.Close()
		os.Exit(1)
	}
	dataLog.Info().Int("rows", count).Msg("User data logged")
}
