package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	userpostgres "github.com/Apurer/spottythings-api/internal/domains/users/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/spottythings-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/spottythings-api/internal/platform/postgres"
)

// session-purger deletes expired rows from revoked_tokens. It is meant to run from cron.
func main() {
	_ = godotenv.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := platformobservability.NewLogger(os.Stdout, platformobservability.ParseLevel(os.Getenv("LOG_LEVEL")))
	dsn := strings.TrimSpace(os.Getenv("DB_URI"))
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		log.Fatal("DB_URI must point at postgres to purge revoked tokens")
	}
	db, cleanup := platformpostgres.ConnectOrNil(ctx, dsn, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("postgres connection failed; cannot purge revoked tokens")
	}

	purged, err := userpostgres.NewRevocationStore(db).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge revoked tokens: %v", err)
	}
	logger.Info("revoked token purge completed", slog.Int64("purged", purged))
}
