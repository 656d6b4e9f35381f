package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	mailmemory "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/memory"
	mailminio "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/minio"
	mailobs "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/observability"
	mailresend "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/resend"
	mailsendgrid "github.com/Apurer/spottythings-api/internal/domains/mail/adapters/sendgrid"
	mailapp "github.com/Apurer/spottythings-api/internal/domains/mail/application"
	mailports "github.com/Apurer/spottythings-api/internal/domains/mail/ports"
	usermemory "github.com/Apurer/spottythings-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/spottythings-api/internal/domains/users/adapters/observability"
	usermongo "github.com/Apurer/spottythings-api/internal/domains/users/adapters/persistence/mongo"
	userpostgres "github.com/Apurer/spottythings-api/internal/domains/users/adapters/persistence/postgres"
	userredis "github.com/Apurer/spottythings-api/internal/domains/users/adapters/redis"
	"github.com/Apurer/spottythings-api/internal/domains/users/adapters/tokens"
	userapp "github.com/Apurer/spottythings-api/internal/domains/users/application"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
	"github.com/Apurer/spottythings-api/internal/platform/migrations"
	platformmongo "github.com/Apurer/spottythings-api/internal/platform/mongo"
	platformobservability "github.com/Apurer/spottythings-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/spottythings-api/internal/platform/postgres"
	platformredis "github.com/Apurer/spottythings-api/internal/platform/redis"
)

// UserStack is the decorated users service plus the stores backing it.
type UserStack struct {
	Service userports.Service
	// Purger is set when revoked tokens live in Postgres and need periodic cleanup.
	Purger *userpostgres.RevocationStore
	// Persistent reports whether users live in a store shared with other processes.
	Persistent bool
}

// BuildUserStack selects storage from DB_URI and REDIS_URL. Unreachable backends fall back to memory.
func BuildUserStack(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*UserStack, func(), error) {
	logger := instruments.Logger
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repo, db, closeRepo := buildUserRepository(ctx, cfg, logger)
	cleanups = append(cleanups, closeRepo)

	_, inMemory := repo.(*usermemory.Repository)
	stack := &UserStack{Persistent: !inMemory}
	var revocations userports.RevocationStore
	if cfg.RedisURL != "" {
		rdb, err := platformredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("failed to connect to redis, falling back", slog.String("error", err.Error()))
		} else {
			cleanups = append(cleanups, func() { _ = rdb.Close() })
			revocations = userredis.NewRevocationStore(rdb)
			logger.Info("token revocation store configured with redis")
		}
	}
	if revocations == nil && db != nil {
		store := userpostgres.NewRevocationStore(db)
		stack.Purger = store
		revocations = store
		logger.Info("token revocation store configured with postgres")
	}
	if revocations == nil {
		logger.Warn("token revocations kept in memory")
		revocations = usermemory.NewRevocationStore()
	}

	issuer, err := tokens.NewIssuer(cfg.Secret, tokens.WithTTL(cfg.TokenLifetime()))
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	core := userapp.NewService(repo, issuer, userapp.WithRevocationStore(revocations))
	stack.Service = userobs.New(
		core,
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	return stack, cleanup, nil
}

func buildUserRepository(ctx context.Context, cfg Config, logger *slog.Logger) (userports.Repository, *gorm.DB, func()) {
	uri := cfg.DBURI
	switch {
	case uri == "":
		logger.Warn("DB_URI not set, falling back to in-memory user repository")
	case platformmongo.IsMongoURI(uri):
		client, err := platformmongo.Connect(ctx, uri)
		if err != nil {
			logger.Warn("failed to connect to mongo, falling back to memory", slog.String("error", err.Error()))
			break
		}
		repo := usermongo.NewRepository(client.Database(platformmongo.DatabaseName(uri, cfg.MongoDatabase)))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to create mongo indexes", slog.String("error", err.Error()))
		}
		logger.Info("user repository configured with mongo")
		return repo, nil, func() { _ = client.Disconnect(context.Background()) }
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		db, closeDB := platformpostgres.ConnectOrNil(ctx, uri, logger)
		if db == nil {
			break
		}
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
			closeDB()
			break
		}
		logger.Info("user repository configured with postgres")
		return userpostgres.NewRepository(db), db, closeDB
	default:
		logger.Warn("unsupported DB_URI scheme, falling back to in-memory user repository")
	}
	return usermemory.NewRepository(), nil, func() {}
}

// BuildMailService wires the configured provider and the optional sent-mail archive.
func BuildMailService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (mailports.Service, error) {
	logger := instruments.Logger
	var sender mailports.Sender
	switch cfg.Mail.Provider {
	case MailProviderSendGrid:
		s, err := mailsendgrid.NewSender(cfg.Mail.SendGridAPIKey, cfg.Mail.From, cfg.Mail.FromName, mailsendgrid.WithHost(cfg.Mail.SendGridHost))
		if err != nil {
			return nil, fmt.Errorf("sendgrid sender: %w", err)
		}
		sender = s
	case MailProviderResend:
		s, err := mailresend.NewSender(cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Mail.FromName)
		if err != nil {
			return nil, fmt.Errorf("resend sender: %w", err)
		}
		sender = s
	default:
		logger.Warn("MAIL_PROVIDER is memory, e-mail is recorded but not delivered")
		sender = mailmemory.NewOutbox()
	}

	opts := []mailapp.Option{mailapp.WithLogger(logger)}
	if cfg.Minio.Endpoint != "" {
		archive, err := mailminio.NewArchive(ctx, mailminio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			logger.Warn("mail archive unavailable", slog.String("error", err.Error()))
		} else {
			opts = append(opts, mailapp.WithArchive(archive))
			logger.Info("mail archive configured with minio", slog.String("bucket", cfg.Minio.Bucket))
		}
	}
	return mailobs.New(
		mailapp.NewService(sender, opts...),
		mailobs.WithLogger(logger),
		mailobs.WithTracer(instruments.Tracer("internal.mail.application")),
		mailobs.WithMeter(instruments.Meter("internal.mail.application")),
	), nil
}
