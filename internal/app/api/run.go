package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	mailclient "github.com/avetrov/go-shop-api/internal/clients/mail"
	revokermemory "github.com/avetrov/go-shop-api/internal/domains/auth/adapters/memory"
	authredis "github.com/avetrov/go-shop-api/internal/domains/auth/adapters/redis"
	authapp "github.com/avetrov/go-shop-api/internal/domains/auth/application"
	authports "github.com/avetrov/go-shop-api/internal/domains/auth/ports"
	catalogpostgres "github.com/avetrov/go-shop-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/avetrov/go-shop-api/internal/domains/catalog/application"
	catalogports "github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
	ordersmemory "github.com/avetrov/go-shop-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/avetrov/go-shop-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/avetrov/go-shop-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/avetrov/go-shop-api/internal/domains/orders/application"
	orderports "github.com/avetrov/go-shop-api/internal/domains/orders/ports"
	usersmemory "github.com/avetrov/go-shop-api/internal/domains/users/adapters/memory"
	usersobs "github.com/avetrov/go-shop-api/internal/domains/users/adapters/observability"
	userspostgres "github.com/avetrov/go-shop-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/avetrov/go-shop-api/internal/domains/users/application"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
	"github.com/avetrov/go-shop-api/internal/platform/migrations"
	platformobservability "github.com/avetrov/go-shop-api/internal/platform/observability"
	platformpostgres "github.com/avetrov/go-shop-api/internal/platform/postgres"
	httpapi "github.com/avetrov/go-shop-api/internal/transport/http"
)

// Run boots the shop HTTP API with observability, repositories, and auth wired.
func Run(ctx context.Context) error {
	const serviceName = "shop-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.Config{
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectPostgres(ctx, cfg, logger)
	defer cleanupDB()

	ordersStore, catalogRepo, usersRepo := buildRepositories(db, logger)

	usersService := usersobs.New(
		userapp.NewService(usersRepo),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	catalogService := catalogapp.NewService(catalogRepo)

	coreOrders := orderapp.NewService(ordersStore)
	ordersService := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	revoker, cleanupRedis := buildRevoker(ctx, cfg, logger)
	defer cleanupRedis()

	issuer := authapp.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authService := authapp.NewService(usersService, issuer, buildMailer(cfg, logger), revoker)

	router := httpapi.NewRouter(serviceName, httpapi.Services{
		Auth:    authService,
		Users:   usersService,
		Catalog: catalogService,
		Orders:  ordersService,
	})

	addr := ":" + cfg.Port
	logger.Info("shop API listening", slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil {
		logger.Error("shop API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	db, cleanup := platformpostgres.ConnectWithFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return nil, cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repositories", slog.String("error", err.Error()))
		cleanup()
		return nil, func() {}
	}
	return db, cleanup
}

// buildRepositories picks the persistence stack. With postgres, the orders
// store and catalog repository share the products table; the in-memory
// fallback shares one dataset the same way.
func buildRepositories(db *gorm.DB, logger *slog.Logger) (orderports.Store, catalogports.Repository, userports.Repository) {
	if db != nil {
		return orderspostgres.NewStore(db), catalogpostgres.NewRepository(db), userspostgres.NewRepository(db)
	}
	logger.Info("repositories configured in-memory")
	shared := ordersmemory.NewStore()
	return shared, ordersmemory.NewCatalog(shared), usersmemory.NewRepository()
}

func buildRevoker(ctx context.Context, cfg Config, logger *slog.Logger) (authports.TokenRevoker, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, keeping token denylist in memory")
		return revokermemory.NewRevoker(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to redis, keeping token denylist in memory", slog.String("error", err.Error()))
		_ = client.Close()
		return revokermemory.NewRevoker(), func() {}
	}
	logger.Info("token denylist configured with redis", slog.String("addr", cfg.RedisAddr))
	return authredis.NewRevoker(client), func() { _ = client.Close() }
}

func buildMailer(cfg Config, logger *slog.Logger) authports.Mailer {
	if cfg.MailAPIKey == "" {
		logger.Warn("MAIL_API_KEY not set, verification codes will be logged")
		return mailclient.NewLogSender(logger)
	}
	client, err := mailclient.NewClient(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom, &http.Client{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("failed to configure mail client, verification codes will be logged", slog.String("error", err.Error()))
		return mailclient.NewLogSender(logger)
	}
	return client
}
