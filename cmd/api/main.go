package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/bootstrap"
	"github.com/ebatarlar/personal-finance/internal/config"
	httptransport "github.com/ebatarlar/personal-finance/internal/http"
	"github.com/ebatarlar/personal-finance/internal/http/handler"
	httpmiddleware "github.com/ebatarlar/personal-finance/internal/http/middleware"
	apimiddleware "github.com/ebatarlar/personal-finance/internal/middleware"
	"github.com/ebatarlar/personal-finance/internal/repository"
	"github.com/ebatarlar/personal-finance/internal/revocation"
	"github.com/ebatarlar/personal-finance/internal/server"
	"github.com/ebatarlar/personal-finance/internal/service"
	"github.com/ebatarlar/personal-finance/internal/telemetry"
	"github.com/ebatarlar/personal-finance/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newMongoDatabase,
			newRedisClient,
			newRevocationRegistry,
			newTokenCodec,
			newUserRepository,
			newTransactionRepository,
			newCategoryRepository,
			newAuthService,
			service.NewUserService,
			newTransactionService,
			service.NewCategoryService,
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewTransactionHandler,
			handler.NewCategoryHandler,
			httpmiddleware.NewAuth,
			newRateLimitTiers,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.SeedCategories, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func newMongoDatabase(lc fx.Lifecycle, cfg config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return db, nil
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newRevocationRegistry(client redis.UniversalClient) revocation.Registry {
	return revocation.NewRedisRegistry(client)
}

func newTokenCodec(cfg config.Config) *token.Codec {
	return token.NewCodec([]byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func newUserRepository(db *mongo.Database) repository.UserRepository {
	return repository.NewMongoUserRepo(db)
}

func newTransactionRepository(db *mongo.Database) repository.TransactionRepository {
	return repository.NewMongoTransactionRepo(db)
}

func newCategoryRepository(db *mongo.Database) repository.CategoryRepository {
	return repository.NewMongoCategoryRepo(db)
}

func newAuthService(users repository.UserRepository, codec *token.Codec, revoked revocation.Registry, logger *zap.Logger) *service.AuthService {
	return service.NewAuthService(users, codec, revoked, uuid.NewString, logger)
}

func newTransactionService(transactions repository.TransactionRepository, node *snowflake.Node, logger *zap.Logger) *service.TransactionService {
	return service.NewTransactionService(transactions, node, logger)
}

func newRateLimitTiers(cfg config.Config) *apimiddleware.Tiers {
	return apimiddleware.NewTiers(cfg.RateLimitAggressive, cfg.RateLimitNormal, cfg.RateLimitRelaxed)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
