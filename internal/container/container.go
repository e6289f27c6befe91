// Package container wires the application's services with samber/do.
package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/babyurl/internal/expiry"
	"github.com/serroba/babyurl/internal/handlers"
	"github.com/serroba/babyurl/internal/health"
	"github.com/serroba/babyurl/internal/lifecycle"
	"github.com/serroba/babyurl/internal/logging"
	"github.com/serroba/babyurl/internal/messaging"
	"github.com/serroba/babyurl/internal/middleware"
	"github.com/serroba/babyurl/internal/qr"
	"github.com/serroba/babyurl/internal/shortener"
	"github.com/serroba/babyurl/internal/store"
	"github.com/serroba/babyurl/internal/web"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	// ServerWorkers names the background group run by the HTTP server.
	ServerWorkers = "workers.server"
	// ConsumerWorkers names the group run by the standalone consumer.
	ConsumerWorkers = "workers.consumer"

	consumerGroup  = "babyurl"
	connectTimeout = 10 * time.Second
)

// ErrNothingToConsume is returned when the standalone consumer has no work
// under the current options.
var ErrNothingToConsume = errors.New("consumer needs --cache with --event-bus redis")

// RedisConn owns the shared Redis client.
type RedisConn struct {
	Client *redis.Client
}

// Shutdown closes the client.
func (c *RedisConn) Shutdown() error {
	return c.Client.Close()
}

// PostgresConn owns the shared pgx pool.
type PostgresConn struct {
	Pool *pgxpool.Pool
}

// Shutdown closes the pool.
func (c *PostgresConn) Shutdown() error {
	c.Pool.Close()

	return nil
}

// MongoConn owns the shared Mongo client.
type MongoConn struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Shutdown disconnects the client.
func (c *MongoConn) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return c.Client.Disconnect(ctx)
}

// Storage is the repository stack selected by Options.
type Storage struct {
	Repository shortener.Repository
	// Sweeper is nil when the backend expires records natively.
	Sweeper shortener.Sweeper
	// Cache is nil unless Redis caching is enabled.
	Cache *store.RedisCacheRepository
}

// LoggerPackage provides *zap.Logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return logging.New(logging.Config{
			Format: opts.LogFormat,
			Level:  opts.LogLevel,
			File:   opts.LogFile,
		})
	})
}

// RedisPackage provides *RedisConn.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)

		client := redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return nil, fmt.Errorf("connect to redis at %s: %w", opts.RedisAddr, err)
		}

		return &RedisConn{Client: client}, nil
	})
}

// PostgresPackage provides *PostgresConn.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresConn, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return &PostgresConn{Pool: pool}, nil
	})
}

// MongoPackage provides *MongoConn.
func MongoPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*MongoConn, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("create mongo client: %w", err)
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)

			return nil, fmt.Errorf("connect to mongo: %w", err)
		}

		return &MongoConn{Client: client, Database: client.Database(opts.MongoDatabase)}, nil
	})
}

// RepositoryPackage provides *Storage for the configured backend, creating
// schema and indexes on first use.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Storage, error) {
		opts := do.MustInvoke[*Options](i)
		ttl := opts.TTL()

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		storage := &Storage{}

		switch opts.Storage {
		case StorageMemory:
			mem := store.NewMemoryStore(ttl)
			storage.Repository, storage.Sweeper = mem, mem
		case StorageRedis:
			conn, err := do.Invoke[*RedisConn](i)
			if err != nil {
				return nil, err
			}

			storage.Repository = store.NewRedisStore(conn.Client, ttl)
		case StoragePostgres:
			conn, err := do.Invoke[*PostgresConn](i)
			if err != nil {
				return nil, err
			}

			pg := store.NewPostgresStore(conn.Pool, ttl)
			if err := pg.Migrate(ctx); err != nil {
				return nil, err
			}

			storage.Repository, storage.Sweeper = pg, pg
		case StorageMongo:
			conn, err := do.Invoke[*MongoConn](i)
			if err != nil {
				return nil, err
			}

			mg := store.NewMongoStore(conn.Database, ttl)
			if err := mg.EnsureIndexes(ctx); err != nil {
				return nil, err
			}

			storage.Repository = mg
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}

		if opts.Cache {
			conn, err := do.Invoke[*RedisConn](i)
			if err != nil {
				return nil, err
			}

			storage.Cache = store.NewRedisCacheRepository(storage.Repository, conn.Client, opts.CacheTTL(), ttl)
			storage.Repository = storage.Cache

			if storage.Sweeper != nil {
				storage.Sweeper = storage.Cache
			}
		}

		return storage, nil
	})
}

// ServicePackage provides *shortener.Store and *shortener.Service.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		storage, err := do.Invoke[*Storage](i)
		if err != nil {
			return nil, err
		}

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewStore(storage.Repository, generator, opts.CodeLength, opts.TTL(),
			shortener.WithMaxAttempts(opts.MaxAttempts),
			shortener.WithLogger(logger.Named("store")),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		s, err := do.Invoke[*shortener.Store](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(s, opts.PublicBaseURL(), qr.NewEncoder(opts.QRSize)), nil
	})
}

// MessagingPackage provides the lifecycle event *messaging.Bus.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.Bus, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.EventBus != BusRedis {
			return messaging.NewMemoryBus(logger), nil
		}

		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewRedisBus(conn.Client, consumerGroup, logger)
	})
}

// SweeperPackage provides the background worker groups: the server group runs
// the expiry sweeper, plus the cache evictor when events stay in process; the
// consumer group runs the evictor against the Redis stream.
func SweeperPackage(injector *do.Injector) {
	do.ProvideNamed(injector, ServerWorkers, func(i *do.Injector) (*messaging.Group, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		storage, err := do.Invoke[*Storage](i)
		if err != nil {
			return nil, err
		}

		bus, err := do.Invoke[*messaging.Bus](i)
		if err != nil {
			return nil, err
		}

		group := messaging.NewGroup(logger)

		if storage.Sweeper != nil {
			publish := messaging.NewPublishFunc[lifecycle.AssociationExpired](
				bus.Publisher, lifecycle.TopicAssociationExpired)

			group.Add("sweeper", expiry.New(storage.Sweeper, opts.TTL(), opts.SweepInterval(), logger,
				expiry.WithPublisher(publish)))
		}

		if storage.Cache != nil && opts.EventBus == BusMemory {
			group.Add("cache-evictor", newCacheEvictor(bus, storage.Cache, logger))
		}

		return group, nil
	})

	do.ProvideNamed(injector, ConsumerWorkers, func(i *do.Injector) (*messaging.Group, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if !opts.Cache || opts.EventBus != BusRedis {
			return nil, ErrNothingToConsume
		}

		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		bus, err := do.Invoke[*messaging.Bus](i)
		if err != nil {
			return nil, err
		}

		// The evictor only touches Redis, so the consumer does not need the
		// primary backend.
		cache := store.NewRedisCacheRepository(nil, conn.Client, opts.CacheTTL(), opts.TTL())

		group := messaging.NewGroup(logger)
		group.Add("cache-evictor", newCacheEvictor(bus, cache, logger))

		return group, nil
	})
}

func newCacheEvictor(bus *messaging.Bus, cache lifecycle.Evicter, logger *zap.Logger) messaging.Runnable {
	return messaging.NewConsumer(
		bus.Subscriber,
		lifecycle.TopicAssociationExpired,
		lifecycle.NewCacheEvictor(cache, logger),
		logger,
	)
}

// HTTPPackage provides the chi router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(
			middleware.RequestMetaHandler,
			middleware.RequestLogger(logger.Named("http")),
			chimw.Recoverer,
			middleware.CORS(opts.CORSOrigins),
		)

		web.RegisterRoutes(router)

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		checkers, err := healthCheckers(i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))

		health.RegisterRoutes(api, health.NewHandler(checkers))
		handlers.RegisterRoutes(api, handlers.NewURLHandler(service, logger.Named("handlers")))

		return api, nil
	})
}

func healthCheckers(i *do.Injector) (map[string]health.Checker, error) {
	opts := do.MustInvoke[*Options](i)
	checkers := map[string]health.Checker{}

	if opts.UsesRedis() {
		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		checkers["redis"] = health.NewRedisChecker(conn.Client)
	}

	switch opts.Storage {
	case StoragePostgres:
		conn, err := do.Invoke[*PostgresConn](i)
		if err != nil {
			return nil, err
		}

		checkers["postgres"] = health.NewPostgresChecker(conn.Pool)
	case StorageMongo:
		conn, err := do.Invoke[*MongoConn](i)
		if err != nil {
			return nil, err
		}

		checkers["mongo"] = health.NewMongoChecker(conn.Client)
	}

	return checkers, nil
}

// RegisterServer registers every package the HTTP server needs.
func RegisterServer(injector *do.Injector, opts *Options) {
	do.ProvideValue(injector, opts)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	MongoPackage(injector)
	RepositoryPackage(injector)
	ServicePackage(injector)
	MessagingPackage(injector)
	SweeperPackage(injector)
	HTTPPackage(injector)
}
