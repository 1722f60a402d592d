// Package app wires configuration into the customers store, the run lock, the
// report sinks and the seed runner. The API server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/customer/repository"
	"github.com/shopseed/shopseed/internal/customer/service"
	"github.com/shopseed/shopseed/internal/database"
	"github.com/shopseed/shopseed/internal/history"
	"github.com/shopseed/shopseed/internal/lock"
	"github.com/shopseed/shopseed/internal/seed"
	"github.com/shopseed/shopseed/internal/storage"
	"github.com/shopseed/shopseed/pkg/logger"
)

// App holds the long-lived dependencies of one process.
type App struct {
	Config    *config.Config
	Customers *service.Service
	History   *history.Store
	Reports   *seed.ObjectSink
	Locker    lock.Locker

	mongo *mongo.Client
	redis *redis.Client
}

// OpenFunc builds an App from configuration.
type OpenFunc func(ctx context.Context, cfg *config.Config) (*App, error)

var connectBackoff = time.Second

// Open connects to MongoDB (required) and to Redis and MinIO when configured.
// Optional backends that fail to come up are logged and left out.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	client, err := database.ConnectWithRetry(ctx, database.ConnectMongo, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, connectBackoff)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB.Database)
	a := &App{
		Config:    cfg,
		Customers: service.NewMongoService(db.Collection(cfg.MongoDB.Collection), cfg.Seed.OrderedInserts),
		History:   history.NewStore(db.Collection(cfg.Seed.HistoryCollection)),
		mongo:     client,
	}

	if addr := cfg.Redis.Addr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis %s unreachable, seed runs are not locked: %v", addr, err)
			_ = rdb.Close()
		} else {
			a.redis = rdb
			a.Locker = lock.NewRedisLocker(rdb, "shopseed:lock:")
		}
	}

	if mc := storage.LoadMinIOConfig(); mc.Enabled() {
		st, err := storage.NewMinIOStorage(ctx, mc)
		if err != nil {
			logger.Warnf("minio unavailable, reports are not archived: %v", err)
		} else {
			a.Reports = seed.NewObjectSink(st, cfg.Seed.ReportPrefix)
		}
	}

	logger.Infof("app ready: mongo=%s/%s.%s lock=%v archive=%v",
		redactURI(cfg.MongoDB.URI), cfg.MongoDB.Database, cfg.MongoDB.Collection, a.Locker != nil, a.Reports != nil)
	return a, nil
}

// Redis returns the Redis client, or nil when Redis is not in use.
func (a *App) Redis() *redis.Client { return a.redis }

// Sinks lists the configured report destinations.
func (a *App) Sinks() []seed.ReportSink {
	var out []seed.ReportSink
	if a.History != nil {
		out = append(out, a.History)
	}
	if a.Reports != nil {
		out = append(out, a.Reports)
	}
	return out
}

// Runner returns a seed runner over the customers store with the configured
// lock, sinks and failure policy. opts are applied last.
func (a *App) Runner(opts ...seed.Option) *seed.Runner {
	base := []seed.Option{
		seed.WithTarget(a.Config.MongoDB.Database, a.Config.MongoDB.Collection),
		seed.WithContinueOnError(a.Config.Seed.ContinueOnError),
		seed.WithSinks(a.Sinks()...),
	}
	if a.Locker != nil {
		base = append(base, seed.WithLocker(a.Locker, a.Config.Seed.LockName, a.Config.Seed.LockTTL))
	}
	return seed.NewRunner(a.Customers, append(base, opts...)...)
}

// DryRun applies plan to an in-memory copy of the collection. Nothing is
// written, locked or archived.
func (a *App) DryRun(ctx context.Context, plan seed.Plan) (*seed.Report, error) {
	current, err := a.Customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot customers: %w", err)
	}
	scratch := repository.NewMemoryRepo(current...).SetOrdered(a.Config.Seed.OrderedInserts)
	r := seed.NewRunner(scratch,
		seed.WithTarget(a.Config.MongoDB.Database, a.Config.MongoDB.Collection),
		seed.WithContinueOnError(a.Config.Seed.ContinueOnError),
	)
	return r.Apply(ctx, plan)
}

// Ready pings every backend the App holds.
func (a *App) Ready(ctx context.Context) map[string]error {
	deps := map[string]error{}
	if a.mongo != nil {
		deps["mongodb"] = a.mongo.Ping(ctx, nil)
	}
	if a.redis != nil {
		deps["redis"] = a.redis.Ping(ctx).Err()
	}
	return deps
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

// redactURI masks the password of a connection string for logging.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
