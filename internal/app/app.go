// Package app wires configuration into live clients and services shared by
// the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/cache"
	"github.com/iceprop/prop-lab/internal/config"
	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/nbastats"
	"github.com/iceprop/prop-lab/internal/store"
	"github.com/iceprop/prop-lab/internal/worker"
)

// NewLogger builds a development logger for ENV=development and a
// production logger otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Deps holds the open connections and the services built on them.
type Deps struct {
	Postgres   *pgxpool.Pool
	Redis      *redis.Client
	ClickHouse driver.Conn

	Pool      *worker.Pool
	Store     *store.PostgresStore
	Installer *store.SchemaInstaller

	Props  logic.PropService
	Roster logic.RosterService
	Board  logic.BoardService
}

// Connect opens every database and builds the services. The archive pool
// is created but not started.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	d := &Deps{}

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	d.Postgres = pg

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	d.Redis = redis.NewClient(opts)
	if err := d.Redis.Ping(ctx).Err(); err != nil {
		d.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("parse clickhouse url: %w", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("connect clickhouse: %w", err)
	}
	d.ClickHouse = ch
	if err := ch.Ping(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	d.Pool = worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.ArchiveWorkers,
		QueueSize:     cfg.ArchiveQueueSize,
		BatchSize:     cfg.ArchiveBatchSize,
		FlushInterval: cfg.ArchiveFlushInterval,
		ClickHouse:    ch,
		Logger:        logger,
	})

	source := nbastats.NewClient(nbastats.Config{
		BaseURL:    cfg.NBAStatsBaseURL,
		Timeout:    cfg.NBAStatsTimeout,
		MaxRetries: cfg.NBAStatsMaxRetries,
		Logger:     logger,
	})
	logCache := cache.New(d.Redis, cache.Config{
		GameLogTTL: cfg.GameLogTTL,
		RosterTTL:  cfg.RosterTTL,
	})
	d.Store = store.NewPostgresStore(pg)
	d.Installer = store.NewSchemaInstaller(pg, ch, logger)

	d.Roster = logic.NewRosterService(logic.RosterConfig{
		Source: source,
		Store:  d.Store,
		Cache:  logCache,
		Queue:  d.Pool,
		Logger: logger,
	})
	d.Props = logic.NewPropService(logic.PropConfig{
		Source:          source,
		Cache:           logCache,
		Archive:         store.NewArchiveReader(ch),
		Queue:           d.Pool,
		Roster:          d.Roster,
		Boards:          d.Store,
		DefaultOpponent: cfg.DefaultOpponent,
		Logger:          logger,
	})
	d.Board = logic.NewBoardService(d.Store, cfg.DefaultOpponent, logger)

	return d, nil
}

// Close releases every open connection. The archive pool must be stopped
// first so its final flush can reach ClickHouse.
func (d *Deps) Close() {
	if d.ClickHouse != nil {
		d.ClickHouse.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}
