// Package cache keeps short-lived copies of provider responses in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

const (
	DefaultPrefix     = "proplab"
	DefaultGameLogTTL = 300 * time.Second
	DefaultRosterTTL  = 2 * time.Hour

	scanBatch = 200
)

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "proplab_cache_lookups_total",
	Help: "Cache lookups by kind and result (hit, miss)",
}, []string{"kind", "result"})

// Config controls key prefix and entry lifetimes.
type Config struct {
	Prefix     string
	GameLogTTL time.Duration
	RosterTTL  time.Duration
}

// RedisCache implements logic.LogCache with JSON values and per-kind TTLs.
type RedisCache struct {
	client     logic.RedisClient
	prefix     string
	gameLogTTL time.Duration
	rosterTTL  time.Duration
}

var _ logic.LogCache = (*RedisCache)(nil)

func New(client logic.RedisClient, cfg Config) *RedisCache {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.GameLogTTL <= 0 {
		cfg.GameLogTTL = DefaultGameLogTTL
	}
	if cfg.RosterTTL <= 0 {
		cfg.RosterTTL = DefaultRosterTTL
	}
	return &RedisCache{
		client:     client,
		prefix:     cfg.Prefix,
		gameLogTTL: cfg.GameLogTTL,
		rosterTTL:  cfg.RosterTTL,
	}
}

func (c *RedisCache) gameLogKey(playerID int64) string {
	return fmt.Sprintf("%s:gamelog:%d", c.prefix, playerID)
}

func (c *RedisCache) rosterKey() string {
	return c.prefix + ":roster"
}

func (c *RedisCache) GetGameLog(ctx context.Context, playerID int64) (*models.GameLog, bool, error) {
	var log models.GameLog
	ok, err := c.get(ctx, "gamelog", c.gameLogKey(playerID), &log)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &log, true, nil
}

func (c *RedisCache) SetGameLog(ctx context.Context, log *models.GameLog) error {
	return c.set(ctx, c.gameLogKey(log.PlayerID), log, c.gameLogTTL)
}

func (c *RedisCache) GetRoster(ctx context.Context) ([]models.ActivePlayer, bool, error) {
	var players []models.ActivePlayer
	ok, err := c.get(ctx, "roster", c.rosterKey(), &players)
	if !ok || err != nil {
		return nil, ok, err
	}
	return players, true, nil
}

func (c *RedisCache) SetRoster(ctx context.Context, players []models.ActivePlayer) error {
	return c.set(ctx, c.rosterKey(), players, c.rosterTTL)
}

func (c *RedisCache) InvalidateRoster(ctx context.Context) error {
	return c.client.Del(ctx, c.rosterKey()).Err()
}

// Invalidate drops every key under the cache prefix.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+":*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *RedisCache) get(ctx context.Context, kind, key string, out any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		lookups.WithLabelValues(kind, "miss").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		// A corrupt entry counts as a miss; the next write replaces it.
		lookups.WithLabelValues(kind, "miss").Inc()
		return false, nil
	}
	lookups.WithLabelValues(kind, "hit").Inc()
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
