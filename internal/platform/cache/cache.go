package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

// Cache stores rendered read responses per entity namespace. Writers bump a
// namespace generation instead of deleting keys, so stale entries simply stop
// being addressed and expire on their own.
type Cache interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool)
	Set(ctx context.Context, namespace, key string, val []byte)
	Invalidate(ctx context.Context, namespaces ...string)
	Enabled() bool
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// commands is the subset of the redis client the cache needs.
type commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

type redisCache struct {
	log    *logger.Logger
	rdb    commands
	closer func() error
	pinger func(ctx context.Context) error
	prefix string
	ttl    time.Duration
}

// New connects to redis when cfg.Addr is set and returns a no-op cache
// otherwise.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Cache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		log.Info("Response cache disabled (REDIS_ADDR not set)")
		return Noop(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	c := newRedisCache(rdb, cfg, log)
	c.closer = rdb.Close
	c.pinger = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	log.Info("Response cache enabled", "addr", cfg.Addr, "ttl", c.ttl)
	return c, nil
}

func newRedisCache(rdb commands, cfg Config, log *logger.Logger) *redisCache {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "ecc"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCache{
		log:    log.With("service", "ResponseCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *redisCache) genKey(ns string) string {
	return c.prefix + ":gen:" + ns
}

func (c *redisCache) generation(ctx context.Context, ns string) (int64, error) {
	raw, err := c.rdb.Get(ctx, c.genKey(ns)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *redisCache) entryKey(ns string, gen int64, key string) string {
	return fmt.Sprintf("%s:%s:%d:%s", c.prefix, ns, gen, key)
}

func (c *redisCache) Get(ctx context.Context, ns, key string) ([]byte, bool) {
	gen, err := c.generation(ctx, ns)
	if err != nil {
		c.log.Warn("cache generation read failed", "namespace", ns, "error", err)
		return nil, false
	}
	val, err := c.rdb.Get(ctx, c.entryKey(ns, gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("cache read failed", "namespace", ns, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, ns, key string, val []byte) {
	gen, err := c.generation(ctx, ns)
	if err != nil {
		c.log.Warn("cache generation read failed", "namespace", ns, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.entryKey(ns, gen, key), val, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "namespace", ns, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, namespaces ...string) {
	seen := map[string]bool{}
	for _, ns := range namespaces {
		if ns == "" || seen[ns] {
			continue
		}
		seen[ns] = true
		if err := c.rdb.Incr(ctx, c.genKey(ns)).Err(); err != nil {
			c.log.Warn("cache invalidation failed", "namespace", ns, "error", err)
		}
	}
}

func (c *redisCache) Enabled() bool { return true }

func (c *redisCache) Ping(ctx context.Context) error {
	if c.pinger == nil {
		return nil
	}
	return c.pinger(ctx)
}

func (c *redisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

type noop struct{}

func Noop() Cache { return noop{} }

func (noop) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (noop) Set(context.Context, string, string, []byte)        {}
func (noop) Invalidate(context.Context, ...string)              {}
func (noop) Enabled() bool                                      { return false }
func (noop) Ping(context.Context) error                         { return nil }
func (noop) Close() error                                       { return nil }
