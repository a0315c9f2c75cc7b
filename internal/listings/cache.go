package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "property-alerts:properties:"

// ErrCacheMiss is returned by PropertyCache.Load when nothing is cached for the key.
var ErrCacheMiss = errors.New("cache miss")

// PropertyCache stores listing snapshots keyed by the encoded search query.
type PropertyCache interface {
	Load(ctx context.Context, key string) (*Properties, error)
	Store(ctx context.Context, key string, props *Properties) error
}

// SnapshotCache keeps listing snapshots in Redis.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

const defaultCacheTTL = 15 * time.Minute

func NewSnapshotCache(cfg RedisConfig) *SnapshotCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return NewSnapshotCacheWithClient(rdb, cfg.TTL)
}

func NewSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *SnapshotCache) Load(ctx context.Context, key string) (*Properties, error) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var props Properties
	if err := json.Unmarshal(val, &props.Items); err != nil {
		return nil, fmt.Errorf("decode cached properties: %w", err)
	}
	return &props, nil
}

func (c *SnapshotCache) Store(ctx context.Context, key string, props *Properties) error {
	data, err := json.Marshal(props.Items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err()
}

func (c *SnapshotCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
