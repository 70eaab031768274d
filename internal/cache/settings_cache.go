// Package cache keeps the inventory settings row in Redis so that product
// listings do not hit the database for it on every request.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"innoventory-ws/internal/model"
)

const (
	settingsKey = "innoventory:settings"
	// versionKey is bumped by every Invalidate.
	versionKey = "innoventory:settings:version"
)

// absentMarker records that no settings row exists, so the fallback path
// is cached too.
const absentMarker = "absent"

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("settings cache miss")

var errStale = errors.New("settings changed while loading")

type SettingsCache interface {
	// Get returns the cached settings; a nil pointer with a nil error means
	// the absence of a settings row was cached.
	Get(ctx context.Context) (*model.InventorySettings, error)
	// Version must be read before loading the row that is passed to Set.
	Version(ctx context.Context) (int64, error)
	// Set stores settings unless Invalidate ran after version was read, in
	// which case the write is skipped and nil is returned.
	Set(ctx context.Context, version int64, settings *model.InventorySettings) error
	Invalidate(ctx context.Context) error
}

type redisSettingsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSettingsCache(rdb *redis.Client, ttl time.Duration) SettingsCache {
	return &redisSettingsCache{rdb: rdb, ttl: ttl}
}

func (c *redisSettingsCache) Get(ctx context.Context) (*model.InventorySettings, error) {
	raw, err := c.rdb.Get(ctx, settingsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "read settings cache")
	}
	if raw == absentMarker {
		return nil, nil
	}

	var settings model.InventorySettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, errors.Wrap(err, "decode cached settings")
	}
	return &settings, nil
}

func (c *redisSettingsCache) Version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, errors.Wrap(err, "read settings cache version")
}

func (c *redisSettingsCache) Set(ctx context.Context, version int64, settings *model.InventorySettings) error {
	value := absentMarker
	if settings != nil {
		payload, err := json.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "encode settings")
		}
		value = string(payload)
	}

	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, settingsKey, value, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return errors.Wrap(err, "write settings cache")
}

func (c *redisSettingsCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Del(ctx, settingsKey)
		return nil
	})
	return errors.Wrap(err, "invalidate settings cache")
}

// NewRedis parses a redis:// URL and checks connectivity.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
