package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/redis/go-redis/v9"
)

const probeKey = "encoders:probe"

// Cache stores encoder probes in redis so every process shares one result.
type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.ProbeCache
var _ port.ProbeCache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetProbe(ctx context.Context) (model.EncoderSet, bool, error) {
	val, err := c.client.Get(ctx, probeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var set model.EncoderSet
	if err := json.Unmarshal(val, &set); err != nil {
		return nil, false, fmt.Errorf("unmarshal failed: %w", err)
	}
	return set, true, nil
}

func (c *Cache) SetProbe(ctx context.Context, set model.EncoderSet, ttl time.Duration) error {
	log.Printf("caching encoder probe for %s...", ttl)

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := c.client.Set(ctx, probeKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteProbe(ctx context.Context) error {
	if err := c.client.Del(ctx, probeKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
