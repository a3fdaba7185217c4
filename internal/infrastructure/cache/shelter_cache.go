package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

const ShelterListKey = "shelters:all"

// ShelterCache keeps the public shelter list in Redis.
type ShelterCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewShelterCache(rdb *redis.Client, ttl time.Duration) *ShelterCache {
	return &ShelterCache{rdb: rdb, ttl: ttl}
}

func (c *ShelterCache) Get(ctx context.Context) ([]entity.Shelter, bool, error) {
	var list []entity.Shelter
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, ShelterListKey, &list)
	if err != nil || !ok {
		return nil, false, err
	}
	if list == nil {
		list = []entity.Shelter{}
	}
	return list, true, nil
}

func (c *ShelterCache) Set(ctx context.Context, shelters []entity.Shelter) error {
	return helpers.RedisSetJSON(ctx, c.rdb, ShelterListKey, shelters, c.ttl)
}

func (c *ShelterCache) Invalidate(ctx context.Context) error {
	return helpers.RedisDel(ctx, c.rdb, ShelterListKey)
}
