package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// Enabled nil 安全：未配置缓存时所有调用方直接回源
func (c *Cache) Enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 数据变更后删除对应 key
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	_ = c.RDB.Del(ctx, keys...).Err()
}
