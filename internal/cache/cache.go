package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lighten/internal/config"
)

// 侧边栏缓存键
const (
	KeyHotCourses         = "sidebar:hot_courses"
	KeyHotOrganizations   = "sidebar:hot_orgs"
	KeyTeacherLeaderboard = "sidebar:hot_teachers"

	SidebarTTL = 10 * time.Minute
)

// Cache 封装了侧边栏热门榜单使用的 Redis 缓存。
// 空指针安全：未配置 Redis 时所有方法直接落空，调用方回源数据库。
type Cache struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// New 创建 Redis 连接并执行 Ping 健康检查
func New(cfg config.RedisConfig, logger *zap.Logger) (*Cache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))
	return &Cache{rdb: rdb, logger: logger}, nil
}

// GetJSON 读取并反序列化缓存值，命中返回 true。出错按未命中处理。
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON 序列化并写入缓存值。写入失败只记日志。
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close 关闭 Redis 连接
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
