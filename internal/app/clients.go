package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/orderdoc-backend/internal/clients/redis"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type Clients struct {
	Redis    *goredis.Client
	XMLCache redis.XMLCache
}

// wireClients dials the optional Redis XML cache. No REDIS_ADDR means no cache.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return Clients{}, nil
	}
	rdb, err := redis.Dial(cfg.Redis.Addr)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis xml cache: %w", err)
	}
	metrics.StartRedisCollector(ctx, log, rdb)
	return Clients{
		Redis:    rdb,
		XMLCache: redis.NewXMLCacheFromClient(log, rdb, cfg.Redis),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.XMLCache != nil {
		_ = c.XMLCache.Close()
	}
}
