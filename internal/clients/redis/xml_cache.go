package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

const (
	defaultKeyPrefix = "orderdoc:xml:"
	// generationTTL outlives any read that could still hold an old generation.
	generationTTL = 24 * time.Hour
)

// XMLCache is a read-through cache for stored order documents.
//
// Every order has a generation that Invalidate bumps. A reader takes the
// generation before reading the store and fills with it afterwards; the fill
// is dropped when a write invalidated the order in between.
type XMLCache interface {
	Get(ctx context.Context, orderID int) (string, bool, error)
	Generation(ctx context.Context, orderID int) (int64, error)
	// Fill stores xml only while the order is still at gen.
	Fill(ctx context.Context, orderID int, xml string, gen int64) (bool, error)
	Invalidate(ctx context.Context, orderID int) error
	Close() error
}

// KEYS[1] entry, KEYS[2] generation; ARGV xml, expected generation, ttl ms.
var fillScript = goredis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if not cur then cur = '0' end
if cur ~= ARGV[2] then return 0 end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

type XMLCacheConfig struct {
	Addr      string        `yaml:"addr"`
	TTL       time.Duration `yaml:"ttl"`
	KeyPrefix string        `yaml:"key_prefix"`
}

type xmlCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewXMLCache dials Redis at cfg.Addr and fails when the first ping does.
func NewXMLCache(log *logger.Logger, cfg XMLCacheConfig) (XMLCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	rdb, err := Dial(cfg.Addr)
	if err != nil {
		return nil, err
	}
	return NewXMLCacheFromClient(log, rdb, cfg), nil
}

// Dial opens a client and pings it once.
func Dial(addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewXMLCacheFromClient wraps an existing client. A zero TTL keeps entries until invalidated.
func NewXMLCacheFromClient(log *logger.Logger, rdb *goredis.Client, cfg XMLCacheConfig) XMLCache {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if log == nil {
		log = logger.Nop()
	}
	return &xmlCache{
		log:    log.With("client", "RedisXMLCache"),
		rdb:    rdb,
		ttl:    cfg.TTL,
		prefix: prefix,
	}
}

func (c *xmlCache) key(orderID int) string {
	return c.prefix + strconv.Itoa(orderID)
}

func (c *xmlCache) genKey(orderID int) string {
	return c.prefix + "gen:" + strconv.Itoa(orderID)
}

func (c *xmlCache) ready() error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis xml cache not initialized")
	}
	return nil
}

func (c *xmlCache) Get(ctx context.Context, orderID int) (string, bool, error) {
	if err := c.ready(); err != nil {
		return "", false, err
	}
	v, err := c.rdb.Get(ctx, c.key(orderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *xmlCache) Generation(ctx context.Context, orderID int) (int64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	gen, err := c.rdb.Get(ctx, c.genKey(orderID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *xmlCache) Fill(ctx context.Context, orderID int, xml string, gen int64) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	n, err := fillScript.Run(ctx, c.rdb,
		[]string{c.key(orderID), c.genKey(orderID)},
		xml, strconv.FormatInt(gen, 10), c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate bumps the generation and drops the entry atomically.
func (c *xmlCache) Invalidate(ctx context.Context, orderID int) error {
	if err := c.ready(); err != nil {
		return err
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(orderID))
		pipe.Expire(ctx, c.genKey(orderID), generationTTL)
		pipe.Del(ctx, c.key(orderID))
		return nil
	})
	return err
}

func (c *xmlCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
