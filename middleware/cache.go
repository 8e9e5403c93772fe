package middleware

import (
	"context"
	"time"

	"parcel-logistics/logger"
	"parcel-logistics/services/cache"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
)

// ResponseCache stores successful GET responses in Redis under <group>:<scope>:<md5(query)>.
// The ledger evicts them through cache.RedisInvalidator.
type ResponseCache struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewResponseCache returns a cache; a nil client turns every handler into a pass-through.
func NewResponseCache(rdb *goredis.Client, log *logger.Logger) *ResponseCache {
	if log == nil {
		log = logger.Nop()
	}
	return &ResponseCache{rdb: rdb, log: log.With("middleware", "ResponseCache")}
}

func (rc *ResponseCache) Cache(groupKey string, scope func(c *fiber.Ctx) string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rc == nil || rc.rdb == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := cache.Key(groupKey, scope(c), string(c.Request().URI().QueryString()))
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		cached, err := rc.rdb.Get(ctx, key).Bytes()
		cancel()
		switch {
		case err == nil:
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Status(fiber.StatusOK).Send(cached)
		case err != goredis.Nil:
			rc.log.Warn("cache read failed", "key", key, "error", err)
		}

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		body := append([]byte(nil), c.Response().Body()...)
		ctx, cancel = context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()
		if err := rc.rdb.Set(ctx, key, body, ttl).Err(); err != nil {
			rc.log.Warn("cache write failed", "key", key, "error", err)
		}
		return nil
	}
}
