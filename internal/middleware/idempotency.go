package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"workzen/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL = 30 * time.Second
)

// Idempotency replays the cached response of a POST carrying an Idempotency-Key header, and rejects
// a concurrent duplicate while the first one is still running. The handler owns releasing the lock
// and storing the response (see ReleaseIdempotency).
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				log.Debug("idempotent replay", zap.String("key", cacheKey))
				c.Header("Idempotent-Replay", "true")
				c.AbortWithStatusJSON(http.StatusOK, response.ApiEnvelope{Ok: true, Data: cached})
				return
			}
		}

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock unavailable, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)
		c.Next()
	}
}

// ReleaseIdempotency drops the lock and, when payload is non-nil, caches it for replays.
func ReleaseIdempotency(c *gin.Context, rdb *redis.Client, payload any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString(IdempotencyLockKey); lk != "" {
		_ = rdb.Del(ctx, lk).Err()
	}
	if payload == nil {
		return
	}
	if ck := c.GetString(IdempotencyCacheKey); ck != "" {
		if data, err := json.Marshal(payload); err == nil {
			_ = rdb.Set(ctx, ck, data, 24*time.Hour).Err()
		}
	}
}
