package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotentHit  = "Idempotent-Replay"

	CtxIdempotencyCacheKey = "idempotency_cache_key"
	CtxIdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// idempotentResult is what a completed request leaves behind for replays.
type idempotentResult struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the cached response for a repeated Idempotency-Key and
// rejects a repeat that arrives while the first request is still running.
// The handler calls CompleteIdempotent once it has a result.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")

	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString(ctxUserIDValidated)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		val, err := rdb.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var cached idempotentResult
			if err := json.Unmarshal([]byte(val), &cached); err == nil && cached.Status != 0 {
				c.Header(HeaderIdempotentHit, "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
			log.Warn("idempotency cache entry unreadable", zap.String("key", cacheKey))
		case err != redis.Nil:
			log.Warn("idempotency cache read failed", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Abort(c, http.StatusConflict, apperror.CodeConflict, "Request with this Idempotency-Key is still being processed")
			return
		}

		c.Set(CtxIdempotencyCacheKey, cacheKey)
		c.Set(CtxIdempotencyLockKey, lockKey)

		c.Next()
	}
}

// ReleaseIdempotencyLock drops the in-flight lock; handlers defer it.
func ReleaseIdempotencyLock(ctx context.Context, c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lk := c.GetString(CtxIdempotencyLockKey); lk != "" {
		rdb.Del(ctx, lk)
	}
}

// CompleteIdempotent caches a successful result and its status under the
// request's key so a replay answers exactly like the original.
func CompleteIdempotent(ctx context.Context, c *gin.Context, rdb *redis.Client, status int, data any) {
	if rdb == nil {
		return
	}
	ck := c.GetString(CtxIdempotencyCacheKey)
	if ck == "" {
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(idempotentResult{Status: status, Data: body})
	if err != nil {
		return
	}
	rdb.Set(ctx, ck, payload, idempotencyCacheTTL)
}
