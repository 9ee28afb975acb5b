package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const translationCachePrefix = "jobby:t2s:"

type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedTranslator 以 Redis 缓存成功的翻译结果，缓存故障只记录日志。
type CachedTranslator struct {
	next   Translator
	store  cacheStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTranslator 在 ttl<=0 或 store 为空时直接返回 next。
func NewCachedTranslator(next Translator, store cacheStore, ttl time.Duration, log *zap.Logger) Translator {
	if store == nil || ttl <= 0 {
		return next
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedTranslator{next: next, store: store, ttl: ttl, logger: log.Named("translation_cache")}
}

func (c *CachedTranslator) Translate(ctx context.Context, request, schemaDescription, hints string) (string, error) {
	key := translationCacheKey(request, schemaDescription, hints)

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("read translation cache failed", zap.Error(err))
	}

	sql, err := c.next.Translate(ctx, request, schemaDescription, hints)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, sql, c.ttl).Err(); err != nil {
		c.logger.Warn("write translation cache failed", zap.Error(err))
	}
	return sql, nil
}

func translationCacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return translationCachePrefix + hex.EncodeToString(h.Sum(nil))
}
