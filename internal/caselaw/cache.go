package caselaw

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cachePrefix = "caselaw:search:"

// CachedSearcher memoizes successful searches in redis and collapses
// concurrent identical queries into one upstream call.
type CachedSearcher struct {
	next   Searcher
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	sf     singleflight.Group
}

var _ Searcher = (*CachedSearcher)(nil)

func NewCachedSearcher(next Searcher, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSearcher {
	return &CachedSearcher{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cachePrefix + hex.EncodeToString(sum[:])
}

func (c *CachedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	key := cacheKey(query)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []Result
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("caselaw cache read failed", "error", err)
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		results, err := c.next.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(results); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				c.logger.Warn("caselaw cache write failed", "error", err)
			}
		}
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Result), nil
}
