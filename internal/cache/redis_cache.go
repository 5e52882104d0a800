// Package cache provides an optional Redis-backed memoization layer for
// generated replies, so repeated identical prompts skip candidate
// generation entirely.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"megahal/internal/config"
)

// ReplyCache caches a formatted reply keyed by the input text, the model
// order, and the candidate budget used to generate it. A nil *ReplyCache (or
// one built from a disabled config) is a valid no-op.
type ReplyCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New builds a Redis-backed reply cache from cfg. Returns (nil, nil) when
// cfg.Addr is empty, since caching is optional.
func New(cfg config.CacheConfig) (*ReplyCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLSInsecureSkipVerify {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("reply cache ping: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ReplyCache{client: client, ttl: ttl}, nil
}

func replyKey(input string, order, candidates int) string {
	return fmt.Sprintf("megahal:reply:%d:%d:%s", order, candidates, input)
}

// Get returns a previously cached reply for the given input/order/candidate
// budget, or ("", false) on a miss or when the cache is disabled.
func (c *ReplyCache) Get(ctx context.Context, input string, order, candidates int) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	key := replyKey(input, order, candidates)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("reply_cache_get_error")
		}
		return "", false
	}
	return val, true
}

// Set caches reply under the input/order/candidate budget key.
func (c *ReplyCache) Set(ctx context.Context, input string, order, candidates int, reply string) error {
	if c == nil || c.client == nil {
		return nil
	}
	key := replyKey(input, order, candidates)
	if err := c.client.Set(ctx, key, reply, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("reply_cache_set_error")
		return err
	}
	return nil
}

// Close closes the underlying Redis client connection.
func (c *ReplyCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
