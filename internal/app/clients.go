package app

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/aiclub-backend/internal/platform/gcp"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/platform/openai"
	"github.com/yungbote/aiclub-backend/internal/platform/redis"
	"github.com/yungbote/aiclub-backend/internal/ratelimit"
)

type Clients struct {
	Redis     *goredis.Client
	OpenAI    openai.Client
	GcpBucket gcp.BucketService
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (optional; rate limiting falls back to process memory)
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		c, err := redis.NewClient(ctx, cfg.RedisAddr, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis client: %w", err)
		}
		rdb = c
	}

	// Gcs
	bucket, err := resolveBucketService(ctx, log, cfg)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	// Openai
	openaiClient, err := openai.NewClient(log, cfg.OpenAI)
	if err != nil {
		_ = bucket.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	return Clients{
		Redis:     rdb,
		OpenAI:    openaiClient,
		GcpBucket: bucket,
	}, nil
}

// rateLimitStore shares counters across replicas when redis is configured.
func (c Clients) rateLimitStore(clk clock.Clock) ratelimit.Store {
	if c.Redis != nil {
		return ratelimit.NewRedisStore(c.Redis, "aiclub:ratelimit:")
	}
	return ratelimit.NewMemoryStore(clk)
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.GcpBucket != nil {
		_ = c.GcpBucket.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
