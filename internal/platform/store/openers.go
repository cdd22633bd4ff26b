package store

import (
	"context"
	"fmt"
	"time"

	"filterdetect/internal/platform/store/pg"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var sleep = time.Sleep

// openPG opens the pool and publishes the adapter only once a ping succeeds.
// Pings retry with capped exponential backoff
func openPG(ctx context.Context, cfg PGConfig, s *Store) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, SlowMs: cfg.SlowQueryMs}, tracer,
		func(pc *pgxpool.Config) {
			if cfg.AppName == "" {
				return
			}
			if pc.ConnConfig.RuntimeParams == nil {
				pc.ConnConfig.RuntimeParams = map[string]string{}
			}
			pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
		})
	if err != nil {
		return nil, fmt.Errorf("pg open: %w", err)
	}

	attempts := max(cfg.ConnectAttempts, 1)
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	backoff := 150 * time.Millisecond
	var lastErr error
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("pg ping failed")
		if i+1 < attempts {
			sleep(backoff)
			backoff = min(backoff*2, 2*time.Second)
		}
	}
	p.Close()
	return nil, fmt.Errorf("pg ping failed after %d attempts: %w", attempts, lastErr)
}

func openRedis(ctx context.Context, cfg RedisConfig) (*redisAdapter, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisAdapter(c, cfg.Prefix), nil
}
