package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/yeehaa123/personal-brain-sub000/internal/cache"
	"github.com/yeehaa123/personal-brain-sub000/internal/config"
)

// openCache selects the cache backend from flags and environment:
// Postgres when a database URL is set, Redis when a Redis URL is set,
// otherwise an in-process cache that lives only for this invocation.
func openCache(ctx context.Context) (cache.SegmentCache, func(), error) {
	databaseURL := rootDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	redisURL := rootRedisURL
	if redisURL == "" {
		redisURL = os.Getenv("REDIS_URL")
	}

	if databaseURL != "" {
		pg, err := cache.ConnectPostgres(ctx, databaseURL, rootProfileID)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return cache.NewRedisCache(client, rootProfileID), func() { _ = client.Close() }, nil
	}

	fmt.Println("Note: no --db-url or --redis-url set; segment cache is in-memory and will not survive this invocation.")
	return cache.NewMemoryCache(), func() {}, nil
}

// loadPipelineConfig loads the YAML pipeline config, or the defaults
// when no --config flag is given.
func loadPipelineConfig() (*config.Pipeline, error) {
	if rootConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(rootConfigPath)
}

// resolveAPIKey returns the Gemini API key from the flag or environment.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key provided (set GEMINI_API_KEY or use --api-key)")
}
