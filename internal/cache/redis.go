package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// RedisCache is a Redis-backed SegmentCache. Segments are stored as JSON
// under "segment:<profile>:<type>" keys with no expiry.
type RedisCache struct {
	client  *redis.Client
	profile string
}

// NewRedisCache creates a Redis-backed cache scoped to one profile.
func NewRedisCache(client *redis.Client, profileID string) *RedisCache {
	return &RedisCache{client: client, profile: profileID}
}

func (c *RedisCache) key(segmentType types.SegmentType) string {
	return fmt.Sprintf("segment:%s:%s", c.profile, segmentType)
}

// Get returns the cached segment for a type.
func (c *RedisCache) Get(ctx context.Context, segmentType types.SegmentType) (*types.Segment, bool, error) {
	data, err := c.client.Get(ctx, c.key(segmentType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read segment %s: %w", segmentType, err)
	}

	var segment types.Segment
	if err := json.Unmarshal([]byte(data), &segment); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached segment %s: %w", segmentType, err)
	}
	return &segment, true, nil
}

// Put stores a segment, replacing any previous entry.
func (c *RedisCache) Put(ctx context.Context, segment *types.Segment) error {
	data, err := json.Marshal(segment)
	if err != nil {
		return fmt.Errorf("failed to encode segment %s: %w", segment.SegmentType, err)
	}
	if err := c.client.Set(ctx, c.key(segment.SegmentType), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store segment %s: %w", segment.SegmentType, err)
	}
	return nil
}

// Clear removes the entry for one segment type.
func (c *RedisCache) Clear(ctx context.Context, segmentType types.SegmentType) error {
	if err := c.client.Del(ctx, c.key(segmentType)).Err(); err != nil {
		return fmt.Errorf("failed to clear segment %s: %w", segmentType, err)
	}
	return nil
}

// ClearAll removes the entries for every known segment type.
func (c *RedisCache) ClearAll(ctx context.Context) error {
	keys := make([]string, 0, len(types.AllSegmentTypes()))
	for _, segmentType := range types.AllSegmentTypes() {
		keys = append(keys, c.key(segmentType))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear segments: %w", err)
	}
	return nil
}
