package cache

import (
	"context"
	"sync"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// MemoryCache is an in-process SegmentCache. It deep-copies segments on
// both Put and Get so callers can never alias cached state.
type MemoryCache struct {
	mu       sync.RWMutex
	segments map[types.SegmentType]*types.Segment
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		segments: make(map[types.SegmentType]*types.Segment),
	}
}

// Get returns a copy of the cached segment for a type.
func (c *MemoryCache) Get(_ context.Context, segmentType types.SegmentType) (*types.Segment, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	segment, ok := c.segments[segmentType]
	if !ok {
		return nil, false, nil
	}
	return segment.Clone(), true, nil
}

// Put stores a copy of the segment, replacing any previous entry.
func (c *MemoryCache) Put(_ context.Context, segment *types.Segment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.segments[segment.SegmentType] = segment.Clone()
	return nil
}

// Clear removes the entry for one segment type.
func (c *MemoryCache) Clear(_ context.Context, segmentType types.SegmentType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.segments, segmentType)
	return nil
}

// ClearAll removes every entry.
func (c *MemoryCache) ClearAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.segments = make(map[types.SegmentType]*types.Segment)
	return nil
}
