package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

func testSegment(segmentType types.SegmentType, version int) *types.Segment {
	return &types.Segment{
		SegmentType: segmentType,
		Version:     version,
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Sections: map[string]*types.Section{
			types.SectionHero: {
				Title:   "Hero",
				Content: json.RawMessage(`{"headline":"Jane"}`),
				Enabled: true,
			},
		},
	}
}

func TestMemoryCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, found, err := c.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	assert.False(t, found)

	stored := testSegment(types.SegmentIdentity, 1)
	require.NoError(t, c.Put(ctx, stored))

	got, found, err := c.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, stored, got)
}

func TestMemoryCache_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Put(ctx, testSegment(types.SegmentIdentity, 1)))
	require.NoError(t, c.Put(ctx, testSegment(types.SegmentIdentity, 2)))

	got, found, err := c.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.Version)
}

func TestMemoryCache_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	stored := testSegment(types.SegmentIdentity, 1)
	require.NoError(t, c.Put(ctx, stored))

	// Mutating the segment we put must not affect the cached copy.
	stored.Sections[types.SectionHero].Title = "mutated after put"

	got, _, err := c.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	assert.Equal(t, "Hero", got.Sections[types.SectionHero].Title)

	// Mutating what Get returned must not affect later reads.
	got.Sections[types.SectionHero].Enabled = false

	again, _, err := c.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	assert.True(t, again.Sections[types.SectionHero].Enabled)
}

func TestMemoryCache_ClearAndClearAll(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Put(ctx, testSegment(types.SegmentIdentity, 1)))
	require.NoError(t, c.Put(ctx, testSegment(types.SegmentOffering, 1)))

	require.NoError(t, c.Clear(ctx, types.SegmentIdentity))
	_, found, err := c.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.Get(ctx, types.SegmentOffering)
	require.NoError(t, err)
	assert.True(t, found, "clearing one segment leaves the others")

	require.NoError(t, c.ClearAll(ctx))
	_, found, err = c.Get(ctx, types.SegmentOffering)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ClearMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	assert.NoError(t, c.Clear(ctx, types.SegmentCredibility))
}
