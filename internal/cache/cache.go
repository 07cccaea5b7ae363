// Package cache provides the segment cache: the only durable copy of
// generated segments between pipeline runs. It is a last-write-wins map
// keyed by segment type; the pipeline assumes a single writer per
// profile, so no conflict resolution is attempted.
package cache

import (
	"context"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// SegmentCache stores the last known segment per segment type. Entries
// live until explicitly cleared or overwritten; no TTL or eviction.
type SegmentCache interface {
	// Get returns the cached segment for a type, with found=false when no
	// entry exists. Implementations must return a copy that the caller may
	// mutate freely.
	Get(ctx context.Context, segmentType types.SegmentType) (*types.Segment, bool, error)
	// Put stores a segment under its own segment type, replacing any
	// previous entry.
	Put(ctx context.Context, segment *types.Segment) error
	// Clear removes the entry for one segment type, if present.
	Clear(ctx context.Context, segmentType types.SegmentType) error
	// ClearAll removes every entry.
	ClearAll(ctx context.Context) error
}
