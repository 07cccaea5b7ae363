// Package generation produces individual segments: cache lookup, prompt
// construction, the text-generation call with bounded retries, schema
// validation, and the cache write-back.
package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/yeehaa123/personal-brain-sub000/internal/cache"
	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/schemas"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// DefaultMaxRetries is the number of additional generation attempts
// after a transient failure.
const DefaultMaxRetries = 2

// DefaultBackoff is the base delay between generation attempts; attempt
// n waits n times this long.
const DefaultBackoff = 2 * time.Second

// GenerationError reports that a segment could not be produced. It wraps
// the underlying transport or validation failure.
type GenerationError struct {
	SegmentType types.SegmentType
	Stage       string
	Cause       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("segment %s failed during %s: %v", e.SegmentType, e.Stage, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// StatusFunc receives segment status transitions as they happen.
type StatusFunc func(segmentType types.SegmentType, status types.GenerationStatus)

// Generator produces one segment at a time against a shared cache.
type Generator struct {
	client llm.Client
	cache  cache.SegmentCache

	// MaxRetries is the number of extra attempts after a failed
	// text-generation call. Validation failures are not retried.
	MaxRetries int
	// Backoff is the base delay between attempts.
	Backoff time.Duration
	// OnStatus, when set, is called on every status transition.
	OnStatus StatusFunc
}

// NewGenerator creates a Generator with default retry behavior.
func NewGenerator(client llm.Client, segmentCache cache.SegmentCache) *Generator {
	return &Generator{
		client:     client,
		cache:      segmentCache,
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff,
	}
}

// Generate returns the segment for segmentType. Unless forceRegenerate
// is set, a cached segment is returned as-is. On a miss (or force) the
// segment is generated, validated, sanitized, versioned past the prior
// cached version, and written to the cache. Failures never write to the
// cache.
func (g *Generator) Generate(ctx context.Context, record *types.SourceRecord, segmentType types.SegmentType, forceRegenerate bool) (*types.Segment, error) {
	cached, found, err := g.cache.Get(ctx, segmentType)
	if err != nil {
		return nil, &GenerationError{SegmentType: segmentType, Stage: "cache read", Cause: err}
	}

	if found && !forceRegenerate {
		g.status(segmentType, types.StatusGenerated)
		return cached, nil
	}

	prompt, err := BuildSegmentPrompt(segmentType, record)
	if err != nil {
		return nil, &GenerationError{SegmentType: segmentType, Stage: "prompt", Cause: err}
	}

	raw, err := g.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{SegmentType: segmentType, Stage: "generation", Cause: err}
	}

	segment, err := schemas.Validate(segmentType, []byte(raw))
	if err != nil {
		return nil, &GenerationError{SegmentType: segmentType, Stage: "validation", Cause: err}
	}

	for _, section := range segment.Sections {
		cleaned, err := SanitizeSection(section.Content)
		if err != nil {
			return nil, &GenerationError{SegmentType: segmentType, Stage: "sanitization", Cause: err}
		}
		section.Content = cleaned
	}

	if found {
		segment.Version = cached.Version + 1
	}

	if err := g.cache.Put(ctx, segment); err != nil {
		return nil, &GenerationError{SegmentType: segmentType, Stage: "cache write", Cause: err}
	}

	g.status(segmentType, types.StatusGenerated)
	return segment, nil
}

// generateWithRetry calls the text-generation service, retrying transient
// failures up to MaxRetries times with linear backoff.
func (g *Generator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * g.Backoff):
			}
		}

		raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", g.MaxRetries+1, lastErr)
}

func (g *Generator) status(segmentType types.SegmentType, status types.GenerationStatus) {
	if g.OnStatus != nil {
		g.OnStatus(segmentType, status)
	}
}
