// Package improvement implements the first editorial review pass: a
// best-effort rewrite of section content for clarity, persuasiveness,
// and specificity. The stage fails open: a rewrite that cannot be
// produced or does not validate leaves the input segment untouched.
package improvement

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yeehaa123/personal-brain-sub000/internal/cache"
	"github.com/yeehaa123/personal-brain-sub000/internal/generation"
	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/prompts"
	"github.com/yeehaa123/personal-brain-sub000/internal/schemas"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// Stage rewrites segment content in place, one generation call per segment.
type Stage struct {
	client llm.Client
	cache  cache.SegmentCache

	// OnStatus, when set, is called as segments reach the improved state.
	OnStatus generation.StatusFunc
}

// NewStage creates an improvement stage writing back to the given cache.
func NewStage(client llm.Client, segmentCache cache.SegmentCache) *Stage {
	return &Stage{client: client, cache: segmentCache}
}

// Improve rewrites the content of every segment in the map and returns
// the updated map. Segments whose rewrite fails are passed through
// unchanged; the stage never aborts the pipeline.
func (s *Stage) Improve(ctx context.Context, record *types.SourceRecord, segments map[types.SegmentType]*types.Segment) map[types.SegmentType]*types.Segment {
	out := make(map[types.SegmentType]*types.Segment, len(segments))

	for _, segmentType := range types.AllSegmentTypes() {
		segment, ok := segments[segmentType]
		if !ok {
			continue
		}

		improved, err := s.improveSegment(ctx, record, segment)
		if err != nil {
			fmt.Printf("Warning: improvement of segment %s failed, keeping original content: %v\n", segmentType, err)
			out[segmentType] = segment
			continue
		}

		if err := s.cache.Put(ctx, improved); err != nil {
			fmt.Printf("Warning: failed to cache improved segment %s: %v\n", segmentType, err)
		}
		out[segmentType] = improved

		if s.OnStatus != nil {
			s.OnStatus(segmentType, types.StatusImproved)
		}
	}

	return out
}

// sectionPayload matches the envelope the improvement prompt exchanges.
type sectionPayload struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

type segmentPayload struct {
	Sections map[string]sectionPayload `json:"sections"`
}

// improveSegment runs one rewrite call and validates the result. Only
// titles and content change; enablement, quality, version, and the
// generation timestamp are preserved from the input.
func (s *Stage) improveSegment(ctx context.Context, record *types.SourceRecord, segment *types.Segment) (*types.Segment, error) {
	payload := segmentPayload{Sections: make(map[string]sectionPayload, len(segment.Sections))}
	for name, section := range segment.Sections {
		payload.Sections[name] = sectionPayload{Title: section.Title, Content: section.Content}
	}
	current, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode segment for improvement: %w", err)
	}

	template, err := prompts.Get("improvement.json", "improve_segment")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{
		"SegmentType": string(segment.SegmentType),
		"Profile":     generation.FormatProfile(record),
		"Segment":     string(current),
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("improvement call failed: %w", err)
	}

	validated, err := schemas.Validate(segment.SegmentType, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("improved payload rejected: %w", err)
	}

	improved := segment.Clone()
	for name, section := range improved.Sections {
		replacement, ok := validated.Sections[name]
		if !ok {
			return nil, fmt.Errorf("improved payload is missing section %s", name)
		}
		cleaned, err := generation.SanitizeSection(replacement.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to sanitize improved section %s: %w", name, err)
		}
		section.Title = replacement.Title
		section.Content = cleaned
	}

	return improved, nil
}
