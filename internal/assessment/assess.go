// Package assessment implements the second editorial review pass: every
// section is scored for quality and confidence, and sections falling
// below the combined-score threshold are disabled. Sections in the
// required set are always enabled, and that enforcement runs even when
// the scoring call fails outright: an assessment failure must never
// silently delete content from the final document.
package assessment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yeehaa123/personal-brain-sub000/internal/cache"
	"github.com/yeehaa123/personal-brain-sub000/internal/generation"
	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/prompts"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// DefaultMinCombinedScore is the default gating threshold.
const DefaultMinCombinedScore = 7

// CombineFunc reduces a quality score and a confidence score to the
// combined score that drives gating.
type CombineFunc func(quality, confidence int) int

// MeanCombined is the default combination: the arithmetic mean, with
// halves rounded up.
func MeanCombined(quality, confidence int) int {
	return (quality + confidence + 1) / 2
}

// Thresholds configures the gating rule. The combination formula and the
// threshold are deliberately configurable; neither is a settled constant.
type Thresholds struct {
	MinCombinedScore int
	Combine          CombineFunc
}

// DefaultThresholds returns the default gating configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCombinedScore: DefaultMinCombinedScore,
		Combine:          MeanCombined,
	}
}

// Stage scores all sections in a single aggregate call and applies the
// gating rule plus required-section enforcement.
type Stage struct {
	client     llm.Client
	cache      cache.SegmentCache
	required   types.RequiredSectionSet
	thresholds Thresholds

	// OnStatus, when set, is called as segments reach the assessed state.
	OnStatus generation.StatusFunc
}

var validate = validator.New()

// NewStage creates an assessment stage. A nil required set falls back to
// the pipeline default; a zero Thresholds falls back to DefaultThresholds.
func NewStage(client llm.Client, segmentCache cache.SegmentCache, required types.RequiredSectionSet, thresholds Thresholds) *Stage {
	if required == nil {
		required = types.DefaultRequiredSections()
	}
	if thresholds.Combine == nil {
		thresholds.Combine = MeanCombined
	}
	if thresholds.MinCombinedScore == 0 {
		thresholds.MinCombinedScore = DefaultMinCombinedScore
	}
	return &Stage{
		client:     client,
		cache:      segmentCache,
		required:   required,
		thresholds: thresholds,
	}
}

// assessmentRecord is one scored section as returned by the model.
type assessmentRecord struct {
	SegmentType             string `json:"segment_type" validate:"required"`
	Section                 string `json:"section" validate:"required"`
	QualityScore            int    `json:"quality_score" validate:"min=1,max=10"`
	QualityJustification    string `json:"quality_justification"`
	ConfidenceScore         int    `json:"confidence_score" validate:"min=1,max=10"`
	ConfidenceJustification string `json:"confidence_justification"`
	SuggestedImprovement    string `json:"suggested_improvement"`
}

type assessmentResponse struct {
	Assessments []assessmentRecord `json:"assessments"`
}

// Assess scores every section of every segment and sets enablement per
// the threshold rule. On total scoring failure all sections keep their
// generation-time enablement. Required-section enforcement always runs
// last, regardless of scoring success. Updated segments are written back
// to the cache.
func (s *Stage) Assess(ctx context.Context, record *types.SourceRecord, segments map[types.SegmentType]*types.Segment) map[types.SegmentType]*types.Segment {
	out := make(map[types.SegmentType]*types.Segment, len(segments))
	for segmentType, segment := range segments {
		out[segmentType] = segment.Clone()
	}

	records, err := s.requestAssessments(ctx, record, out)
	if err != nil {
		fmt.Printf("Warning: quality assessment failed, keeping generated enablement: %v\n", err)
	} else {
		s.applyAssessments(out, records)
	}

	// Required sections win unconditionally, even over a failed assessment.
	for ref := range s.required {
		if segment, ok := out[ref.SegmentType]; ok {
			if section, ok := segment.Sections[ref.Section]; ok {
				section.Enabled = true
			}
		}
	}

	for _, segmentType := range types.AllSegmentTypes() {
		segment, ok := out[segmentType]
		if !ok {
			continue
		}
		if err := s.cache.Put(ctx, segment); err != nil {
			fmt.Printf("Warning: failed to cache assessed segment %s: %v\n", segmentType, err)
		}
		if s.OnStatus != nil {
			s.OnStatus(segmentType, types.StatusAssessed)
		}
	}

	return out
}

// applyAssessments attaches scores and applies the threshold rule.
// Records that reference unknown sections or fail validation are skipped;
// their sections keep the generation-time default.
func (s *Stage) applyAssessments(segments map[types.SegmentType]*types.Segment, records []assessmentRecord) {
	for _, rec := range records {
		if err := validate.Struct(rec); err != nil {
			fmt.Printf("Warning: skipping malformed assessment for %s/%s: %v\n", rec.SegmentType, rec.Section, err)
			continue
		}

		segment, ok := segments[types.SegmentType(rec.SegmentType)]
		if !ok {
			continue
		}
		section, ok := segment.Sections[rec.Section]
		if !ok {
			continue
		}

		quality := llm.ClampScore(rec.QualityScore)
		confidence := llm.ClampScore(rec.ConfidenceScore)
		combined := s.thresholds.Combine(quality, confidence)

		section.Quality = &types.QualityAssessment{
			QualityScore:            quality,
			QualityJustification:    rec.QualityJustification,
			ConfidenceScore:         confidence,
			ConfidenceJustification: rec.ConfidenceJustification,
			CombinedScore:           combined,
			SuggestedImprovement:    rec.SuggestedImprovement,
		}
		section.Enabled = combined >= s.thresholds.MinCombinedScore
	}
}

// listedSection is one section as enumerated in the assessment prompt.
type listedSection struct {
	SegmentType string          `json:"segment_type"`
	Section     string          `json:"section"`
	Title       string          `json:"title"`
	Content     json.RawMessage `json:"content"`
}

// requestAssessments runs the aggregate scoring call and parses the result.
func (s *Stage) requestAssessments(ctx context.Context, record *types.SourceRecord, segments map[types.SegmentType]*types.Segment) ([]assessmentRecord, error) {
	var listed []listedSection
	for _, segmentType := range types.AllSegmentTypes() {
		segment, ok := segments[segmentType]
		if !ok {
			continue
		}
		for _, name := range types.SectionsFor(segmentType) {
			section, ok := segment.Sections[name]
			if !ok {
				continue
			}
			listed = append(listed, listedSection{
				SegmentType: string(segmentType),
				Section:     name,
				Title:       section.Title,
				Content:     section.Content,
			})
		}
	}
	if len(listed) == 0 {
		return nil, fmt.Errorf("no sections to assess")
	}

	sectionsJSON, err := json.MarshalIndent(listed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sections for assessment: %w", err)
	}

	template, err := prompts.Get("assessment.json", "assess_sections")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{
		"Profile":  generation.FormatProfile(record),
		"Sections": string(sectionsJSON),
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("assessment call failed: %w", err)
	}

	var response assessmentResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return nil, fmt.Errorf("failed to parse assessment response: %w (content: %s)", err, raw)
	}
	if len(response.Assessments) == 0 {
		return nil, fmt.Errorf("assessment response contained no records")
	}

	return response.Assessments, nil
}
