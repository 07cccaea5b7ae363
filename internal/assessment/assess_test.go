package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeehaa123/personal-brain-sub000/internal/cache"
	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// fakeClient returns a fixed response or error for every call.
type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

func section(title string) *types.Section {
	return &types.Section{
		Title:   title,
		Content: json.RawMessage(fmt.Sprintf(`{"text":%q}`, title+" body")),
		Enabled: true,
	}
}

func testSegments() map[types.SegmentType]*types.Segment {
	return map[types.SegmentType]*types.Segment{
		types.SegmentIdentity: {
			SegmentType: types.SegmentIdentity,
			Version:     1,
			Sections: map[string]*types.Section{
				types.SectionHero:  section("Hero"),
				types.SectionAbout: section("About"),
			},
		},
		types.SegmentCredibility: {
			SegmentType: types.SegmentCredibility,
			Version:     1,
			Sections: map[string]*types.Section{
				types.SectionCaseStudies: section("Case Studies"),
				types.SectionExpertise:   section("Expertise"),
				types.SectionFAQ:         section("FAQ"),
			},
		},
	}
}

// scoresResponse builds an assessment response JSON from ref -> (quality, confidence).
func scoresResponse(scores map[string][2]int) string {
	var records []string
	for ref, pair := range scores {
		parts := strings.SplitN(ref, "/", 2)
		records = append(records, fmt.Sprintf(
			`{"segment_type":%q,"section":%q,"quality_score":%d,"quality_justification":"q","confidence_score":%d,"confidence_justification":"c"}`,
			parts[0], parts[1], pair[0], pair[1]))
	}
	return fmt.Sprintf(`{"assessments":[%s]}`, strings.Join(records, ","))
}

func required(refs ...types.SectionRef) types.RequiredSectionSet {
	set := make(types.RequiredSectionSet, len(refs))
	for _, ref := range refs {
		set.Add(ref)
	}
	return set
}

func TestAssess_ThresholdGating(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{response: scoresResponse(map[string][2]int{
		"identity/hero":            {9, 9},
		"identity/about":           {8, 8},
		"credibility/case_studies": {6, 6},
		"credibility/expertise":    {7, 7},
		"credibility/faq":          {6, 8},
	})}
	stage := NewStage(client, cache.NewMemoryCache(),
		required(types.SectionRef{SegmentType: types.SegmentIdentity, Section: types.SectionHero}),
		Thresholds{MinCombinedScore: 7})

	out := stage.Assess(ctx, &types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"}, testSegments())

	caseStudies := out[types.SegmentCredibility].Sections[types.SectionCaseStudies]
	assert.False(t, caseStudies.Enabled, "combined 6 < 7 disables the section")
	require.NotNil(t, caseStudies.Quality)
	assert.Equal(t, 6, caseStudies.Quality.CombinedScore)

	assert.True(t, out[types.SegmentCredibility].Sections[types.SectionExpertise].Enabled, "combined 7 passes")
	faq := out[types.SegmentCredibility].Sections[types.SectionFAQ]
	assert.True(t, faq.Enabled, "mean of 6 and 8 is 7")
	assert.True(t, out[types.SegmentIdentity].Sections[types.SectionHero].Enabled)
}

func TestAssess_RequiredSectionOverridesLowScore(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{response: scoresResponse(map[string][2]int{
		"identity/hero":            {1, 1},
		"identity/about":           {9, 9},
		"credibility/case_studies": {9, 9},
		"credibility/expertise":    {9, 9},
		"credibility/faq":          {9, 9},
	})}
	stage := NewStage(client, cache.NewMemoryCache(),
		required(types.SectionRef{SegmentType: types.SegmentIdentity, Section: types.SectionHero}),
		DefaultThresholds())

	out := stage.Assess(ctx, &types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"}, testSegments())

	hero := out[types.SegmentIdentity].Sections[types.SectionHero]
	assert.True(t, hero.Enabled, "required sections stay enabled even at score 1")
	require.NotNil(t, hero.Quality, "the low score is still recorded for metrics")
	assert.Equal(t, 1, hero.Quality.CombinedScore)
}

func TestAssess_FailsOpenOnCallFailure(t *testing.T) {
	ctx := context.Background()
	segmentCache := cache.NewMemoryCache()
	client := &fakeClient{err: errors.New("network down")}
	stage := NewStage(client, segmentCache,
		required(types.SectionRef{SegmentType: types.SegmentIdentity, Section: types.SectionHero}),
		DefaultThresholds())

	segments := testSegments()
	// Simulate a stale disabled flag from an earlier run; the required
	// override must still run on the failure path.
	segments[types.SegmentIdentity].Sections[types.SectionHero].Enabled = false

	out := stage.Assess(ctx, &types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"}, segments)

	for segmentType, segment := range out {
		for name, sec := range segment.Sections {
			assert.Nil(t, sec.Quality, "%s/%s gets no assessment on failure", segmentType, name)
			if segmentType == types.SegmentIdentity && name == types.SectionHero {
				assert.True(t, sec.Enabled, "required enforcement is independent of assessment success")
			}
		}
	}
	assert.True(t, out[types.SegmentCredibility].Sections[types.SectionCaseStudies].Enabled,
		"non-required sections keep their generated enablement")

	// Fail-open still persists the (unchanged) segments.
	_, found, err := segmentCache.Get(ctx, types.SegmentIdentity)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAssess_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{response: scoresResponse(map[string][2]int{
		"identity/hero":  {2, 2},
		"identity/about": {2, 2},
	})}
	stage := NewStage(client, cache.NewMemoryCache(), nil, DefaultThresholds())

	input := map[types.SegmentType]*types.Segment{
		types.SegmentIdentity: {
			SegmentType: types.SegmentIdentity,
			Sections: map[string]*types.Section{
				types.SectionHero:  section("Hero"),
				types.SectionAbout: section("About"),
			},
		},
	}

	out := stage.Assess(ctx, &types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"}, input)

	assert.True(t, input[types.SegmentIdentity].Sections[types.SectionAbout].Enabled,
		"the caller's segments are untouched")
	assert.False(t, out[types.SegmentIdentity].Sections[types.SectionAbout].Enabled)
}

func TestAssess_SkipsMalformedAndUnknownRecords(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{response: `{"assessments": [
		{"segment_type": "identity", "section": "hero", "quality_score": 12, "confidence_score": 9},
		{"segment_type": "identity", "section": "sidebar", "quality_score": 9, "quality_justification": "q", "confidence_score": 9, "confidence_justification": "c"},
		{"segment_type": "identity", "section": "about", "quality_score": 9, "quality_justification": "q", "confidence_score": 9, "confidence_justification": "c"}
	]}`}
	stage := NewStage(client, cache.NewMemoryCache(), nil, DefaultThresholds())

	segments := map[types.SegmentType]*types.Segment{
		types.SegmentIdentity: {
			SegmentType: types.SegmentIdentity,
			Sections: map[string]*types.Section{
				types.SectionHero:  section("Hero"),
				types.SectionAbout: section("About"),
			},
		},
	}

	out := stage.Assess(ctx, &types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"}, segments)

	assert.Nil(t, out[types.SegmentIdentity].Sections[types.SectionHero].Quality,
		"out-of-range scores are rejected, section keeps defaults")
	assert.True(t, out[types.SegmentIdentity].Sections[types.SectionHero].Enabled)
	require.NotNil(t, out[types.SegmentIdentity].Sections[types.SectionAbout].Quality)
}

func TestAssess_PromptListsEverySection(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{response: scoresResponse(map[string][2]int{
		"identity/hero":            {9, 9},
		"identity/about":           {9, 9},
		"credibility/case_studies": {9, 9},
		"credibility/expertise":    {9, 9},
		"credibility/faq":          {9, 9},
	})}
	stage := NewStage(client, cache.NewMemoryCache(), nil, DefaultThresholds())

	stage.Assess(ctx, &types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"}, testSegments())

	for _, name := range []string{"hero", "about", "case_studies", "expertise", "faq"} {
		assert.Contains(t, client.prompt, `"`+name+`"`)
	}
}

func TestMeanCombined(t *testing.T) {
	tests := []struct {
		quality    int
		confidence int
		expected   int
	}{
		{6, 6, 6},
		{6, 7, 7}, // halves round up
		{4, 5, 5},
		{1, 1, 1},
		{10, 10, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MeanCombined(tt.quality, tt.confidence),
			"mean of %d and %d", tt.quality, tt.confidence)
	}
}
