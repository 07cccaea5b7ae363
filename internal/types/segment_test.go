package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsFor(t *testing.T) {
	tests := []struct {
		name        string
		segmentType SegmentType
		expected    []string
	}{
		{
			name:        "identity sections",
			segmentType: SegmentIdentity,
			expected:    []string{SectionHero, SectionAbout},
		},
		{
			name:        "offering sections",
			segmentType: SegmentOffering,
			expected:    []string{SectionServices, SectionProcess},
		},
		{
			name:        "conversion sections",
			segmentType: SegmentConversion,
			expected:    []string{SectionProblemStatement, SectionCTA, SectionFooter},
		},
		{
			name:        "unknown segment type",
			segmentType: SegmentType("bogus"),
			expected:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SectionsFor(tt.segmentType))
		})
	}
}

func TestCanonicalSectionOrder_CoversEverySection(t *testing.T) {
	order := CanonicalSectionOrder()

	seen := make(map[SectionRef]bool)
	for _, ref := range order {
		assert.False(t, seen[ref], "duplicate section %s in canonical order", ref)
		seen[ref] = true

		owner, ok := SegmentTypeOf(ref.Section)
		require.True(t, ok, "canonical order lists unknown section %s", ref.Section)
		assert.Equal(t, owner, ref.SegmentType)
	}

	total := 0
	for _, segmentType := range AllSegmentTypes() {
		total += len(SectionsFor(segmentType))
	}
	assert.Len(t, order, total, "canonical order must list every section exactly once")
	assert.Equal(t, SectionHero, order[0].Section, "hero leads the page")
}

func TestParseSectionRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SectionRef
		wantErr bool
	}{
		{
			name:  "valid reference",
			input: "identity/hero",
			want:  SectionRef{SegmentIdentity, SectionHero},
		},
		{
			name:  "valid with whitespace",
			input: " credibility/faq",
			want:  SectionRef{SegmentCredibility, SectionFAQ},
		},
		{
			name:    "missing slash",
			input:   "identityhero",
			wantErr: true,
		},
		{
			name:    "unknown segment type",
			input:   "branding/hero",
			wantErr: true,
		},
		{
			name:    "section under wrong segment",
			input:   "identity/faq",
			wantErr: true,
		},
		{
			name:    "empty section",
			input:   "identity/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseSectionRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestSegmentClone_IsDeep(t *testing.T) {
	original := &Segment{
		SegmentType: SegmentIdentity,
		Version:     3,
		GeneratedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Sections: map[string]*Section{
			SectionHero: {
				Title:   "Hero",
				Content: json.RawMessage(`{"headline":"Jane"}`),
				Enabled: true,
				Quality: &QualityAssessment{QualityScore: 8, ConfidenceScore: 6, CombinedScore: 7},
			},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Sections[SectionHero].Title = "Changed"
	clone.Sections[SectionHero].Content[2] = 'x'
	clone.Sections[SectionHero].Quality.QualityScore = 1

	assert.Equal(t, "Hero", original.Sections[SectionHero].Title)
	assert.Equal(t, json.RawMessage(`{"headline":"Jane"}`), original.Sections[SectionHero].Content)
	assert.Equal(t, 8, original.Sections[SectionHero].Quality.QualityScore)
}

func TestDefaultRequiredSections(t *testing.T) {
	required := DefaultRequiredSections()

	assert.True(t, required.Contains(SectionRef{SegmentIdentity, SectionHero}))
	assert.True(t, required.Contains(SectionRef{SegmentOffering, SectionServices}))
	assert.True(t, required.Contains(SectionRef{SegmentConversion, SectionFooter}))
	assert.False(t, required.Contains(SectionRef{SegmentCredibility, SectionCaseStudies}))
}
