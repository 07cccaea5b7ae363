package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

func TestBuildSegmentPrompt(t *testing.T) {
	record := &types.SourceRecord{
		Name:    "Jane Doe",
		Tagline: "Consultant",
		Services: []types.SourceService{
			{Name: "Advisory", Description: "Strategic advice"},
		},
	}

	for _, segmentType := range types.AllSegmentTypes() {
		t.Run(string(segmentType), func(t *testing.T) {
			prompt, err := BuildSegmentPrompt(segmentType, record)
			require.NoError(t, err)

			assert.Contains(t, prompt, "Name: Jane Doe")
			assert.Contains(t, prompt, "Tagline: Consultant")
			assert.NotContains(t, prompt, "{{.", "all placeholders must be resolved")
			for _, section := range types.SectionsFor(segmentType) {
				assert.Contains(t, prompt, `"`+section+`"`, "prompt describes section %s", section)
			}
		})
	}
}

func TestBuildSegmentPrompt_UnknownSegment(t *testing.T) {
	_, err := BuildSegmentPrompt(types.SegmentType("bogus"), &types.SourceRecord{Name: "J", Tagline: "T"})
	assert.Error(t, err)
}

func TestFormatProfile(t *testing.T) {
	record := &types.SourceRecord{
		Name:      "Jane Doe",
		Tagline:   "Consultant",
		Bio:       "Twenty years in retail strategy.",
		Services:  []types.SourceService{{Name: "Audits"}, {Name: "Advisory", Description: "Ongoing counsel"}},
		Expertise: []string{"Positioning", "Pricing"},
		Links:     []string{"https://janedoe.example"},
		Email:     "jane@example.com",
	}

	profile := FormatProfile(record)

	assert.Contains(t, profile, "Name: Jane Doe")
	assert.Contains(t, profile, "Bio: Twenty years in retail strategy.")
	assert.Contains(t, profile, "- Audits\n")
	assert.Contains(t, profile, "- Advisory: Ongoing counsel")
	assert.Contains(t, profile, "Expertise: Positioning, Pricing")
	assert.Contains(t, profile, "Email: jane@example.com")
}

func TestFormatProfile_OmitsEmptyFields(t *testing.T) {
	profile := FormatProfile(&types.SourceRecord{Name: "Jane Doe", Tagline: "Consultant"})

	assert.NotContains(t, profile, "Bio:")
	assert.NotContains(t, profile, "Services:")
	assert.NotContains(t, profile, "Email:")
}
