package schemas

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

const validIdentityPayload = `{
	"sections": {
		"hero": {
			"title": "Hero",
			"content": {"headline": "Jane Doe", "subheadline": "Consultant", "cta_text": "Book a call"}
		},
		"about": {
			"title": "About",
			"content": {"text": "Jane helps teams ship.", "competencies": ["Strategy"]}
		}
	}
}`

func TestValidateAt_AppliesDefaults(t *testing.T) {
	generatedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	segment, err := ValidateAt(types.SegmentIdentity, []byte(validIdentityPayload), generatedAt)
	require.NoError(t, err)

	assert.Equal(t, types.SegmentIdentity, segment.SegmentType)
	assert.Equal(t, 1, segment.Version)
	assert.Equal(t, generatedAt, segment.GeneratedAt)
	require.Len(t, segment.Sections, 2)

	hero := segment.Sections[types.SectionHero]
	require.NotNil(t, hero)
	assert.Equal(t, "Hero", hero.Title)
	assert.True(t, hero.Enabled, "enabled defaults to true")
	assert.Nil(t, hero.Quality, "no assessment attached at generation time")
	assert.JSONEq(t, `{"headline": "Jane Doe", "subheadline": "Consultant", "cta_text": "Book a call"}`, string(hero.Content))
}

func TestValidateAt_HonorsExplicitEnabled(t *testing.T) {
	payload := `{
		"sections": {
			"hero": {
				"title": "Hero",
				"enabled": false,
				"content": {"headline": "Jane Doe", "subheadline": "Consultant", "cta_text": "Book a call"}
			},
			"about": {
				"title": "About",
				"content": {"text": "Jane helps teams ship."}
			}
		}
	}`

	segment, err := Validate(types.SegmentIdentity, []byte(payload))
	require.NoError(t, err)

	assert.False(t, segment.Sections[types.SectionHero].Enabled)
	assert.True(t, segment.Sections[types.SectionAbout].Enabled)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		segmentType types.SegmentType
		payload     string
	}{
		{
			name:        "missing section key",
			segmentType: types.SegmentIdentity,
			payload: `{"sections": {"hero": {"title": "Hero",
				"content": {"headline": "J", "subheadline": "C", "cta_text": "Go"}}}}`,
		},
		{
			name:        "unknown section key",
			segmentType: types.SegmentIdentity,
			payload: `{"sections": {
				"hero": {"title": "Hero", "content": {"headline": "J", "subheadline": "C", "cta_text": "Go"}},
				"about": {"title": "About", "content": {"text": "T"}},
				"pricing": {"title": "Pricing", "content": {"text": "T"}}}}`,
		},
		{
			name:        "unknown content field",
			segmentType: types.SegmentIdentity,
			payload: `{"sections": {
				"hero": {"title": "Hero", "content": {"headline": "J", "subheadline": "C", "cta_text": "Go", "banner": "x"}},
				"about": {"title": "About", "content": {"text": "T"}}}}`,
		},
		{
			name:        "empty required string",
			segmentType: types.SegmentIdentity,
			payload: `{"sections": {
				"hero": {"title": "Hero", "content": {"headline": "", "subheadline": "C", "cta_text": "Go"}},
				"about": {"title": "About", "content": {"text": "T"}}}}`,
		},
		{
			name:        "empty services list",
			segmentType: types.SegmentOffering,
			payload: `{"sections": {
				"services": {"title": "Services", "content": {"items": []}},
				"process": {"title": "Process", "content": {"steps": [{"title": "A", "description": "B"}]}}}}`,
		},
		{
			name:        "not valid JSON",
			segmentType: types.SegmentIdentity,
			payload:     `{"sections": `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segment, err := Validate(tt.segmentType, []byte(tt.payload))
			assert.Nil(t, segment, "a rejected payload must never be partially accepted")

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.segmentType, validationErr.SegmentType)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_UnknownSegmentType(t *testing.T) {
	_, err := Validate(types.SegmentType("bogus"), []byte(`{}`))

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, types.SegmentType("bogus"), loadErr.SegmentType)
}

func TestValidate_AllSegmentSchemasCompile(t *testing.T) {
	// Every segment type must have a loadable, compilable embedded schema.
	for _, segmentType := range types.AllSegmentTypes() {
		_, err := schemaFor(segmentType)
		assert.NoError(t, err, "schema for %s", segmentType)
	}
}
