package generation

import (
	"fmt"
	"strings"

	"github.com/yeehaa123/personal-brain-sub000/internal/prompts"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// BuildSegmentPrompt constructs the generation prompt for one segment
// type from the embedded template and the source profile.
func BuildSegmentPrompt(segmentType types.SegmentType, record *types.SourceRecord) (string, error) {
	template, err := prompts.Get("generation.json", string(segmentType))
	if err != nil {
		return "", fmt.Errorf("no generation prompt for segment %s: %w", segmentType, err)
	}

	return prompts.Format(template, map[string]string{
		"Profile": FormatProfile(record),
	}), nil
}

// FormatProfile renders the source record as a plain-text block suitable
// for embedding in prompts. Shared by the improvement and assessment
// stages so every call sees the same profile framing.
func FormatProfile(record *types.SourceRecord) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name: %s\n", record.Name))
	sb.WriteString(fmt.Sprintf("Tagline: %s\n", record.Tagline))
	if record.Bio != "" {
		sb.WriteString(fmt.Sprintf("Bio: %s\n", record.Bio))
	}
	if len(record.Services) > 0 {
		sb.WriteString("Services:\n")
		for _, service := range record.Services {
			if service.Description != "" {
				sb.WriteString(fmt.Sprintf("  - %s: %s\n", service.Name, service.Description))
			} else {
				sb.WriteString(fmt.Sprintf("  - %s\n", service.Name))
			}
		}
	}
	if len(record.Expertise) > 0 {
		sb.WriteString(fmt.Sprintf("Expertise: %s\n", strings.Join(record.Expertise, ", ")))
	}
	if len(record.Links) > 0 {
		sb.WriteString(fmt.Sprintf("Links: %s\n", strings.Join(record.Links, ", ")))
	}
	if record.Email != "" {
		sb.WriteString(fmt.Sprintf("Email: %s\n", record.Email))
	}

	return sb.String()
}
