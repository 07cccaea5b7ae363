// Package config provides pipeline configuration loading and validation.
// Configuration is optional: every field has a default, and a missing
// config file simply means defaults throughout.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// Pipeline holds the resolved pipeline configuration.
type Pipeline struct {
	// MinCombinedScore gates section inclusion during assessment.
	MinCombinedScore int
	// MaxRetries bounds extra generation attempts per segment.
	MaxRetries int
	// Segments is the set of segment types a full run generates.
	Segments []types.SegmentType
	// Required is the set of sections that are always enabled.
	Required types.RequiredSectionSet
	// Models overrides the model name per tier, when set.
	Models map[llm.ModelTier]string
}

// Default returns the default pipeline configuration: all segment types,
// the default required set, threshold 7, two retries.
func Default() *Pipeline {
	return &Pipeline{
		MinCombinedScore: 7,
		MaxRetries:       2,
		Segments:         types.AllSegmentTypes(),
		Required:         types.DefaultRequiredSections(),
		Models:           map[llm.ModelTier]string{},
	}
}

// LLMConfig returns the llm configuration with any model overrides applied.
func (p *Pipeline) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range p.Models {
		cfg = cfg.WithModel(tier, model)
	}
	return cfg
}

// fileConfig is the YAML shape of a config file. All fields are optional.
type fileConfig struct {
	MinCombinedScore int               `yaml:"min_combined_score" validate:"omitempty,min=1,max=10"`
	MaxRetries       *int              `yaml:"max_retries" validate:"omitempty,min=0,max=5"`
	Segments         []string          `yaml:"segments"`
	RequiredSections []string          `yaml:"required_sections"`
	Models           map[string]string `yaml:"models"`
}

var validate = validator.New()

// Load reads a YAML config file and merges it over the defaults. Unknown
// segment types, section references, and out-of-range values are
// rejected at load time.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Pipeline from raw YAML config content.
func Parse(data []byte) (*Pipeline, error) {
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := Default()

	if file.MinCombinedScore != 0 {
		cfg.MinCombinedScore = file.MinCombinedScore
	}
	if file.MaxRetries != nil {
		cfg.MaxRetries = *file.MaxRetries
	}

	if len(file.Segments) > 0 {
		segments := make([]types.SegmentType, 0, len(file.Segments))
		for _, name := range file.Segments {
			segmentType := types.SegmentType(name)
			if !types.ValidSegmentType(segmentType) {
				return nil, fmt.Errorf("invalid config: unknown segment type %q", name)
			}
			segments = append(segments, segmentType)
		}
		cfg.Segments = segments
	}

	if len(file.RequiredSections) > 0 {
		required := make(types.RequiredSectionSet, len(file.RequiredSections))
		for _, name := range file.RequiredSections {
			ref, err := types.ParseSectionRef(name)
			if err != nil {
				return nil, fmt.Errorf("invalid config: %w", err)
			}
			required.Add(ref)
		}
		cfg.Required = required
	}

	for tierName, model := range file.Models {
		tier := llm.ModelTier(tierName)
		switch tier {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
			cfg.Models[tier] = model
		default:
			return nil, fmt.Errorf("invalid config: unknown model tier %q", tierName)
		}
	}

	return cfg, nil
}
