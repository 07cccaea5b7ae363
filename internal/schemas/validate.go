// Package schemas validates generated segment payloads against the JSON
// Schemas embedded per segment type and normalizes them into typed
// segments with defaults applied.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

//go:embed *.json
var schemaFiles embed.FS

// compiled schemas, built lazily per segment type
var (
	compiled   = make(map[types.SegmentType]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports that a generated payload does not match its
// segment schema. It is non-retryable as-is; the caller must re-prompt.
type ValidationError struct {
	SegmentType types.SegmentType
	Errors      []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("segment %s failed validation:\n", ve.SegmentType))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling a schema itself.
type SchemaLoadError struct {
	SegmentType types.SegmentType
	Cause       error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema for segment %s: %v", e.SegmentType, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// rawSection mirrors the section shape the schema enforces.
type rawSection struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
	Enabled *bool           `json:"enabled"`
}

// rawPayload mirrors the envelope the generation prompt asks for.
type rawPayload struct {
	Sections map[string]rawSection `json:"sections"`
}

// Validate validates a raw generated payload for the given segment type
// and normalizes it into a Segment with defaults applied: enabled=true,
// version=1, generatedAt=now. Pure apart from the clock; never partially
// accepts a payload.
func Validate(segmentType types.SegmentType, raw []byte) (*types.Segment, error) {
	return ValidateAt(segmentType, raw, time.Now().UTC())
}

// ValidateAt is Validate with an explicit generation timestamp.
func ValidateAt(segmentType types.SegmentType, raw []byte, generatedAt time.Time) (*types.Segment, error) {
	if !types.ValidSegmentType(segmentType) {
		return nil, &SchemaLoadError{SegmentType: segmentType, Cause: fmt.Errorf("unknown segment type")}
	}

	schema, err := schemaFor(segmentType)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// The document itself could not be loaded (e.g. not valid JSON)
		return nil, &ValidationError{
			SegmentType: segmentType,
			Errors:      []FieldError{{Field: "(root)", Message: fmt.Sprintf("payload is not valid JSON: %v", err)}},
		}
	}

	if !result.Valid() {
		validationErr := &ValidationError{
			SegmentType: segmentType,
			Errors:      make([]FieldError, 0, len(result.Errors())),
		}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			validationErr.Errors = append(validationErr.Errors, FieldError{
				Field:   field,
				Message: desc.Description(),
			})
		}
		return nil, validationErr
	}

	var payload rawPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ValidationError{
			SegmentType: segmentType,
			Errors:      []FieldError{{Field: "(root)", Message: fmt.Sprintf("failed to decode payload: %v", err)}},
		}
	}

	segment := &types.Segment{
		SegmentType: segmentType,
		Version:     1,
		GeneratedAt: generatedAt,
		Sections:    make(map[string]*types.Section, len(payload.Sections)),
	}
	for _, name := range types.SectionsFor(segmentType) {
		raw := payload.Sections[name]
		enabled := true
		if raw.Enabled != nil {
			enabled = *raw.Enabled
		}
		segment.Sections[name] = &types.Section{
			Title:   raw.Title,
			Content: raw.Content,
			Enabled: enabled,
		}
	}

	return segment, nil
}

// schemaFor compiles (once) and returns the embedded schema for a segment type.
func schemaFor(segmentType types.SegmentType) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[segmentType]; ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(string(segmentType) + ".json")
	if err != nil {
		return nil, &SchemaLoadError{SegmentType: segmentType, Cause: err}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{SegmentType: segmentType, Cause: err}
	}

	compiled[segmentType] = schema
	return schema, nil
}
