// Package source provides the read-only source-data providers that seed
// generation prompts. A provider failure aborts the pipeline before any
// generation begins.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// Provider fetches the profile record that seeds all generation prompts.
type Provider interface {
	GetSourceData(ctx context.Context) (*types.SourceRecord, error)
}

var validate = validator.New()

// checkRecord validates the structural requirements of a source record.
func checkRecord(record *types.SourceRecord) error {
	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("invalid source record: %w", err)
	}
	return nil
}

// StaticProvider serves a fixed in-memory record. Used by tests and by
// callers that already hold the profile data.
type StaticProvider struct {
	record types.SourceRecord
}

// NewStaticProvider creates a provider serving the given record.
func NewStaticProvider(record types.SourceRecord) *StaticProvider {
	return &StaticProvider{record: record}
}

// GetSourceData returns a copy of the configured record.
func (p *StaticProvider) GetSourceData(_ context.Context) (*types.SourceRecord, error) {
	record := p.record
	if err := checkRecord(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FileProvider reads the profile record from a JSON file on each call.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider reading from the given path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// GetSourceData reads and validates the profile file.
func (p *FileProvider) GetSourceData(_ context.Context) (*types.SourceRecord, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", p.path, err)
	}

	var record types.SourceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %s: %w", p.path, err)
	}
	if err := checkRecord(&record); err != nil {
		return nil, err
	}
	return &record, nil
}
