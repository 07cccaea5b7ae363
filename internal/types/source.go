package types

// SourceService is one offering listed in the source profile.
type SourceService struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SourceRecord is the profile data that seeds all generation prompts.
// It is read-only from the pipeline's perspective; persistence belongs to
// the source-data provider.
type SourceRecord struct {
	Name      string          `json:"name" validate:"required"`
	Tagline   string          `json:"tagline" validate:"required"`
	Bio       string          `json:"bio,omitempty"`
	Services  []SourceService `json:"services,omitempty"`
	Expertise []string        `json:"expertise,omitempty"`
	Links     []string        `json:"links,omitempty"`
	Email     string          `json:"email,omitempty" validate:"omitempty,email"`
}
