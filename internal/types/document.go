package types

import "encoding/json"

// DocumentSection is the rendered content of one included section.
type DocumentSection struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// Document is the assembled landing page: the enabled sections of all
// segments, in canonical presentation order. Documents are built fresh on
// every assembly call and never mutated in place.
type Document struct {
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	SectionOrder []string                   `json:"section_order"`
	Sections     map[string]DocumentSection `json:"sections"`
}

// HasSection reports whether the named section was included in the document.
func (d *Document) HasSection(name string) bool {
	_, ok := d.Sections[name]
	return ok
}
