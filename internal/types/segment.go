// Package types provides type definitions for the structured artifacts flowing through the landing page pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SegmentType identifies one logical grouping of landing page sections
// that is generated together from a single prompt/schema pair.
type SegmentType string

// The closed set of segment types known to the pipeline.
const (
	SegmentIdentity    SegmentType = "identity"
	SegmentOffering    SegmentType = "offering"
	SegmentCredibility SegmentType = "credibility"
	SegmentConversion  SegmentType = "conversion"
)

// Section name constants. Every section belongs to exactly one segment type.
const (
	SectionHero             = "hero"
	SectionAbout            = "about"
	SectionServices         = "services"
	SectionProcess          = "process"
	SectionCaseStudies      = "case_studies"
	SectionExpertise        = "expertise"
	SectionFAQ              = "faq"
	SectionProblemStatement = "problem_statement"
	SectionCTA              = "cta"
	SectionFooter           = "footer"
)

// segmentSections maps each segment type to its fixed section keys.
// A generated segment always carries all of these keys; a section that
// should not be shown is disabled, never omitted.
var segmentSections = map[SegmentType][]string{
	SegmentIdentity:    {SectionHero, SectionAbout},
	SegmentOffering:    {SectionServices, SectionProcess},
	SegmentCredibility: {SectionCaseStudies, SectionExpertise, SectionFAQ},
	SegmentConversion:  {SectionProblemStatement, SectionCTA, SectionFooter},
}

// canonicalOrder lists every section in presentation order. Assembly
// walks this list, so inclusion order never depends on generation order.
var canonicalOrder = []SectionRef{
	{SegmentIdentity, SectionHero},
	{SegmentConversion, SectionProblemStatement},
	{SegmentOffering, SectionServices},
	{SegmentOffering, SectionProcess},
	{SegmentCredibility, SectionCaseStudies},
	{SegmentCredibility, SectionExpertise},
	{SegmentIdentity, SectionAbout},
	{SegmentCredibility, SectionFAQ},
	{SegmentConversion, SectionCTA},
	{SegmentConversion, SectionFooter},
}

// AllSegmentTypes returns the full set of segment types in a stable order.
func AllSegmentTypes() []SegmentType {
	return []SegmentType{SegmentIdentity, SegmentOffering, SegmentCredibility, SegmentConversion}
}

// ValidSegmentType reports whether t is one of the known segment types.
func ValidSegmentType(t SegmentType) bool {
	_, ok := segmentSections[t]
	return ok
}

// SectionsFor returns the fixed section keys for a segment type.
// Returns nil for unknown segment types.
func SectionsFor(t SegmentType) []string {
	sections, ok := segmentSections[t]
	if !ok {
		return nil
	}
	out := make([]string, len(sections))
	copy(out, sections)
	return out
}

// SegmentTypeOf returns the segment type that owns the given section name.
func SegmentTypeOf(section string) (SegmentType, bool) {
	for segmentType, sections := range segmentSections {
		for _, name := range sections {
			if name == section {
				return segmentType, true
			}
		}
	}
	return "", false
}

// CanonicalSectionOrder returns the pipeline-wide presentation order of
// every possible section.
func CanonicalSectionOrder() []SectionRef {
	out := make([]SectionRef, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// SectionRef identifies one section within a segment.
type SectionRef struct {
	SegmentType SegmentType `json:"segment_type"`
	Section     string      `json:"section"`
}

func (r SectionRef) String() string {
	return string(r.SegmentType) + "/" + r.Section
}

// ParseSectionRef parses a "segmentType/section" string and verifies the
// section actually belongs to the named segment type.
func ParseSectionRef(s string) (SectionRef, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return SectionRef{}, fmt.Errorf("invalid section reference %q (expected segmentType/section)", s)
	}
	ref := SectionRef{SegmentType: SegmentType(parts[0]), Section: parts[1]}
	if !ValidSegmentType(ref.SegmentType) {
		return SectionRef{}, fmt.Errorf("unknown segment type %q in section reference %q", parts[0], s)
	}
	owner, ok := SegmentTypeOf(ref.Section)
	if !ok || owner != ref.SegmentType {
		return SectionRef{}, fmt.Errorf("section %q does not belong to segment type %q", parts[1], parts[0])
	}
	return ref, nil
}

// RequiredSectionSet is the set of sections that must always be enabled
// in the assembled document, regardless of assessed quality.
type RequiredSectionSet map[SectionRef]struct{}

// Contains reports whether ref is in the required set.
func (s RequiredSectionSet) Contains(ref SectionRef) bool {
	_, ok := s[ref]
	return ok
}

// Add inserts ref into the set.
func (s RequiredSectionSet) Add(ref SectionRef) {
	s[ref] = struct{}{}
}

// DefaultRequiredSections returns the default required set: the hero
// headline, the primary services offering, and the footer.
func DefaultRequiredSections() RequiredSectionSet {
	return RequiredSectionSet{
		{SegmentIdentity, SectionHero}:     {},
		{SegmentOffering, SectionServices}: {},
		{SegmentConversion, SectionFooter}: {},
	}
}

// Section is one addressable content unit of the final document. Sections
// are always present in their segment; exclusion from the assembled
// document is expressed via Enabled=false, never by omission.
type Section struct {
	Title   string             `json:"title"`
	Content json.RawMessage    `json:"content"`
	Enabled bool               `json:"enabled"`
	Quality *QualityAssessment `json:"quality,omitempty"`
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := &Section{
		Title:   s.Title,
		Enabled: s.Enabled,
	}
	if s.Content != nil {
		out.Content = make(json.RawMessage, len(s.Content))
		copy(out.Content, s.Content)
	}
	if s.Quality != nil {
		quality := *s.Quality
		out.Quality = &quality
	}
	return out
}

// Segment is a named bundle of sections generated together.
type Segment struct {
	SegmentType SegmentType         `json:"segment_type"`
	Version     int                 `json:"version"`
	GeneratedAt time.Time           `json:"generated_at"`
	Sections    map[string]*Section `json:"sections"`
}

// Clone returns a deep copy of the segment. The cache hands out clones so
// pipeline stages can mutate segments without aliasing cached state.
func (s *Segment) Clone() *Segment {
	if s == nil {
		return nil
	}
	out := &Segment{
		SegmentType: s.SegmentType,
		Version:     s.Version,
		GeneratedAt: s.GeneratedAt,
		Sections:    make(map[string]*Section, len(s.Sections)),
	}
	for name, section := range s.Sections {
		out.Sections[name] = section.Clone()
	}
	return out
}
