// Package assembly deterministically combines enabled sections into the
// final document. Assembly is a pure function of its inputs: no I/O, no
// mutation of the segment map, and a freshly built document every call.
package assembly

import (
	"encoding/json"
	"fmt"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// PreconditionError reports that a required section's segment is missing
// from the segment map at assembly time. Required sections are force
// enabled, not force generated, so this indicates a failed required
// generation upstream and is always fatal.
type PreconditionError struct {
	Ref    types.SectionRef
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot assemble document: required section %s %s", e.Ref, e.Reason)
}

// heroContent is the slice of the hero payload that feeds the document
// title and description.
type heroContent struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

// Assemble builds the document from the segment map. Sections are walked
// in the given canonical order (nil means the pipeline-wide default) and
// included iff enabled; sections in the required set are always included.
// Title and description come from the identity segment's hero content
// unconditionally.
func Assemble(segments map[types.SegmentType]*types.Segment, order []types.SectionRef, required types.RequiredSectionSet) (*types.Document, error) {
	if order == nil {
		order = types.CanonicalSectionOrder()
	}
	if required == nil {
		required = types.DefaultRequiredSections()
	}

	identity, ok := segments[types.SegmentIdentity]
	if !ok {
		return nil, &PreconditionError{
			Ref:    types.SectionRef{SegmentType: types.SegmentIdentity, Section: types.SectionHero},
			Reason: "is absent: identity segment was never generated",
		}
	}
	hero, ok := identity.Sections[types.SectionHero]
	if !ok {
		return nil, &PreconditionError{
			Ref:    types.SectionRef{SegmentType: types.SegmentIdentity, Section: types.SectionHero},
			Reason: "is absent from the identity segment",
		}
	}

	var heroFields heroContent
	if err := json.Unmarshal(hero.Content, &heroFields); err != nil {
		return nil, fmt.Errorf("failed to decode hero content for document title: %w", err)
	}

	doc := &types.Document{
		Title:        heroFields.Headline,
		Description:  heroFields.Subheadline,
		SectionOrder: make([]string, 0, len(order)),
		Sections:     make(map[string]types.DocumentSection, len(order)),
	}

	for _, ref := range order {
		segment, ok := segments[ref.SegmentType]
		if !ok {
			if required.Contains(ref) {
				return nil, &PreconditionError{Ref: ref, Reason: "is absent: its segment was never generated"}
			}
			continue
		}
		section, ok := segment.Sections[ref.Section]
		if !ok {
			if required.Contains(ref) {
				return nil, &PreconditionError{Ref: ref, Reason: "is absent from its segment"}
			}
			continue
		}

		if !section.Enabled && !required.Contains(ref) {
			continue
		}

		content := make(json.RawMessage, len(section.Content))
		copy(content, section.Content)
		doc.Sections[ref.Section] = types.DocumentSection{
			Title:   section.Title,
			Content: content,
		}
		doc.SectionOrder = append(doc.SectionOrder, ref.Section)
	}

	return doc, nil
}
