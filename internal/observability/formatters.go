// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSourceRecord outputs a summary of the loaded profile.
func (p *Printer) PrintSourceRecord(record *types.SourceRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:    %s\n", record.Name))
	sb.WriteString(fmt.Sprintf("Tagline: %s\n", record.Tagline))
	if len(record.Services) > 0 {
		sb.WriteString(fmt.Sprintf("Services: %d listed\n", len(record.Services)))
	}
	if len(record.Expertise) > 0 {
		sb.WriteString(fmt.Sprintf("Expertise: %s", strings.Join(record.Expertise, ", ")))
	}

	p.printBox("Source Profile", sb.String())
}

// PrintDocument outputs a summary of the assembled document.
func (p *Printer) PrintDocument(doc *types.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:       %s\n", doc.Title))
	sb.WriteString(fmt.Sprintf("Description: %s\n", doc.Description))
	sb.WriteString(fmt.Sprintf("Sections (%d):\n", len(doc.SectionOrder)))
	for _, name := range doc.SectionOrder {
		sb.WriteString(fmt.Sprintf("  - %s\n", name))
	}

	p.printBox("Assembled Document", strings.TrimRight(sb.String(), "\n"))
}

// PrintQualityMetrics outputs per-section scores, worst first.
func (p *Printer) PrintQualityMetrics(metrics map[types.SectionRef]types.QualityAssessment) {
	if len(metrics) == 0 {
		p.printBox("Quality Metrics", "No assessments recorded yet.")
		return
	}

	refs := make([]types.SectionRef, 0, len(metrics))
	for ref := range metrics {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, b := metrics[refs[i]], metrics[refs[j]]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore < b.CombinedScore
		}
		return refs[i].String() < refs[j].String()
	})

	var sb strings.Builder
	for _, ref := range refs {
		assessment := metrics[ref]
		sb.WriteString(fmt.Sprintf("%-32s q=%2d c=%2d combined=%2d\n",
			ref.String(), assessment.QualityScore, assessment.ConfidenceScore, assessment.CombinedScore))
	}

	p.printBox("Quality Metrics", strings.TrimRight(sb.String(), "\n"))
}

// PrintStatus outputs per-segment pipeline progress.
func (p *Printer) PrintStatus(status map[types.SegmentType]types.GenerationStatus) {
	var sb strings.Builder
	for _, segmentType := range types.AllSegmentTypes() {
		segmentStatus, ok := status[segmentType]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-14s %s\n", segmentType, segmentStatus))
	}
	if sb.Len() == 0 {
		sb.WriteString("No segments tracked.")
	}

	p.printBox("Generation Status", strings.TrimRight(sb.String(), "\n"))
}
