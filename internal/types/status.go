package types

// GenerationStatus tracks how far a segment has progressed through the
// pipeline within the current generation request.
type GenerationStatus string

// Status values in pipeline order.
const (
	StatusNotGenerated GenerationStatus = "not_generated"
	StatusGenerated    GenerationStatus = "generated"
	StatusImproved     GenerationStatus = "improved"
	StatusAssessed     GenerationStatus = "assessed"
)

var statusRank = map[GenerationStatus]int{
	StatusNotGenerated: 0,
	StatusGenerated:    1,
	StatusImproved:     2,
	StatusAssessed:     3,
}

// Rank returns the ordinal position of the status in the pipeline.
// Unknown statuses rank below NotGenerated.
func (s GenerationStatus) Rank() int {
	if rank, ok := statusRank[s]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether s is at or past the given status.
func (s GenerationStatus) AtLeast(other GenerationStatus) bool {
	return s.Rank() >= other.Rank()
}
