package types

// QualityAssessment holds the editorial scores attached to a section by
// the assessment stage. Scores are on a 1-10 scale.
type QualityAssessment struct {
	QualityScore            int    `json:"quality_score" validate:"min=1,max=10"`
	QualityJustification    string `json:"quality_justification"`
	ConfidenceScore         int    `json:"confidence_score" validate:"min=1,max=10"`
	ConfidenceJustification string `json:"confidence_justification"`
	CombinedScore           int    `json:"combined_score"`
	SuggestedImprovement    string `json:"suggested_improvement,omitempty"`
}
