package domain

// KeywordDocument is a candidate entry of the transient search corpus.
// It is the only shape the matching engine indexes.
type KeywordDocument struct {
	// ID identifies the candidate within one corpus. The engine reports
	// matches by ID and by position in the input slice.
	ID string `json:"id"`

	// Keywords is the candidate's normalized keyword document.
	Keywords string `json:"keywords"`
}

// Bleve field name constants for consistent field references in mappings.
const (
	DocumentFieldID       = "id"
	DocumentFieldKeywords = "keywords"
)

// ScoredEmployee is one ranked search hit.
type ScoredEmployee struct {
	Score      float64 `json:"score"`
	EmployeeID int64   `json:"employee_id"`
	Name       string  `json:"name"`
}

// PositionResult holds the ranked employees for a single project position.
type PositionResult struct {
	PositionID   int64            `json:"position_id"`
	PositionName string           `json:"position_name"`
	Results      []ScoredEmployee `json:"results"`
}
