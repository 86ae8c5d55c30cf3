// Package validation scores a generated content bundle against the
// publication rubric. Validation is pure: same bundle in, same verdict out,
// no external calls.
package validation

// Severity ranks how much an issue should block publication.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Issue is one rubric finding against a specific bundle field.
type Issue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result is the full validation verdict. Errors carries critical, high and
// medium issues, Warnings carries low ones. IsValid holds exactly when no
// error has critical or high severity; Score is 100 minus the summed
// penalties, floored at zero.
type Result struct {
	IsValid     bool     `json:"is_valid"`
	Score       int      `json:"score"`
	Errors      []Issue  `json:"errors"`
	Warnings    []Issue  `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}
