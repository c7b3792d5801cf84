package ai

import "strings"

// ValidationResult reports whether a generated fragment is usable and,
// when it is not, the ordered list of reasons it was rejected.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

// ValidateCode runs the structural checks every generated fragment must
// pass before it is persisted. Checks run in a fixed order so the issue
// list is stable for identical input.
func ValidateCode(code string) ValidationResult {
	var issues []string

	if !strings.Contains(code, "<div") && !strings.Contains(code, "<section") && !strings.Contains(code, "<main") {
		issues = append(issues, "Missing container element")
	}
	if !strings.Contains(code, "class=") {
		issues = append(issues, "No CSS classes found")
	}
	if strings.Contains(code, "// TODO") || strings.Contains(code, "/* TODO") {
		issues = append(issues, "Contains placeholder comments")
	}
	if strings.Contains(code, "<script") {
		issues = append(issues, "Script tags not allowed")
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}
