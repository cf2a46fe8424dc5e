package models

// SyntaxReport holds the result of a language syntax check.
type SyntaxReport struct {
	// Valid indicates the code parsed successfully.
	Valid bool `json:"valid"`
	// Checked indicates a real syntax checker ran. When no checker was
	// reachable the report assumes valid and sets Checked false.
	Checked bool `json:"checked"`
	// Errors lists syntax errors in source order.
	Errors []string `json:"errors,omitempty"`
	// Warnings lists non-fatal diagnostics (e.g. checker unavailable).
	Warnings []string `json:"warnings,omitempty"`
	// LineCount is the number of lines in the checked code.
	LineCount int `json:"line_count"`
	// HasFunctions indicates function or method definitions were found.
	HasFunctions bool `json:"has_functions"`
	// HasClasses indicates class definitions were found.
	HasClasses bool `json:"has_classes"`
	// HasImports indicates import or require statements were found.
	HasImports bool `json:"has_imports"`
	// HasErrorHandling indicates try/except or try/catch constructs.
	HasErrorHandling bool `json:"has_error_handling"`
	// HasModernSyntax indicates language-idiomatic modern markers
	// (arrow functions, async/await, f-strings).
	HasModernSyntax bool `json:"has_modern_syntax"`
}

// StyleViolation is a single style rule violation.
type StyleViolation struct {
	// Line is the 1-based line number, 0 for file-level violations.
	Line int `json:"line"`
	// Description explains the violated rule.
	Description string `json:"description"`
}

// StyleReport holds the result of style checking.
type StyleReport struct {
	// Score is 1 - violations/lines, clamped to [0,1].
	Score float64 `json:"score"`
	// Violations lists rule violations in source order.
	Violations []StyleViolation `json:"violations,omitempty"`
}

// Compliant returns true if no style rules were violated.
func (r StyleReport) Compliant() bool {
	return len(r.Violations) == 0
}

// DocumentationReport holds doc-comment coverage for one code segment.
type DocumentationReport struct {
	// ModuleDoc indicates a module-level doc comment is present.
	ModuleDoc bool `json:"module_doc"`
	// FunctionDocCount is the number of documented functions.
	FunctionDocCount int `json:"function_doc_count"`
	// ClassDocCount is the number of documented classes.
	ClassDocCount int `json:"class_doc_count"`
	// TotalFunctions is the number of functions found.
	TotalFunctions int `json:"total_functions"`
	// TotalClasses is the number of classes found.
	TotalClasses int `json:"total_classes"`
	// Score is the weighted coverage score in [0,1].
	Score float64 `json:"score"`
	// Issues lists one entry per undocumented module, function, or class.
	Issues []string `json:"issues,omitempty"`
}

// Grade is a letter grade derived from an overall quality score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Passing returns true for grades C and above.
func (g Grade) Passing() bool {
	switch g {
	case GradeA, GradeB, GradeC:
		return true
	default:
		return false
	}
}

// QualityAssessment aggregates syntax, style, and documentation signals
// for one code segment into a weighted score and letter grade.
type QualityAssessment struct {
	// OverallScore is the fixed convex combination of the sub-scores.
	OverallScore float64 `json:"overall_score"`
	// Grade is the letter grade for OverallScore.
	Grade Grade `json:"grade"`
	// Syntax is the underlying syntax report.
	Syntax SyntaxReport `json:"syntax"`
	// Style is the underlying style report.
	Style StyleReport `json:"style"`
	// Documentation is the underlying documentation report.
	Documentation DocumentationReport `json:"documentation"`
	// Recommendations lists actionable fixes ordered by severity:
	// syntax errors, then style violations, then documentation gaps.
	Recommendations []string `json:"recommendations,omitempty"`
}
