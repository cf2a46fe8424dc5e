package models

import "time"

// PathSuggestion is a fuzzy-match candidate for an unresolved reference.
type PathSuggestion struct {
	// Candidate is a known project path.
	Candidate string `json:"candidate"`
	// Similarity is the normalized similarity in [0,1] to the reference.
	Similarity float64 `json:"similarity"`
}

// ContextFinding records the result of checking one referenced path or
// import against the project file inventory.
type ContextFinding struct {
	// ReferencedPath is the path or module the code referenced.
	ReferencedPath string `json:"referenced_path"`
	// Kind distinguishes file references from imports ("file", "import").
	Kind string `json:"kind"`
	// Line is the 1-based source line of the reference, 0 if unknown.
	Line int `json:"line,omitempty"`
	// Exists indicates the reference resolved against the inventory.
	Exists bool `json:"exists"`
	// Suggestions lists fuzzy candidates sorted by descending similarity.
	// Empty when Exists is true.
	Suggestions []PathSuggestion `json:"suggestions,omitempty"`
	// Accepted indicates whether the finding passes under the caller's
	// strictness policy (unresolved references warn rather than fail by
	// default).
	Accepted bool `json:"accepted"`
}

// ToolRequestResult is the validation outcome for one tool-request span.
type ToolRequestResult struct {
	// Request is the parsed request; nil when parsing failed.
	Request *ToolRequest `json:"request,omitempty"`
	// Valid indicates the span satisfied the tool-request contract.
	Valid bool `json:"valid"`
	// Confidence is the well-formedness score in [0,1].
	Confidence float64 `json:"confidence"`
	// Errors lists parse and schema errors for this span.
	Errors []string `json:"errors,omitempty"`
	// Warnings lists non-fatal findings (e.g. unknown tool name).
	Warnings []string `json:"warnings,omitempty"`
}

// CodeAssessment ties a code segment to its quality assessment and any
// project-context findings.
type CodeAssessment struct {
	// Segment is the code segment that was assessed.
	Segment Segment `json:"segment"`
	// Quality is the aggregated quality assessment.
	Quality QualityAssessment `json:"quality"`
	// Findings lists context-validation results for this segment.
	Findings []ContextFinding `json:"findings,omitempty"`
}

// ValidationReport is the top-level result of validating one raw model
// response. It is assembled once per validation call and never mutated
// afterwards.
type ValidationReport struct {
	// ID uniquely identifies this validation run.
	ID string `json:"id"`
	// ResponseType summarizes what the response contained.
	ResponseType ResponseType `json:"response_type"`
	// Segments lists every classified span in source order.
	Segments []Segment `json:"segments"`
	// ToolRequests lists validation results for tool-request segments.
	ToolRequests []ToolRequestResult `json:"tool_requests,omitempty"`
	// CodeAssessments lists quality and context results for code segments.
	CodeAssessments []CodeAssessment `json:"code_assessments,omitempty"`
	// OverallValid is true when every segment validated cleanly under the
	// configured policy.
	OverallValid bool `json:"overall_valid"`
	// Errors lists response-level errors (e.g. "Empty response").
	Errors []string `json:"errors,omitempty"`
	// Warnings lists response-level warnings (e.g. mixed response type).
	Warnings []string `json:"warnings,omitempty"`
	// Duration is how long validation took.
	Duration time.Duration `json:"duration"`
	// CreatedAt is when the validation ran.
	CreatedAt time.Time `json:"created_at"`
}

// CodeSegments returns the code segments in source order.
func (r *ValidationReport) CodeSegments() []Segment {
	var out []Segment
	for _, s := range r.Segments {
		if s.Kind == SegmentCode {
			out = append(out, s)
		}
	}
	return out
}

// ToolRequestSegments returns the tool-request segments in source order.
func (r *ValidationReport) ToolRequestSegments() []Segment {
	var out []Segment
	for _, s := range r.Segments {
		if s.Kind == SegmentToolRequest {
			out = append(out, s)
		}
	}
	return out
}
