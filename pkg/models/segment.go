package models

// SegmentKind classifies a contiguous span of a model response.
type SegmentKind string

const (
	// SegmentCode is a fenced code region.
	SegmentCode SegmentKind = "code"
	// SegmentToolRequest is a JSON-shaped tool invocation.
	SegmentToolRequest SegmentKind = "tool_request"
	// SegmentProse is free text outside recognized segments.
	SegmentProse SegmentKind = "prose"
)

// Valid returns true if the kind is a known value.
func (k SegmentKind) Valid() bool {
	switch k {
	case SegmentCode, SegmentToolRequest, SegmentProse:
		return true
	default:
		return false
	}
}

// ResponseType summarizes what a model response contains.
type ResponseType string

const (
	// ResponseCode means the response contains code blocks only.
	ResponseCode ResponseType = "code"
	// ResponseToolRequest means the response contains tool requests only.
	ResponseToolRequest ResponseType = "tool_request"
	// ResponseMixed means the response contains both code and tool requests.
	ResponseMixed ResponseType = "mixed"
	// ResponsePlain means the response is prose only.
	ResponsePlain ResponseType = "plain"
	// ResponseEmpty means the response has no content.
	ResponseEmpty ResponseType = "empty"
)

// Valid returns true if the response type is a known value.
func (t ResponseType) Valid() bool {
	switch t {
	case ResponseCode, ResponseToolRequest, ResponseMixed, ResponsePlain, ResponseEmpty:
		return true
	default:
		return false
	}
}

// Segment is a classified span of a model response.
// Segments are created once during classification and never mutated.
type Segment struct {
	// Kind is the segment classification.
	Kind SegmentKind `json:"kind"`
	// Language is the lowercased code-fence language tag; "unknown" when
	// the fence carries no tag. Empty for non-code segments.
	Language string `json:"language,omitempty"`
	// Start is the byte offset of the segment in the raw response.
	Start int `json:"start"`
	// End is the byte offset just past the segment.
	End int `json:"end"`
	// Text is the segment content. For code segments this is the fence
	// body without the backtick delimiters.
	Text string `json:"text"`
}

// ToolRequest is a structured directive asking the calling agent to
// invoke a named external action.
type ToolRequest struct {
	// ToolName is the name of the tool to invoke. Must be non-empty.
	ToolName string `json:"tool_name"`
	// Parameters is the JSON object of tool arguments. May be empty.
	Parameters map[string]any `json:"parameters"`
}
