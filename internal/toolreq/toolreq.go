// Package toolreq validates structured tool-invocation payloads against
// the tool-request contract: a JSON object with a non-empty tool_name
// string and a parameters object.
package toolreq

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/olympus-coder/olympusval/internal/classify"
	"github.com/olympus-coder/olympusval/pkg/models"
)

// Confidence deductions. A request with all fields well-formed and
// non-trivial parameters stays above 0.8.
const (
	emptyParamsPenalty    = 0.15
	unknownToolPenalty    = 0.1
	garbagePenalty        = 0.05
	missingParamPenalty   = 0.1
	blankParamKeysPenalty = 0.1
)

// Validator validates tool-request payloads.
type Validator struct {
	vocab *Vocabulary
}

// New creates a Validator. A nil vocabulary falls back to the built-in
// tool set.
func New(vocab *Vocabulary) *Validator {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Validator{vocab: vocab}
}

// Validate parses and validates one candidate tool-request substring.
// Parse and schema failures are reported in the result, never raised.
func (v *Validator) Validate(candidate string) models.ToolRequestResult {
	result := models.ToolRequestResult{}

	trimmed := strings.TrimSpace(candidate)

	// Decode from the first brace so prose wrapped around an otherwise
	// valid request degrades confidence instead of failing the parse.
	objStart := strings.IndexByte(trimmed, '{')
	if objStart < 0 {
		objStart = 0
	}

	var parsed map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(trimmed[objStart:]))
	if err := dec.Decode(&parsed); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}
	trailing := trimmed[objStart+int(dec.InputOffset()):]
	surrounded := objStart > 0 || strings.TrimSpace(trailing) != ""

	rawName, hasName := parsed["tool_name"]
	rawParams, hasParams := parsed["parameters"]

	if !hasName {
		result.Errors = append(result.Errors, "missing required field: tool_name")
	}
	if !hasParams {
		result.Errors = append(result.Errors, "missing required field: parameters")
	}
	if len(result.Errors) > 0 {
		return result
	}

	var toolName string
	if err := json.Unmarshal(rawName, &toolName); err != nil {
		result.Errors = append(result.Errors, "tool_name must be a string")
		return result
	}
	if toolName == "" {
		result.Errors = append(result.Errors, "tool_name must be a non-empty string")
		return result
	}

	var params map[string]any
	if err := json.Unmarshal(rawParams, &params); err != nil {
		result.Errors = append(result.Errors, "parameters must be an object")
		return result
	}
	if params == nil {
		params = map[string]any{}
	}

	result.Request = &models.ToolRequest{ToolName: toolName, Parameters: params}
	result.Valid = true
	result.Confidence = v.score(toolName, params, surrounded, &result)
	return result
}

// score computes the confidence for a structurally valid request.
func (v *Validator) score(toolName string, params map[string]any, surrounded bool, result *models.ToolRequestResult) float64 {
	confidence := 1.0

	if len(params) == 0 {
		confidence -= emptyParamsPenalty
	}

	// Blank parameter keys are implausible for real tool calls.
	for key := range params {
		if strings.TrimSpace(key) == "" {
			confidence -= blankParamKeysPenalty
			result.Warnings = append(result.Warnings, "parameters contain a blank key")
			break
		}
	}

	// Prose around the JSON object suggests the model mixed commentary
	// into what should be a pure structured response.
	if surrounded {
		confidence -= garbagePenalty
		result.Warnings = append(result.Warnings, "tool request has surrounding text")
	}

	spec, known := v.vocab.Lookup(toolName)
	if !known {
		confidence -= unknownToolPenalty
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unknown tool %q (known: %s)", toolName, strings.Join(sortedNames(v.vocab), ", ")))
	} else {
		for _, required := range spec.RequiredParams {
			if _, ok := params[required]; !ok {
				confidence -= missingParamPenalty
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("tool %q is missing expected parameter %q", toolName, required))
			}
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

// ExtractAll classifies raw output and validates every tool-shaped span
// in it, in source order.
func (v *Validator) ExtractAll(raw string) []models.ToolRequestResult {
	classification := classify.New().Classify(raw)

	var results []models.ToolRequestResult
	for _, segment := range classification.Segments {
		if segment.Kind != models.SegmentToolRequest {
			continue
		}
		results = append(results, v.Validate(segment.Text))
	}
	return results
}

func sortedNames(v *Vocabulary) []string {
	names := v.Names()
	sort.Strings(names)
	return names
}
