// Package classify segments raw model output into code blocks,
// tool-request fragments, and prose, and reports the overall response
// type. Classification is a pure function over the input string.
package classify

import (
	"strings"

	"github.com/olympus-coder/olympusval/pkg/models"
)

// Classification is the segmentation result for one raw response.
type Classification struct {
	// Segments lists classified spans in source order.
	Segments []models.Segment
	// ResponseType summarizes the segment mix.
	ResponseType models.ResponseType
	// Errors lists response-level errors (e.g. empty input).
	Errors []string
	// Warnings lists response-level warnings (e.g. mixed content).
	Warnings []string
}

// Classifier segments raw model responses.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify segments raw into code, tool-request, and prose spans and
// derives the response type. Empty or whitespace-only input yields
// ResponseEmpty with an "Empty response" error.
func (c *Classifier) Classify(raw string) Classification {
	if strings.TrimSpace(raw) == "" {
		return Classification{
			ResponseType: models.ResponseEmpty,
			Errors:       []string{"Empty response"},
		}
	}

	fences := findFencedBlocks(raw)

	// Tool-request spans are scanned outside fenced regions; fences whose
	// body is itself a tool-shaped JSON object are reclassified during
	// assembly, so a fenced request is validated rather than graded as
	// code.
	spans := findJSONSpans(raw, fences)

	segments := assemble(raw, fences, spans)

	codeCount := 0
	toolCount := 0
	for _, s := range segments {
		switch s.Kind {
		case models.SegmentCode:
			codeCount++
		case models.SegmentToolRequest:
			toolCount++
		}
	}

	result := Classification{Segments: segments}
	switch {
	case toolCount > 0 && codeCount > 0:
		result.ResponseType = models.ResponseMixed
		result.Warnings = append(result.Warnings,
			"Response contains both code blocks and tool requests")
	case toolCount > 0:
		result.ResponseType = models.ResponseToolRequest
	case codeCount > 0:
		result.ResponseType = models.ResponseCode
	default:
		result.ResponseType = models.ResponsePlain
	}

	return result
}

// fencedBlock is a triple-backtick region located in the raw response.
type fencedBlock struct {
	language  string
	bodyStart int
	bodyEnd   int
	start     int // offset of the opening fence
	end       int // offset just past the closing fence
}

// findFencedBlocks locates triple-backtick regions. The opening fence may
// carry a language tag; the tag is case-folded. An unterminated fence is
// treated as running to the end of input.
func findFencedBlocks(raw string) []fencedBlock {
	var blocks []fencedBlock
	i := 0
	for i < len(raw) {
		open := strings.Index(raw[i:], "```")
		if open == -1 {
			break
		}
		open += i

		// Language tag runs from the fence to end of line.
		tagEnd := strings.IndexByte(raw[open+3:], '\n')
		var language string
		var bodyStart int
		if tagEnd == -1 {
			// Fence with no newline after it; nothing to capture.
			break
		}
		language = strings.ToLower(strings.TrimSpace(raw[open+3 : open+3+tagEnd]))
		if language == "" {
			language = "unknown"
		}
		bodyStart = open + 3 + tagEnd + 1

		closeIdx := strings.Index(raw[bodyStart:], "```")
		var bodyEnd, end int
		if closeIdx == -1 {
			bodyEnd = len(raw)
			end = len(raw)
		} else {
			bodyEnd = bodyStart + closeIdx
			end = bodyStart + closeIdx + 3
		}

		blocks = append(blocks, fencedBlock{
			language:  language,
			bodyStart: bodyStart,
			bodyEnd:   bodyEnd,
			start:     open,
			end:       end,
		})
		i = end
	}
	return blocks
}

// jsonSpan is a brace-balanced candidate tool-request region.
type jsonSpan struct {
	start int
	end   int
}

// findJSONSpans scans for JSON-object-shaped substrings containing both a
// "tool_name" and a "parameters" key. Nesting depth is tracked explicitly
// so nested parameter objects are captured whole; string literals are
// skipped so braces inside values do not break the balance.
func findJSONSpans(raw string, fences []fencedBlock) []jsonSpan {
	var spans []jsonSpan
	i := 0
	for i < len(raw) {
		if insideFence(i, fences) {
			i++
			continue
		}
		if raw[i] != '{' {
			i++
			continue
		}

		end, ok := scanBalanced(raw, i)
		if !ok {
			// Unbalanced from this brace; a truncated tool request is
			// still worth surfacing if the keys are present. The span is
			// bounded at the next fence so code blocks stay intact.
			limit := len(raw)
			for _, f := range fences {
				if f.start > i {
					limit = f.start
					break
				}
			}
			candidate := raw[i:limit]
			if looksLikeToolRequest(candidate) {
				spans = append(spans, jsonSpan{start: i, end: limit})
				i = limit
				continue
			}
			i++
			continue
		}

		candidate := raw[i:end]
		if looksLikeToolRequest(candidate) {
			spans = append(spans, jsonSpan{start: i, end: end})
			i = end
			continue
		}
		i++
	}
	return spans
}

// scanBalanced walks the brace structure starting at an opening brace,
// returning the offset just past the matching close. String literals and
// escapes are honored.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// looksLikeToolRequest reports whether a candidate span carries the
// tool-request contract keys.
func looksLikeToolRequest(candidate string) bool {
	return strings.Contains(candidate, `"tool_name"`) &&
		strings.Contains(candidate, `"parameters"`)
}

// fencedToolRequest reports whether a fence wraps a single tool-shaped
// JSON object instead of code, returning the trimmed body. Only json and
// untagged fences qualify; a request embedded in a tagged code example
// stays code.
func fencedToolRequest(raw string, f fencedBlock) (string, bool) {
	if f.language != "json" && f.language != "unknown" {
		return "", false
	}
	body := strings.TrimSpace(raw[f.bodyStart:f.bodyEnd])
	if !strings.HasPrefix(body, "{") || !looksLikeToolRequest(body) {
		return "", false
	}
	end, ok := scanBalanced(body, 0)
	if !ok || strings.TrimSpace(body[end:]) != "" {
		return "", false
	}
	return body, true
}

func insideFence(offset int, fences []fencedBlock) bool {
	for _, f := range fences {
		if offset >= f.start && offset < f.end {
			return true
		}
	}
	return false
}

// assemble merges fence and JSON spans into an ordered segment list,
// filling the gaps with prose segments.
func assemble(raw string, fences []fencedBlock, spans []jsonSpan) []models.Segment {
	type region struct {
		start, end int
		segment    models.Segment
	}

	var regions []region
	for _, f := range fences {
		if body, ok := fencedToolRequest(raw, f); ok {
			regions = append(regions, region{
				start: f.start,
				end:   f.end,
				segment: models.Segment{
					Kind:  models.SegmentToolRequest,
					Start: f.bodyStart,
					End:   f.bodyEnd,
					Text:  body,
				},
			})
			continue
		}
		regions = append(regions, region{
			start: f.start,
			end:   f.end,
			segment: models.Segment{
				Kind:     models.SegmentCode,
				Language: f.language,
				Start:    f.bodyStart,
				End:      f.bodyEnd,
				Text:     strings.TrimRight(raw[f.bodyStart:f.bodyEnd], "\n"),
			},
		})
	}
	for _, s := range spans {
		regions = append(regions, region{
			start: s.start,
			end:   s.end,
			segment: models.Segment{
				Kind:  models.SegmentToolRequest,
				Start: s.start,
				End:   s.end,
				Text:  raw[s.start:s.end],
			},
		})
	}

	// Regions were discovered left to right within each scan; merge the
	// two ordered lists by start offset.
	for i := 1; i < len(regions); i++ {
		for j := i; j > 0 && regions[j].start < regions[j-1].start; j-- {
			regions[j], regions[j-1] = regions[j-1], regions[j]
		}
	}

	var segments []models.Segment
	cursor := 0
	for _, r := range regions {
		if r.start > cursor {
			appendProse(&segments, raw, cursor, r.start)
		}
		segments = append(segments, r.segment)
		cursor = r.end
	}
	if cursor < len(raw) {
		appendProse(&segments, raw, cursor, len(raw))
	}
	return segments
}

// appendProse adds a prose segment for raw[start:end] unless the gap is
// only whitespace.
func appendProse(segments *[]models.Segment, raw string, start, end int) {
	text := raw[start:end]
	if strings.TrimSpace(text) == "" {
		return
	}
	*segments = append(*segments, models.Segment{
		Kind:  models.SegmentProse,
		Start: start,
		End:   end,
		Text:  text,
	})
}
