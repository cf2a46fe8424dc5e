package codecheck

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/pkg/models"
)

var (
	jsFuncRe  = regexp.MustCompile(`function\s+([A-Za-z_$][A-Za-z0-9_$]*)|(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?(?:function\b|\()`)
	jsClassRe = regexp.MustCompile(`\bclass\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsVarRe   = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsCamelRe = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	jsUpperRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	jsCtrlRe  = regexp.MustCompile(`^\s*(?:if|for|while|function|class|else|try|catch|finally|switch|do|export|import|return|const|let|var)?\s*[{}]?\s*$`)
	jsFnameRe = regexp.MustCompile(`function\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
)

// JavaScriptChecker validates JavaScript code. Without an in-process
// parser, validity comes from a string- and comment-aware balanced
// delimiter scan, optionally confirmed by `node --check` when a node
// binary is configured.
type JavaScriptChecker struct {
	nodeBinary string
	timeout    time.Duration
	lineLimit  int
}

// NewJavaScriptChecker builds a JavaScript checker from config.
func NewJavaScriptChecker(cfg *config.Config) *JavaScriptChecker {
	return &JavaScriptChecker{
		nodeBinary: cfg.Checkers.NodeBinary,
		timeout:    cfg.Checkers.Timeout,
		lineLimit:  cfg.Style.JavaScriptLineLength,
	}
}

// Language returns "javascript".
func (j *JavaScriptChecker) Language() string { return "javascript" }

// Aliases returns the fence tags that map to the JavaScript checker.
func (j *JavaScriptChecker) Aliases() []string {
	return []string{"js", "jsx", "typescript", "ts", "tsx"}
}

// CheckSyntax validates JavaScript syntax.
func (j *JavaScriptChecker) CheckSyntax(ctx context.Context, code string) models.SyntaxReport {
	report := models.SyntaxReport{
		Valid:     true,
		Checked:   true,
		LineCount: countLines(code),
	}
	j.scanStructure(code, &report)

	if errs := scanDelimiters(code); len(errs) > 0 {
		report.Valid = false
		report.Errors = errs
		return report
	}

	// The delimiter scan accepts the code; an available node binary gets
	// the final word.
	if j.nodeBinary != "" {
		ext := runExternalCheck(ctx, j.timeout, code, j.nodeBinary, "--check", "--input-type=module", "-")
		if !ext.ran {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("node syntax check skipped: %s", ext.unavailableReason))
			return report
		}
		report.Valid = ext.passed
		if !ext.passed {
			report.Errors = append(report.Errors, ext.diagnostics...)
		}
	}

	return report
}

// scanDelimiters walks the code tracking brace, bracket, and parenthesis
// balance while skipping string literals, template literals, and
// comments.
func scanDelimiters(code string) []string {
	var stack []byte
	var stackLines []int
	line := 1

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateSingle
		stateDouble
		stateTemplate
	)
	state := stateCode
	escaped := false

	var errs []string
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if ch == '\n' {
			line++
			if state == stateLineComment {
				state = stateCode
			}
			if state == stateSingle || state == stateDouble {
				// Unterminated plain string; recover at line end.
				state = stateCode
			}
			escaped = false
			continue
		}

		switch state {
		case stateLineComment:
			continue
		case stateBlockComment:
			if ch == '/' && i > 0 && code[i-1] == '*' {
				state = stateCode
			}
			continue
		case stateSingle, stateDouble, stateTemplate:
			if escaped {
				escaped = false
				continue
			}
			switch {
			case ch == '\\':
				escaped = true
			case ch == '\'' && state == stateSingle:
				state = stateCode
			case ch == '"' && state == stateDouble:
				state = stateCode
			case ch == '`' && state == stateTemplate:
				state = stateCode
			}
			continue
		}

		switch ch {
		case '/':
			if i+1 < len(code) {
				switch code[i+1] {
				case '/':
					state = stateLineComment
					i++
					continue
				case '*':
					state = stateBlockComment
					i++
					continue
				}
			}
		case '\'':
			state = stateSingle
		case '"':
			state = stateDouble
		case '`':
			state = stateTemplate
		case '{', '[', '(':
			stack = append(stack, ch)
			stackLines = append(stackLines, line)
		case '}', ']', ')':
			want := matchingOpen(ch)
			if len(stack) == 0 {
				errs = append(errs, fmt.Sprintf("Line %d: unexpected '%c'", line, ch))
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stackLines = stackLines[:len(stackLines)-1]
			if top != want {
				errs = append(errs, fmt.Sprintf("Line %d: mismatched '%c', open '%c' pending", line, ch, top))
			}
		}
	}

	for idx, open := range stack {
		errs = append(errs, fmt.Sprintf("Line %d: unclosed '%c'", stackLines[idx], open))
	}
	return errs
}

func matchingOpen(close byte) byte {
	switch close {
	case '}':
		return '{'
	case ']':
		return '['
	default:
		return '('
	}
}

// scanStructure fills the structural flags by pattern detection.
func (j *JavaScriptChecker) scanStructure(code string, report *models.SyntaxReport) {
	if jsFuncRe.MatchString(code) || strings.Contains(code, "=>") {
		report.HasFunctions = true
	}
	if jsClassRe.MatchString(code) {
		report.HasClasses = true
	}
	if strings.Contains(code, "import ") || strings.Contains(code, "require(") {
		report.HasImports = true
	}
	if strings.Contains(code, "try {") || strings.Contains(code, "try{") ||
		strings.Contains(code, "catch") {
		report.HasErrorHandling = true
	}
	if strings.Contains(code, "=>") || strings.Contains(code, "async ") ||
		strings.Contains(code, "await ") || strings.Contains(code, "?.") {
		report.HasModernSyntax = true
	}
}

// CheckStyle applies the JavaScript style profile: line length, trailing
// whitespace, consistent indentation, missing semicolons, camelCase
// naming, and quote consistency.
func (j *JavaScriptChecker) CheckStyle(code string) models.StyleReport {
	lines := strings.Split(code, "\n")
	var violations []models.StyleViolation

	add := func(line int, format string, args ...any) {
		violations = append(violations, models.StyleViolation{
			Line:        line,
			Description: fmt.Sprintf(format, args...),
		})
	}

	// Indentation unit is the smallest indent in use; everything else
	// must be a multiple of it.
	baseIndent := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || !strings.HasPrefix(line, " ") {
			continue
		}
		n := leadingSpaces(line)
		if baseIndent == 0 || n < baseIndent {
			baseIndent = n
		}
	}

	for i, line := range lines {
		num := i + 1
		trimmed := strings.TrimSpace(line)

		if len(line) > j.lineLimit {
			add(num, "Line too long (%d > %d characters)", len(line), j.lineLimit)
		}
		if line != strings.TrimRight(line, " \t") && trimmed != "" {
			add(num, "Trailing whitespace")
		}
		if baseIndent > 0 && trimmed != "" && strings.HasPrefix(line, " ") {
			if leadingSpaces(line)%baseIndent != 0 {
				add(num, "Inconsistent indentation")
			}
		}

		if missingSemicolon(trimmed) {
			add(num, "Missing semicolon")
		}

		// Naming: variables and functions use camelCase; SCREAMING_CASE
		// constants are accepted.
		for _, m := range jsVarRe.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if !jsCamelRe.MatchString(name) && !jsUpperRe.MatchString(name) {
				add(num, "Variable '%s' should use camelCase", name)
			}
		}
		if m := jsFnameRe.FindStringSubmatch(line); m != nil {
			if !jsCamelRe.MatchString(m[1]) {
				add(num, "Function '%s' should use camelCase", m[1])
			}
		}
	}

	// Quote consistency across the whole block.
	doubles := strings.Count(code, `"`)
	singles := strings.Count(code, "'")
	if doubles > singles && singles > 0 {
		add(0, "Inconsistent quote usage - prefer single quotes")
	}

	return models.StyleReport{
		Score:      styleScore(len(violations), len(lines)),
		Violations: violations,
	}
}

// missingSemicolon reports whether a statement line should end with a
// semicolon but does not. Control structures, braces, and comments are
// excluded.
func missingSemicolon(trimmed string) bool {
	if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") {
		return false
	}
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "{") ||
		strings.HasSuffix(trimmed, "}") || strings.HasSuffix(trimmed, ",") ||
		strings.HasSuffix(trimmed, "(") || strings.HasSuffix(trimmed, "=>") ||
		strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "&&") ||
		strings.HasSuffix(trimmed, "||") || strings.HasSuffix(trimmed, "+") ||
		strings.HasSuffix(trimmed, "=") {
		return false
	}
	if jsCtrlRe.MatchString(trimmed) {
		return false
	}
	// Continuation-style control headers.
	for _, kw := range []string{"if ", "if(", "for ", "for(", "while ", "while(", "else", "switch", "try", "catch", "finally", "function", "class ", "export ", "import "} {
		if strings.HasPrefix(trimmed, kw) {
			return false
		}
	}
	last := trimmed[len(trimmed)-1]
	return last == ')' || last == ']' ||
		(last >= 'a' && last <= 'z') || (last >= 'A' && last <= 'Z') ||
		(last >= '0' && last <= '9') || last == '_' || last == '\'' || last == '"' || last == '`'
}
