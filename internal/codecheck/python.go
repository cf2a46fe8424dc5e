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

// compileCheckScript asks the interpreter to parse stdin without
// executing it.
const compileCheckScript = `import sys, ast
try:
    ast.parse(sys.stdin.read())
except SyntaxError as e:
    print(f"Syntax error at line {e.lineno}: {e.msg}", file=sys.stderr)
    sys.exit(1)
`

var (
	pyDefRe       = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	pyClassRe     = regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)\s*[(:]`)
	pyImportRe    = regexp.MustCompile(`^\s*(?:import\s+[A-Za-z_]|from\s+[A-Za-z_.])`)
	pyBlockHead   = regexp.MustCompile(`^\s*(?:async\s+)?(?:def|class|if|elif|else|for|while|try|except|finally|with|match|case)\b.*:\s*(?:#.*)?$`)
	pySnakeRe     = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	pyPascalRe    = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	pyBareAssign  = regexp.MustCompile(`[a-zA-Z0-9_][=][a-zA-Z0-9_"'([]`)
	pyCmpAdjacent = regexp.MustCompile(`[=!<>+\-*/%&|^:]=|=[==]`)
)

// PythonChecker validates Python code. Syntax validity comes from the
// configured interpreter's own parser; a deterministic pre-scan catches
// missing-indentation errors even when no interpreter is reachable.
type PythonChecker struct {
	interpreter string
	timeout     time.Duration
	lineLimit   int
}

// NewPythonChecker builds a Python checker from config.
func NewPythonChecker(cfg *config.Config) *PythonChecker {
	return &PythonChecker{
		interpreter: cfg.Checkers.PythonInterpreter,
		timeout:     cfg.Checkers.Timeout,
		lineLimit:   cfg.Style.PythonLineLength,
	}
}

// Language returns "python".
func (p *PythonChecker) Language() string { return "python" }

// Aliases returns the fence tags that map to the Python checker.
func (p *PythonChecker) Aliases() []string { return []string{"py", "python3"} }

// CheckSyntax validates Python syntax.
func (p *PythonChecker) CheckSyntax(ctx context.Context, code string) models.SyntaxReport {
	report := models.SyntaxReport{
		Valid:     true,
		LineCount: countLines(code),
	}
	p.scanStructure(code, &report)

	// The pre-scan only reports definite errors, so any hit settles the
	// verdict without the interpreter.
	if errs := prescanPython(code); len(errs) > 0 {
		report.Valid = false
		report.Checked = true
		report.Errors = errs
		return report
	}

	ext := runExternalCheck(ctx, p.timeout, code, p.interpreter, "-c", compileCheckScript)
	if !ext.ran {
		report.Checked = false
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("python syntax check skipped: %s", ext.unavailableReason))
		return report
	}

	report.Checked = true
	report.Valid = ext.passed
	if !ext.passed {
		report.Errors = append(report.Errors, ext.diagnostics...)
	}
	return report
}

// prescanPython detects definite syntax errors without an interpreter:
// a block header with no indented body, and statements at top level that
// can only legally appear indented. Lines inside triple-quoted string
// literals are free-form text and never count.
func prescanPython(code string) []string {
	lines := strings.Split(code, "\n")
	inString := tripleQuoteMask(lines)
	var errs []string

	for i, line := range lines {
		if inString[i] || !pyBlockHead.MatchString(line) {
			continue
		}
		headIndent := leadingSpaces(line)

		// Find the next non-blank, non-comment line.
		for j := i + 1; j <= len(lines); j++ {
			if j == len(lines) {
				errs = append(errs, fmt.Sprintf("Syntax error at line %d: expected an indented block", i+1))
				break
			}
			next := strings.TrimSpace(lines[j])
			if next == "" || strings.HasPrefix(next, "#") || inString[j] {
				continue
			}
			if leadingSpaces(lines[j]) <= headIndent {
				errs = append(errs, fmt.Sprintf("Syntax error at line %d: expected an indented block after line %d", j+1, i+1))
			}
			break
		}
	}

	// return outside any indented context is a definite error.
	for i, line := range lines {
		if inString[i] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if leadingSpaces(line) == 0 && strings.HasPrefix(trimmed, "return") {
			errs = append(errs, fmt.Sprintf("Syntax error at line %d: 'return' outside function", i+1))
		}
	}

	return errs
}

// tripleQuoteMask reports, per line, whether the line starts inside an
// unterminated triple-quoted string literal.
func tripleQuoteMask(lines []string) []bool {
	mask := make([]bool, len(lines))
	var open string
	for i, line := range lines {
		mask[i] = open != ""
		rest := line
		for {
			if open == "" {
				dq := strings.Index(rest, `"""`)
				sq := strings.Index(rest, "'''")
				idx, delim := dq, `"""`
				if dq == -1 || (sq != -1 && sq < dq) {
					idx, delim = sq, "'''"
				}
				if idx == -1 {
					break
				}
				open = delim
				rest = rest[idx+3:]
			} else {
				idx := strings.Index(rest, open)
				if idx == -1 {
					break
				}
				rest = rest[idx+3:]
				open = ""
			}
		}
	}
	return mask
}

// scanStructure fills the structural flags by pattern detection. These
// feed feature-completeness scoring, not syntax validity.
func (p *PythonChecker) scanStructure(code string, report *models.SyntaxReport) {
	lines := strings.Split(code, "\n")
	for _, line := range lines {
		if pyDefRe.MatchString(line) {
			report.HasFunctions = true
		}
		if pyClassRe.MatchString(line) {
			report.HasClasses = true
		}
		if pyImportRe.MatchString(line) {
			report.HasImports = true
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "try:") || strings.HasPrefix(trimmed, "except") {
			report.HasErrorHandling = true
		}
	}
	if strings.Contains(code, "async def") || strings.Contains(code, "await ") ||
		strings.Contains(code, `f"`) || strings.Contains(code, "f'") ||
		strings.Contains(code, ":=") {
		report.HasModernSyntax = true
	}
}

// CheckStyle applies the Python style profile: line length, trailing
// whitespace, 4-space indentation, imports at top, naming conventions,
// spaces around assignment, and blank lines before top-level
// declarations.
func (p *PythonChecker) CheckStyle(code string) models.StyleReport {
	lines := strings.Split(code, "\n")
	inString := tripleQuoteMask(lines)
	var violations []models.StyleViolation

	add := func(line int, format string, args ...any) {
		violations = append(violations, models.StyleViolation{
			Line:        line,
			Description: fmt.Sprintf(format, args...),
		})
	}

	codeStarted := false
	for i, line := range lines {
		num := i + 1

		if len(line) > p.lineLimit {
			add(num, "Line too long (%d > %d characters)", len(line), p.lineLimit)
		}
		// String-literal content is not subject to layout rules.
		if inString[i] {
			continue
		}
		if line != strings.TrimRight(line, " \t") && strings.TrimSpace(line) != "" {
			add(num, "Trailing whitespace")
		}

		if strings.TrimSpace(line) != "" && strings.HasPrefix(line, " ") {
			if leadingSpaces(line)%4 != 0 {
				add(num, "Indentation should be a multiple of 4 spaces")
			}
		}

		trimmed := strings.TrimSpace(line)

		// Imports below the first statement.
		isImport := strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ")
		isPreamble := trimmed == "" || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''")
		if codeStarted && isImport && leadingSpaces(line) == 0 {
			add(num, "Import should be at top of file")
		}
		if !isPreamble && !isImport {
			codeStarted = true
		}

		// Naming conventions.
		if m := pyDefRe.FindStringSubmatch(line); m != nil {
			if name := m[1]; !pySnakeRe.MatchString(name) && !strings.HasPrefix(name, "__") {
				add(num, "Function '%s' should use snake_case", name)
			}
		}
		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			if name := m[1]; !pyPascalRe.MatchString(name) {
				add(num, "Class '%s' should use PascalCase", name)
			}
		}

		// Missing spaces around assignment. Comparison and augmented
		// operators are excluded first so x==y is not flagged here.
		if !strings.HasPrefix(trimmed, "#") && strings.Contains(line, "=") {
			stripped := pyCmpAdjacent.ReplaceAllString(line, "")
			if pyBareAssign.MatchString(stripped) && !insideParens(line) {
				add(num, "Missing spaces around assignment operator")
			}
		}

		// Blank line before a top-level def/class.
		if i > 0 && leadingSpaces(line) == 0 &&
			(strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "class ")) {
			prev := strings.TrimSpace(lines[i-1])
			if prev != "" && !strings.HasPrefix(prev, "@") && !strings.HasPrefix(prev, "#") {
				add(num, "Expected blank line before top-level declaration")
			}
		}
	}

	return models.StyleReport{
		Score:      styleScore(len(violations), len(lines)),
		Violations: violations,
	}
}

// insideParens reports whether the line's first '=' appears within an
// open parenthesis, where keyword arguments legally omit spaces.
func insideParens(line string) bool {
	depth := 0
	for _, ch := range line {
		switch ch {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '=':
			return depth > 0
		}
	}
	return false
}
