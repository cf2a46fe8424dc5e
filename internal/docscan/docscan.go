// Package docscan scores doc-comment coverage per module, function, and
// class using each language's documentation convention: docstrings for
// Python, JSDoc blocks for JavaScript.
package docscan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/pkg/models"
)

// Analyzer scores documentation coverage.
type Analyzer struct {
	moduleWeight   float64
	functionWeight float64
	classWeight    float64
}

// New builds an Analyzer from config. Full coverage of module, function,
// and class docs always scores 1.0; zero coverage scores 0.0.
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{
		moduleWeight:   cfg.Documentation.ModuleWeight,
		functionWeight: cfg.Documentation.FunctionWeight,
		classWeight:    cfg.Documentation.ClassWeight,
	}
}

// Analyze scores the documentation of a code segment. Unsupported
// languages yield a neutral full-coverage report with no issues.
func (a *Analyzer) Analyze(code, language string) models.DocumentationReport {
	switch strings.ToLower(language) {
	case "python", "py", "python3":
		return a.analyzePython(code)
	case "javascript", "js", "jsx", "typescript", "ts", "tsx":
		return a.analyzeJavaScript(code)
	default:
		return models.DocumentationReport{ModuleDoc: true, Score: 1.0}
	}
}

var (
	pyDefRe   = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	pyClassRe = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_][A-Za-z0-9_]*)\s*[(:]`)
)

// analyzePython counts the module docstring and per-def/class docstrings
// (a triple-quoted string on the first statement line after the header).
func (a *Analyzer) analyzePython(code string) models.DocumentationReport {
	report := models.DocumentationReport{}
	lines := strings.Split(code, "\n")

	// Module docstring: the first non-blank, non-comment line opens a
	// triple-quoted string.
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''") {
			report.ModuleDoc = true
		}
		break
	}
	if !report.ModuleDoc {
		report.Issues = append(report.Issues, "Module missing docstring")
	}

	for i, line := range lines {
		if m := pyDefRe.FindStringSubmatch(line); m != nil {
			report.TotalFunctions++
			if hasPythonDocstring(lines, i) {
				report.FunctionDocCount++
			} else {
				report.Issues = append(report.Issues,
					fmt.Sprintf("Function '%s' missing docstring", m[2]))
			}
		}
		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			report.TotalClasses++
			if hasPythonDocstring(lines, i) {
				report.ClassDocCount++
			} else {
				report.Issues = append(report.Issues,
					fmt.Sprintf("Class '%s' missing docstring", m[2]))
			}
		}
	}

	report.Score = a.score(&report)
	return report
}

// hasPythonDocstring reports whether the first statement after the
// header at lines[headerIdx] opens a triple-quoted string. The header
// may span lines until one ends with ':'.
func hasPythonDocstring(lines []string, headerIdx int) bool {
	i := headerIdx
	for i < len(lines) {
		trimmed := strings.TrimRight(lines[i], " \t")
		if strings.HasSuffix(trimmed, ":") {
			break
		}
		i++
	}
	for j := i + 1; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''")
	}
	return false
}

var (
	jsFuncRe  = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$][A-Za-z0-9_$]*)|^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|[A-Za-z_$][A-Za-z0-9_$]*\s*=>)`)
	jsClassRe = regexp.MustCompile(`^\s*(?:export\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
)

// analyzeJavaScript counts JSDoc coverage: a block comment ending within
// two lines above a function or class declaration documents it. The
// module doc is a leading comment block at the top of the segment.
func (a *Analyzer) analyzeJavaScript(code string) models.DocumentationReport {
	report := models.DocumentationReport{}
	lines := strings.Split(code, "\n")

	// Module-level doc: first non-blank line starts a comment.
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		report.ModuleDoc = strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "//")
		break
	}
	if !report.ModuleDoc {
		report.Issues = append(report.Issues, "Module missing doc comment")
	}

	// Track lines on which a JSDoc block ends.
	docEnd := make(map[int]bool)
	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/**") {
			inBlock = true
		}
		if inBlock && strings.Contains(trimmed, "*/") {
			docEnd[i] = true
			inBlock = false
		}
	}

	documented := func(declIdx int) bool {
		for d := declIdx - 1; d >= 0 && declIdx-d <= 2; d-- {
			if docEnd[d] {
				return true
			}
			if strings.TrimSpace(lines[d]) != "" {
				return false
			}
		}
		return false
	}

	for i, line := range lines {
		if m := jsFuncRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			report.TotalFunctions++
			if documented(i) {
				report.FunctionDocCount++
			} else {
				report.Issues = append(report.Issues,
					fmt.Sprintf("Function '%s' missing JSDoc documentation", name))
			}
		}
		if m := jsClassRe.FindStringSubmatch(line); m != nil {
			report.TotalClasses++
			if documented(i) {
				report.ClassDocCount++
			} else {
				report.Issues = append(report.Issues,
					fmt.Sprintf("Class '%s' missing JSDoc documentation", m[1]))
			}
		}
	}

	report.Score = a.score(&report)
	return report
}

// score computes the weighted coverage. Absent functions or classes
// count as full coverage of their share so trivial snippets are not
// penalized for having nothing to document.
func (a *Analyzer) score(report *models.DocumentationReport) float64 {
	score := 0.0
	if report.ModuleDoc {
		score += a.moduleWeight
	}

	if report.TotalFunctions > 0 {
		score += a.functionWeight * float64(report.FunctionDocCount) / float64(report.TotalFunctions)
	} else {
		score += a.functionWeight
	}

	if report.TotalClasses > 0 {
		score += a.classWeight * float64(report.ClassDocCount) / float64(report.TotalClasses)
	} else {
		score += a.classWeight
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
