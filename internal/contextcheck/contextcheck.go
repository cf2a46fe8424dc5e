package contextcheck

import (
	"regexp"
	"sort"
	"strings"

	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/internal/similarity"
	"github.com/olympus-coder/olympusval/pkg/models"
)

// Validator checks code references against a project inventory.
type Validator struct {
	strict         bool
	maxSuggestions int
	minSimilarity  float64
}

// New builds a Validator from config.
func New(cfg *config.Config) *Validator {
	return &Validator{
		strict:         cfg.Context.Strict,
		maxSuggestions: cfg.Context.MaxSuggestions,
		minSimilarity:  cfg.Context.MinSimilarity,
	}
}

// reference is one extracted path or import occurrence.
type reference struct {
	value string
	kind  string // "file" or "import"
	line  int
}

// CheckCode extracts file-path literals and import statements from code
// and resolves each against the project inventory. One finding is
// produced per distinct reference, in first-occurrence order. A nil or
// empty project yields no findings: with no inventory there is nothing
// to contradict.
func (v *Validator) CheckCode(code, language string, project *ProjectContext) []models.ContextFinding {
	if project == nil || project.Len() == 0 {
		return nil
	}

	var refs []reference
	switch normalizeLanguage(language) {
	case "python":
		refs = extractPythonReferences(code)
	case "javascript":
		refs = extractJavaScriptReferences(code)
	default:
		return nil
	}

	var findings []models.ContextFinding
	seen := make(map[string]bool)
	for _, ref := range refs {
		if seen[ref.value] {
			continue
		}
		seen[ref.value] = true

		exists := false
		switch ref.kind {
		case "file":
			exists = project.FileExists(ref.value)
		case "import":
			if normalizeLanguage(language) == "python" {
				exists = project.HasPythonModule(ref.value)
			} else {
				exists = project.HasJavaScriptModule(ref.value)
			}
		}

		finding := models.ContextFinding{
			ReferencedPath: ref.value,
			Kind:           ref.kind,
			Line:           ref.line,
			Exists:         exists,
			Accepted:       true,
		}
		if !exists {
			finding.Suggestions = v.suggest(ref.value, project)
			finding.Accepted = !v.strict
		}
		findings = append(findings, finding)
	}
	return findings
}

// Accepted reports whether every finding passes under the configured
// policy.
func Accepted(findings []models.ContextFinding) bool {
	for _, f := range findings {
		if !f.Accepted {
			return false
		}
	}
	return true
}

// suggest ranks inventory paths by full-path similarity to the target
// and keeps the top candidates above the configured floor. Every
// inventory path is scored; paths with dissimilar base names can still
// qualify when they share directory structure.
func (v *Validator) suggest(target string, project *ProjectContext) []models.PathSuggestion {
	var candidates []models.PathSuggestion
	for _, known := range project.Paths() {
		score := similarity.Score(target, known)
		if score < v.minSimilarity {
			continue
		}
		candidates = append(candidates, models.PathSuggestion{Candidate: known, Similarity: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Candidate < candidates[j].Candidate
	})
	if v.maxSuggestions > 0 && len(candidates) > v.maxSuggestions {
		candidates = candidates[:v.maxSuggestions]
	}
	return candidates
}

var (
	// File-path string literals are recognized by extension.
	pyFileLitRe = regexp.MustCompile(`["']([^"']*\.(?:py|txt|json|csv|yaml|yml))["']`)
	jsFileLitRe = regexp.MustCompile(`["']([^"']*\.(?:js|ts|jsx|tsx|json))["']`)

	pyImportRe     = regexp.MustCompile(`^\s*import\s+([A-Za-z_][A-Za-z0-9_.]*)`)
	pyFromImportRe = regexp.MustCompile(`^\s*from\s+([A-Za-z_][A-Za-z0-9_.]*)\s+import\b`)

	jsImportFromRe = regexp.MustCompile(`import\s+[^'"]*?from\s+["']([^"']+)["']`)
	jsImportBareRe = regexp.MustCompile(`import\s+["']([^"']+)["']`)
	jsRequireRe    = regexp.MustCompile(`require\s*\(\s*["']([^"']+)["']\s*\)`)
)

func extractPythonReferences(code string) []reference {
	var refs []reference
	for i, line := range strings.Split(code, "\n") {
		n := i + 1
		for _, m := range pyFileLitRe.FindAllStringSubmatch(line, -1) {
			refs = append(refs, reference{value: m[1], kind: "file", line: n})
		}
		if m := pyImportRe.FindStringSubmatch(line); m != nil {
			if !isPythonExternal(m[1]) {
				refs = append(refs, reference{value: m[1], kind: "import", line: n})
			}
		} else if m := pyFromImportRe.FindStringSubmatch(line); m != nil {
			if !isPythonExternal(m[1]) {
				refs = append(refs, reference{value: m[1], kind: "import", line: n})
			}
		}
	}
	return refs
}

func extractJavaScriptReferences(code string) []reference {
	var refs []reference
	for i, line := range strings.Split(code, "\n") {
		n := i + 1
		imported := make(map[string]bool)
		for _, re := range []*regexp.Regexp{jsImportFromRe, jsImportBareRe, jsRequireRe} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				spec := m[1]
				if imported[spec] || isJavaScriptExternal(spec) {
					continue
				}
				imported[spec] = true
				refs = append(refs, reference{value: spec, kind: "import", line: n})
			}
		}
		for _, m := range jsFileLitRe.FindAllStringSubmatch(line, -1) {
			if !imported[m[1]] {
				refs = append(refs, reference{value: m[1], kind: "file", line: n})
			}
		}
	}
	return refs
}

// pythonStdlib covers the standard library and common third-party
// packages that should never be resolved against a project inventory.
var pythonStdlib = map[string]bool{
	"os": true, "sys": true, "json": true, "datetime": true,
	"collections": true, "itertools": true, "functools": true,
	"operator": true, "pathlib": true, "typing": true, "re": true,
	"math": true, "random": true, "urllib": true, "http": true,
	"email": true, "html": true, "xml": true, "csv": true,
	"sqlite3": true, "logging": true, "unittest": true,
	"pytest": true, "numpy": true, "pandas": true,
}

func isPythonExternal(module string) bool {
	root, _, _ := strings.Cut(module, ".")
	return pythonStdlib[root]
}

// isJavaScriptExternal treats bare package specifiers and node: builtins
// as external; only relative and path-shaped specifiers resolve against
// the inventory.
func isJavaScriptExternal(specifier string) bool {
	if strings.HasPrefix(specifier, "node:") {
		return true
	}
	return !strings.HasPrefix(specifier, ".") && !strings.Contains(specifier, "/")
}

func normalizeLanguage(language string) string {
	switch strings.ToLower(language) {
	case "python", "py", "python3":
		return "python"
	case "javascript", "js", "typescript", "ts", "jsx", "tsx":
		return "javascript"
	default:
		return ""
	}
}
