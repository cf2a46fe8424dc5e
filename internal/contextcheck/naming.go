package contextcheck

import (
	"fmt"
	"regexp"
	"strings"
)

// NamingStyle is one recognized identifier convention.
type NamingStyle string

const (
	StyleSnakeCase  NamingStyle = "snake_case"
	StyleCamelCase  NamingStyle = "camelCase"
	StylePascalCase NamingStyle = "PascalCase"
	StyleUpperCase  NamingStyle = "UPPER_CASE"
	StyleUnknown    NamingStyle = "unknown"
)

// NamingIssue flags one identifier that breaks the dominant convention.
type NamingIssue struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// NamingReport summarizes convention consistency between new code and
// the identifiers already established in the codebase.
type NamingReport struct {
	Consistent bool                `json:"consistent"`
	Patterns   map[string][]string `json:"patterns"`
	Issues     []NamingIssue       `json:"issues,omitempty"`
}

var (
	snakeRe  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	camelRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	pascalRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	upperRe  = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

	pyDefNameRe   = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)`)
	pyClassNameRe = regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	pyAssignRe    = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)

	jsFuncNameRe  = regexp.MustCompile(`function\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsArrowDeclRe = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>)`)
	jsClassNameRe = regexp.MustCompile(`class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsVarDeclRe   = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=`)
)

// CheckNaming extracts identifiers from code and compares each category
// against the dominant style of the existing names for that category.
// Categories absent from existing are skipped: there is nothing to be
// consistent with.
func CheckNaming(code, language string, existing map[string][]string) NamingReport {
	report := NamingReport{Consistent: true}
	switch normalizeLanguage(language) {
	case "python":
		report.Patterns = extractPythonNames(code)
	case "javascript":
		report.Patterns = extractJavaScriptNames(code)
	default:
		report.Patterns = map[string][]string{}
		return report
	}

	for kind, names := range report.Patterns {
		established, ok := existing[kind]
		if !ok || len(established) == 0 {
			continue
		}
		dominant := dominantStyle(established)
		if dominant == StyleUnknown {
			continue
		}
		for _, name := range names {
			if matchesStyle(name, dominant) {
				continue
			}
			report.Consistent = false
			report.Issues = append(report.Issues, NamingIssue{
				Name:       name,
				Kind:       kind,
				Issue:      fmt.Sprintf("naming style inconsistent with existing %s", kind),
				Suggestion: convertToStyle(name, dominant),
			})
		}
	}
	return report
}

func extractPythonNames(code string) map[string][]string {
	patterns := map[string][]string{}
	for _, line := range strings.Split(code, "\n") {
		if m := pyDefNameRe.FindStringSubmatch(line); m != nil {
			patterns["functions"] = append(patterns["functions"], m[1])
			continue
		}
		if m := pyClassNameRe.FindStringSubmatch(line); m != nil {
			patterns["classes"] = append(patterns["classes"], m[1])
			continue
		}
		if m := pyAssignRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if upperRe.MatchString(name) && strings.ToUpper(name) == name {
				patterns["constants"] = append(patterns["constants"], name)
			} else {
				patterns["variables"] = append(patterns["variables"], name)
			}
		}
	}
	return patterns
}

func extractJavaScriptNames(code string) map[string][]string {
	patterns := map[string][]string{}
	for _, line := range strings.Split(code, "\n") {
		funcs := make(map[string]bool)
		for _, re := range []*regexp.Regexp{jsFuncNameRe, jsArrowDeclRe} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				if !funcs[m[1]] {
					funcs[m[1]] = true
					patterns["functions"] = append(patterns["functions"], m[1])
				}
			}
		}
		for _, m := range jsClassNameRe.FindAllStringSubmatch(line, -1) {
			patterns["classes"] = append(patterns["classes"], m[1])
		}
		for _, m := range jsVarDeclRe.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if funcs[name] {
				continue
			}
			if upperRe.MatchString(name) && strings.ToUpper(name) == name {
				patterns["constants"] = append(patterns["constants"], name)
			} else {
				patterns["variables"] = append(patterns["variables"], name)
			}
		}
	}
	return patterns
}

// dominantStyle picks the most common style among names, preferring the
// earlier entry in the canonical order on ties.
func dominantStyle(names []string) NamingStyle {
	order := []NamingStyle{StyleSnakeCase, StyleCamelCase, StylePascalCase, StyleUpperCase}
	counts := make(map[NamingStyle]int)
	for _, name := range names {
		for _, style := range order {
			if matchesStyle(name, style) {
				counts[style]++
				break
			}
		}
	}
	best := StyleUnknown
	bestN := 0
	for _, style := range order {
		if counts[style] > bestN {
			best = style
			bestN = counts[style]
		}
	}
	return best
}

func matchesStyle(name string, style NamingStyle) bool {
	switch style {
	case StyleSnakeCase:
		return snakeRe.MatchString(name)
	case StyleCamelCase:
		return camelRe.MatchString(name)
	case StylePascalCase:
		return pascalRe.MatchString(name)
	case StyleUpperCase:
		return upperRe.MatchString(name)
	}
	return true
}

var (
	camelBoundaryRe   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	acronymBoundaryRe = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
)

// convertToStyle rewrites name into the target convention.
func convertToStyle(name string, style NamingStyle) string {
	words := splitIdentifier(name)
	switch style {
	case StyleSnakeCase:
		return strings.Join(words, "_")
	case StyleUpperCase:
		return strings.ToUpper(strings.Join(words, "_"))
	case StyleCamelCase:
		out := words[0]
		for _, w := range words[1:] {
			out += capitalize(w)
		}
		return out
	case StylePascalCase:
		var out string
		for _, w := range words {
			out += capitalize(w)
		}
		return out
	}
	return name
}

// splitIdentifier lowercases and splits on underscores and camel-case
// boundaries.
func splitIdentifier(name string) []string {
	spaced := acronymBoundaryRe.ReplaceAllString(name, "${1}_${2}")
	spaced = camelBoundaryRe.ReplaceAllString(spaced, "${1}_${2}")
	parts := strings.FieldsFunc(strings.ToLower(spaced), func(r rune) bool {
		return r == '_' || r == ' '
	})
	if len(parts) == 0 {
		return []string{strings.ToLower(name)}
	}
	return parts
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
