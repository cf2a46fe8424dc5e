// Package codecheck provides per-language syntax and style checkers
// behind a capability-indexed registry. New languages register a Checker
// implementation; callers never branch on language strings.
package codecheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/pkg/models"
)

// Checker validates code for one language.
type Checker interface {
	// Language returns the canonical language identifier.
	Language() string
	// Aliases returns alternate fence tags that map to this checker.
	Aliases() []string
	// CheckSyntax validates code syntax. The context bounds any external
	// checker invocation.
	CheckSyntax(ctx context.Context, code string) models.SyntaxReport
	// CheckStyle applies the language's style rule set. Style rules
	// operate on raw lines and succeed even for unparseable code.
	CheckStyle(code string) models.StyleReport
}

// Registry maps language identifiers and aliases to checkers.
type Registry struct {
	checkers map[string]Checker
}

// NewRegistry creates a registry pre-populated with the Python and
// JavaScript checkers built from cfg.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{checkers: make(map[string]Checker)}
	r.Register(NewPythonChecker(cfg))
	r.Register(NewJavaScriptChecker(cfg))
	return r
}

// EmptyRegistry creates a registry with no checkers, for callers that
// register their own.
func EmptyRegistry() *Registry {
	return &Registry{checkers: make(map[string]Checker)}
}

// Register adds a checker under its language and all its aliases.
func (r *Registry) Register(c Checker) {
	r.checkers[strings.ToLower(c.Language())] = c
	for _, alias := range c.Aliases() {
		r.checkers[strings.ToLower(alias)] = c
	}
}

// Lookup returns the checker for a language tag, case-insensitively.
func (r *Registry) Lookup(language string) (Checker, bool) {
	c, ok := r.checkers[strings.ToLower(language)]
	return c, ok
}

// Languages returns the canonical language identifiers registered.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.checkers {
		if !seen[c.Language()] {
			seen[c.Language()] = true
			out = append(out, c.Language())
		}
	}
	return out
}

// Check runs syntax and style validation for a code segment. Unknown
// languages yield an unchecked, assumed-valid syntax report so an exotic
// fence tag never fails a response outright.
func (r *Registry) Check(ctx context.Context, code, language string) (models.SyntaxReport, models.StyleReport) {
	checker, ok := r.Lookup(language)
	if !ok {
		return models.SyntaxReport{
			Valid:     true,
			Checked:   false,
			LineCount: countLines(code),
			Warnings:  []string{fmt.Sprintf("no syntax checker registered for language %q", language)},
		}, models.StyleReport{Score: 1.0}
	}
	return checker.CheckSyntax(ctx, code), checker.CheckStyle(code)
}

// countLines counts lines the way the style scorer does.
func countLines(code string) int {
	if code == "" {
		return 0
	}
	return len(strings.Split(code, "\n"))
}

// styleScore computes 1 - violations/lines, clamped to [0,1].
func styleScore(violations, lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	score := 1.0 - float64(violations)/float64(lines)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// leadingSpaces returns the count of leading space characters.
func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
