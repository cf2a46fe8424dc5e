// Package quality aggregates syntax, style, and documentation signals
// for one code segment into a weighted score, letter grade, and
// actionable recommendations.
package quality

import (
	"context"
	"fmt"

	"github.com/olympus-coder/olympusval/internal/codecheck"
	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/internal/docscan"
	"github.com/olympus-coder/olympusval/pkg/models"
)

// Assessor orchestrates code checking and documentation analysis.
type Assessor struct {
	registry *codecheck.Registry
	docs     *docscan.Analyzer
	weights  config.QualityConfig
}

// New builds an Assessor from config with the standard registry.
func New(cfg *config.Config) *Assessor {
	return NewWithRegistry(cfg, codecheck.NewRegistry(cfg))
}

// NewWithRegistry builds an Assessor with a caller-supplied registry,
// for callers that register additional languages.
func NewWithRegistry(cfg *config.Config, registry *codecheck.Registry) *Assessor {
	return &Assessor{
		registry: registry,
		docs:     docscan.New(cfg),
		weights:  cfg.Quality,
	}
}

// Assess runs syntax, style, and documentation analysis for one code
// segment and combines them into a QualityAssessment. The context bounds
// any external syntax-checker invocation.
func (a *Assessor) Assess(ctx context.Context, code, language string) models.QualityAssessment {
	syntax, style := a.registry.Check(ctx, code, language)
	docs := a.docs.Analyze(code, language)

	syntaxScore := 0.0
	if syntax.Valid {
		syntaxScore = 1.0
	}

	total := a.weights.SyntaxWeight + a.weights.StyleWeight + a.weights.DocsWeight
	overall := (a.weights.SyntaxWeight*syntaxScore +
		a.weights.StyleWeight*style.Score +
		a.weights.DocsWeight*docs.Score) / total

	assessment := models.QualityAssessment{
		OverallScore:  overall,
		Grade:         a.grade(overall),
		Syntax:        syntax,
		Style:         style,
		Documentation: docs,
	}
	assessment.Recommendations = a.recommend(&assessment)
	return assessment
}

// grade maps an overall score to a letter using inclusive lower bounds.
func (a *Assessor) grade(score float64) models.Grade {
	switch {
	case score >= a.weights.GradeA:
		return models.GradeA
	case score >= a.weights.GradeB:
		return models.GradeB
	case score >= a.weights.GradeC:
		return models.GradeC
	case score >= a.weights.GradeD:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// recommend builds the deduplicated recommendation list, ordered syntax
// errors first, then style violations, then documentation gaps.
func (a *Assessor) recommend(assessment *models.QualityAssessment) []string {
	var recs []string
	seen := make(map[string]bool)
	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			recs = append(recs, rec)
		}
	}

	if !assessment.Syntax.Valid {
		add("Fix syntax errors before proceeding")
		for _, e := range assessment.Syntax.Errors {
			add(e)
		}
	}

	if n := len(assessment.Style.Violations); n > 0 {
		add(fmt.Sprintf("Address style violations: %d issues found", n))
		for _, v := range assessment.Style.Violations {
			if v.Line > 0 {
				add(fmt.Sprintf("Line %d: %s", v.Line, v.Description))
			} else {
				add(v.Description)
			}
		}
	}

	for _, issue := range assessment.Documentation.Issues {
		add(issue)
	}

	return recs
}
