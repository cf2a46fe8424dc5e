// Package validate wires the response classifier, tool-request
// validator, quality assessor, and context validator into one pipeline
// producing a ValidationReport per raw model response.
package validate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/olympus-coder/olympusval/internal/classify"
	"github.com/olympus-coder/olympusval/internal/codecheck"
	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/internal/contextcheck"
	"github.com/olympus-coder/olympusval/internal/quality"
	"github.com/olympus-coder/olympusval/internal/toolreq"
	"github.com/olympus-coder/olympusval/pkg/models"
)

// Pipeline validates raw model responses. It is safe for concurrent
// use: all state is set at construction and every run builds its
// report from scratch.
type Pipeline struct {
	classifier *classify.Classifier
	tools      *toolreq.Validator
	assessor   *quality.Assessor
	context    *contextcheck.Validator
	logger     *DebugLogger
}

// Option customizes a Pipeline at construction.
type Option func(*Pipeline)

// WithVocabulary replaces the default tool vocabulary.
func WithVocabulary(vocab *toolreq.Vocabulary) Option {
	return func(p *Pipeline) {
		p.tools = toolreq.New(vocab)
	}
}

// WithRegistry replaces the default language-checker registry.
func WithRegistry(cfg *config.Config, registry *codecheck.Registry) Option {
	return func(p *Pipeline) {
		p.assessor = quality.NewWithRegistry(cfg, registry)
	}
}

// WithLogger attaches a debug logger.
func WithLogger(logger *DebugLogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New builds a Pipeline from config.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: classify.New(),
		tools:      toolreq.New(nil),
		assessor:   quality.New(cfg),
		context:    contextcheck.New(cfg),
		logger:     NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate runs the full pipeline over one raw response. The project
// context may be nil when no inventory is available; context checks are
// skipped in that case. Segment-level failures are recorded in the
// report and never abort sibling segments.
func (p *Pipeline) Validate(ctx context.Context, raw string, project *contextcheck.ProjectContext) *models.ValidationReport {
	start := time.Now()

	classification := p.classifier.Classify(raw)
	p.logger.Log("classified response: type=%s segments=%d", classification.ResponseType, len(classification.Segments))

	report := &models.ValidationReport{
		ID:           uuid.New().String(),
		ResponseType: classification.ResponseType,
		Segments:     classification.Segments,
		Errors:       classification.Errors,
		Warnings:     classification.Warnings,
		OverallValid: len(classification.Errors) == 0,
	}

	for _, segment := range classification.Segments {
		switch segment.Kind {
		case models.SegmentToolRequest:
			result := p.tools.Validate(segment.Text)
			report.ToolRequests = append(report.ToolRequests, result)
			if !result.Valid {
				report.OverallValid = false
			}
			p.logger.Log("tool request: valid=%v confidence=%.2f errors=%d", result.Valid, result.Confidence, len(result.Errors))

		case models.SegmentCode:
			assessment := models.CodeAssessment{
				Segment: segment,
				Quality: p.assessor.Assess(ctx, segment.Text, segment.Language),
			}
			assessment.Findings = p.context.CheckCode(segment.Text, segment.Language, project)
			report.CodeAssessments = append(report.CodeAssessments, assessment)

			if !assessment.Quality.Syntax.Valid {
				report.OverallValid = false
			}
			if !contextcheck.Accepted(assessment.Findings) {
				report.OverallValid = false
			}
			p.logger.Log("code segment (%s): grade=%s score=%.2f findings=%d",
				segment.Language, assessment.Quality.Grade, assessment.Quality.OverallScore, len(assessment.Findings))
		}
	}

	report.Duration = time.Since(start)
	report.CreatedAt = start.UTC()
	p.logger.Log("report %s: overall_valid=%v in %s", report.ID, report.OverallValid, report.Duration)
	return report
}

// BatchResult summarizes validating an ordered sequence of responses.
type BatchResult struct {
	// Reports holds one report per input, in input order.
	Reports []*models.ValidationReport `json:"reports"`
	// ValidCount is how many reports came back overall-valid.
	ValidCount int `json:"valid_count"`
	// Accuracy is ValidCount over the number of inputs, 0 for no inputs.
	Accuracy float64 `json:"accuracy"`
}

// ValidateBatch validates each response in order and reduces the
// outcomes to an accuracy fraction.
func (p *Pipeline) ValidateBatch(ctx context.Context, responses []string, project *contextcheck.ProjectContext) BatchResult {
	result := BatchResult{}
	for _, raw := range responses {
		report := p.Validate(ctx, raw, project)
		result.Reports = append(result.Reports, report)
		if report.OverallValid {
			result.ValidCount++
		}
	}
	if len(responses) > 0 {
		result.Accuracy = float64(result.ValidCount) / float64(len(responses))
	}
	return result
}
