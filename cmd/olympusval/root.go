package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/internal/contextcheck"
	"github.com/olympus-coder/olympusval/internal/inventory"
	"github.com/olympus-coder/olympusval/internal/toolreq"
	"github.com/olympus-coder/olympusval/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "olympusval",
	Short: "Response validation for LLM coding agents",
	Long: `Olympusval validates raw model responses from LLM coding agents:
it classifies each response into code, tool-request, and prose segments,
checks tool requests against a vocabulary, scores code for syntax, style,
and documentation quality, and cross-references file paths and imports
against the project's file inventory.

Core capabilities:
- Segments responses with brace-balanced JSON and fence scanning
- Validates tool requests with confidence scoring
- Grades Python and JavaScript code quality (A-F)
- Suggests fixes for unresolved file references
- Tracks validation accuracy across runs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration, exiting on failure.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// buildPipeline assembles a validation pipeline from config, honoring
// the configured vocabulary file and debug log path.
func buildPipeline(cfg *config.Config) (*validate.Pipeline, error) {
	var opts []validate.Option

	if cfg.Tools.VocabularyPath != "" {
		vocab, err := toolreq.LoadVocabulary(cfg.Tools.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load tool vocabulary: %w", err)
		}
		opts = append(opts, validate.WithVocabulary(vocab))
	}

	if cfg.LogPath != "" {
		logger, err := validate.NewDebugLogger(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		opts = append(opts, validate.WithLogger(logger))
	}

	return validate.New(cfg, opts...), nil
}

// loadProjectContext resolves the project inventory from a manifest
// file or by scanning a project root. Both empty means no context.
func loadProjectContext(manifestPath, projectRoot string) (*contextcheck.ProjectContext, error) {
	if manifestPath != "" {
		m, err := inventory.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		return contextcheck.NewProjectContext(m.Files), nil
	}
	if projectRoot != "" {
		snap, err := inventory.NewScanner(projectRoot).Scan()
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		return contextcheck.NewProjectContext(snap.Files), nil
	}
	return nil, nil
}
