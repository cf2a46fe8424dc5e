package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olympus-coder/olympusval/internal/config"
	"github.com/olympus-coder/olympusval/internal/history"
	"github.com/olympus-coder/olympusval/internal/quality"
	"github.com/olympus-coder/olympusval/pkg/models"
)

var (
	validateProject   string
	validateManifest  string
	validateJSON      bool
	validateStrict    bool
	validateNoHistory bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate one model response",
	Long: `Validate a raw model response read from a file, or from stdin
when no file is given.

The response is segmented, tool requests are checked against the tool
vocabulary, code segments are graded, and file references are resolved
against the project inventory when --project or --manifest is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if validateStrict {
			cfg.Context.Strict = true
		}

		raw, source, err := readResponse(args)
		if err != nil {
			return err
		}

		pipeline, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		project, err := loadProjectContext(validateManifest, validateProject)
		if err != nil {
			return err
		}

		report := pipeline.Validate(context.Background(), raw, project)

		if !validateNoHistory {
			recordHistory(cfg, report)
		}

		if validateJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}
		printReport(source, report)

		if !report.OverallValid {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateProject, "project", "", "Project root to scan for the file inventory")
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "YAML inventory manifest (overrides --project)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Emit the full report as JSON")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail on unresolved file references")
	validateCmd.Flags().BoolVar(&validateNoHistory, "no-history", false, "Skip recording this run in history")
	rootCmd.AddCommand(validateCmd)
}

// readResponse reads the raw response from the named file or stdin.
func readResponse(args []string) (string, string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read response: %w", err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), "(stdin)", nil
}

// printReport renders a human-readable summary of one report.
func printReport(source string, report *models.ValidationReport) {
	fmt.Printf("%s: %s response, %d segment(s)\n", source, report.ResponseType, len(report.Segments))

	for _, e := range report.Errors {
		printStatus("✗", e, color.FgRed)
	}
	for _, warning := range report.Warnings {
		printStatus("⚠", warning, color.FgYellow)
	}

	for _, tr := range report.ToolRequests {
		name := "(unparsed)"
		if tr.Request != nil {
			name = tr.Request.ToolName
		}
		if tr.Valid {
			printStatus("✓", fmt.Sprintf("tool request %s (confidence %.2f)", name, tr.Confidence), color.FgGreen)
		} else {
			printStatus("✗", fmt.Sprintf("tool request %s (confidence %.2f)", name, tr.Confidence), color.FgRed)
		}
		for _, e := range tr.Errors {
			printStatus(" ", e, color.FgRed)
		}
		for _, warning := range tr.Warnings {
			printStatus(" ", warning, color.FgYellow)
		}
	}

	for _, ca := range report.CodeAssessments {
		fmt.Println()
		fmt.Print(quality.RenderReport(ca.Segment.Language, ca.Quality))
		for _, f := range ca.Findings {
			if f.Exists {
				continue
			}
			printStatus("⚠", fmt.Sprintf("unresolved reference %q", f.ReferencedPath), color.FgYellow)
			for _, s := range f.Suggestions {
				fmt.Printf("    did you mean %s (%.2f)?\n", s.Candidate, s.Similarity)
			}
		}
	}

	fmt.Println()
	if report.OverallValid {
		printStatus("✓", "response is valid", color.FgGreen)
	} else {
		printStatus("✗", "response is invalid", color.FgRed)
	}
}

// recordHistory persists the run outcome; history failures never block
// validation output.
func recordHistory(cfg *config.Config, report *models.ValidationReport) {
	store, err := openHistory(cfg.History.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.RecordRun(report); err != nil {
		fmt.Fprintf(os.Stderr, "warning: record run: %v\n", err)
	}
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

// openHistory opens the configured history store.
func openHistory(dbPath string) (*history.Store, error) {
	if dbPath == "" {
		dbPath = history.GlobalDBPath()
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
