package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	batchProject   string
	batchManifest  string
	batchJSON      bool
	batchNoHistory bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>...",
	Short: "Validate a batch of responses and report accuracy",
	Long: `Validate every response file in the given files and directories
(directories contribute their .txt, .md, and .json files) and report the
fraction that validated cleanly.

The exit status is non-zero when accuracy falls below the configured
history.accuracy_target.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		files, err := collectResponseFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no response files found in %s", strings.Join(args, ", "))
		}

		pipeline, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		project, err := loadProjectContext(batchManifest, batchProject)
		if err != nil {
			return err
		}

		responses := make([]string, 0, len(files))
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("read response %s: %w", f, err)
			}
			responses = append(responses, string(data))
		}

		result := pipeline.ValidateBatch(context.Background(), responses, project)

		if !batchNoHistory {
			for _, report := range result.Reports {
				recordHistory(cfg, report)
			}
		}

		if batchJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		for i, report := range result.Reports {
			if report.OverallValid {
				printStatus("✓", fmt.Sprintf("%s (%s)", files[i], report.ResponseType), color.FgGreen)
			} else {
				printStatus("✗", fmt.Sprintf("%s (%s)", files[i], report.ResponseType), color.FgRed)
			}
		}

		fmt.Printf("\naccuracy: %.1f%% (%d/%d valid, target %.1f%%)\n",
			result.Accuracy*100, result.ValidCount, len(files), cfg.History.AccuracyTarget*100)

		if result.Accuracy < cfg.History.AccuracyTarget {
			printStatus("✗", "accuracy below target", color.FgRed)
			os.Exit(1)
		}
		printStatus("✓", "accuracy meets target", color.FgGreen)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchProject, "project", "", "Project root to scan for the file inventory")
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "YAML inventory manifest (overrides --project)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Emit the batch result as JSON")
	batchCmd.Flags().BoolVar(&batchNoHistory, "no-history", false, "Skip recording runs in history")
	rootCmd.AddCommand(batchCmd)
}

// responseExtensions are the file types read as raw responses.
var responseExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
}

// collectResponseFiles expands files and directories into a sorted,
// deduplicated list of response files.
func collectResponseFiles(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if responseExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				add(filepath.Join(arg, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
