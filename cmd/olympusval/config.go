package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olympus-coder/olympusval/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify olympusval configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/olympusval/config.yaml
Project-specific overrides can be placed in .olympusval.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("quality.syntax_weight: %g\n", cfg.Quality.SyntaxWeight)
	fmt.Printf("quality.style_weight: %g\n", cfg.Quality.StyleWeight)
	fmt.Printf("quality.docs_weight: %g\n", cfg.Quality.DocsWeight)
	fmt.Printf("quality.grade_a: %g\n", cfg.Quality.GradeA)
	fmt.Printf("quality.grade_b: %g\n", cfg.Quality.GradeB)
	fmt.Printf("quality.grade_c: %g\n", cfg.Quality.GradeC)
	fmt.Printf("quality.grade_d: %g\n", cfg.Quality.GradeD)
	fmt.Printf("style.python_line_length: %d\n", cfg.Style.PythonLineLength)
	fmt.Printf("style.javascript_line_length: %d\n", cfg.Style.JavaScriptLineLength)
	fmt.Printf("checkers.timeout: %s\n", cfg.Checkers.Timeout)
	fmt.Printf("checkers.python_interpreter: %s\n", cfg.Checkers.PythonInterpreter)
	fmt.Printf("checkers.node_binary: %s\n", displayString(cfg.Checkers.NodeBinary))
	fmt.Printf("context.strict: %t\n", cfg.Context.Strict)
	fmt.Printf("context.max_suggestions: %d\n", cfg.Context.MaxSuggestions)
	fmt.Printf("context.min_similarity: %g\n", cfg.Context.MinSimilarity)
	fmt.Printf("tools.vocabulary_path: %s\n", displayString(cfg.Tools.VocabularyPath))
	fmt.Printf("history.db_path: %s\n", displayString(cfg.History.DBPath))
	fmt.Printf("history.accuracy_target: %g\n", cfg.History.AccuracyTarget)
	fmt.Printf("log_path: %s\n", displayString(cfg.LogPath))
}

func displayString(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "quality.syntax_weight":
		return strconv.FormatFloat(cfg.Quality.SyntaxWeight, 'g', -1, 64), nil
	case "quality.style_weight":
		return strconv.FormatFloat(cfg.Quality.StyleWeight, 'g', -1, 64), nil
	case "quality.docs_weight":
		return strconv.FormatFloat(cfg.Quality.DocsWeight, 'g', -1, 64), nil
	case "quality.grade_a":
		return strconv.FormatFloat(cfg.Quality.GradeA, 'g', -1, 64), nil
	case "quality.grade_b":
		return strconv.FormatFloat(cfg.Quality.GradeB, 'g', -1, 64), nil
	case "quality.grade_c":
		return strconv.FormatFloat(cfg.Quality.GradeC, 'g', -1, 64), nil
	case "quality.grade_d":
		return strconv.FormatFloat(cfg.Quality.GradeD, 'g', -1, 64), nil
	case "style.python_line_length":
		return strconv.Itoa(cfg.Style.PythonLineLength), nil
	case "style.javascript_line_length":
		return strconv.Itoa(cfg.Style.JavaScriptLineLength), nil
	case "checkers.timeout":
		return cfg.Checkers.Timeout.String(), nil
	case "checkers.python_interpreter":
		return cfg.Checkers.PythonInterpreter, nil
	case "checkers.node_binary":
		return displayString(cfg.Checkers.NodeBinary), nil
	case "context.strict":
		return strconv.FormatBool(cfg.Context.Strict), nil
	case "context.max_suggestions":
		return strconv.Itoa(cfg.Context.MaxSuggestions), nil
	case "context.min_similarity":
		return strconv.FormatFloat(cfg.Context.MinSimilarity, 'g', -1, 64), nil
	case "tools.vocabulary_path":
		return displayString(cfg.Tools.VocabularyPath), nil
	case "history.db_path":
		return displayString(cfg.History.DBPath), nil
	case "history.accuracy_target":
		return strconv.FormatFloat(cfg.History.AccuracyTarget, 'g', -1, 64), nil
	case "log_path":
		return displayString(cfg.LogPath), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	parseFloat := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q for %s", value, key)
		}
		return f, nil
	}
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q for %s", value, key)
		}
		return n, nil
	}

	switch strings.ToLower(key) {
	case "quality.syntax_weight":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.SyntaxWeight = f
	case "quality.style_weight":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.StyleWeight = f
	case "quality.docs_weight":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.DocsWeight = f
	case "quality.grade_a":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.GradeA = f
	case "quality.grade_b":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.GradeB = f
	case "quality.grade_c":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.GradeC = f
	case "quality.grade_d":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Quality.GradeD = f
	case "style.python_line_length":
		n, err := parseInt()
		if err != nil {
			return err
		}
		cfg.Style.PythonLineLength = n
	case "style.javascript_line_length":
		n, err := parseInt()
		if err != nil {
			return err
		}
		cfg.Style.JavaScriptLineLength = n
	case "checkers.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q for %s", value, key)
		}
		cfg.Checkers.Timeout = d
	case "checkers.python_interpreter":
		cfg.Checkers.PythonInterpreter = value
	case "checkers.node_binary":
		cfg.Checkers.NodeBinary = value
	case "context.strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for %s", value, key)
		}
		cfg.Context.Strict = b
	case "context.max_suggestions":
		n, err := parseInt()
		if err != nil {
			return err
		}
		cfg.Context.MaxSuggestions = n
	case "context.min_similarity":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Context.MinSimilarity = f
	case "tools.vocabulary_path":
		cfg.Tools.VocabularyPath = value
	case "history.db_path":
		cfg.History.DBPath = value
	case "history.accuracy_target":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.History.AccuracyTarget = f
	case "log_path":
		cfg.LogPath = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
