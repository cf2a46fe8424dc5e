// Package config handles configuration loading and management for
// olympusval. It supports XDG config paths, project-level overrides, and
// environment variables. There is no package-level default state: every
// component receives its Config at construction time.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the validation pipeline.
type Config struct {
	Quality       QualityConfig       `mapstructure:"quality"`
	Documentation DocumentationConfig `mapstructure:"documentation"`
	Style         StyleConfig         `mapstructure:"style"`
	Checkers      CheckersConfig      `mapstructure:"checkers"`
	Context       ContextConfig       `mapstructure:"context"`
	Tools         ToolsConfig         `mapstructure:"tools"`
	History       HistoryConfig       `mapstructure:"history"`
	LogPath       string              `mapstructure:"log_path"`
}

// QualityConfig holds quality-score weights and grade thresholds.
// The weights form a convex combination; the thresholds are inclusive
// lower bounds applied from GradeA downward.
type QualityConfig struct {
	SyntaxWeight float64 `mapstructure:"syntax_weight"`
	StyleWeight  float64 `mapstructure:"style_weight"`
	DocsWeight   float64 `mapstructure:"docs_weight"`
	GradeA       float64 `mapstructure:"grade_a"`
	GradeB       float64 `mapstructure:"grade_b"`
	GradeC       float64 `mapstructure:"grade_c"`
	GradeD       float64 `mapstructure:"grade_d"`
}

// DocumentationConfig holds documentation-coverage weights.
type DocumentationConfig struct {
	ModuleWeight   float64 `mapstructure:"module_weight"`
	FunctionWeight float64 `mapstructure:"function_weight"`
	ClassWeight    float64 `mapstructure:"class_weight"`
}

// StyleConfig holds per-language style profile settings.
type StyleConfig struct {
	// PythonLineLength is the maximum line length for the Python profile.
	PythonLineLength int `mapstructure:"python_line_length"`
	// JavaScriptLineLength is the maximum line length for the JS profile.
	JavaScriptLineLength int `mapstructure:"javascript_line_length"`
}

// CheckersConfig holds external syntax-checker settings.
type CheckersConfig struct {
	// Timeout bounds each external syntax-check invocation.
	Timeout time.Duration `mapstructure:"timeout"`
	// PythonInterpreter is the interpreter used for Python compile checks.
	PythonInterpreter string `mapstructure:"python_interpreter"`
	// NodeBinary is the binary used for `node --check` passes. Empty
	// disables the external JavaScript pass.
	NodeBinary string `mapstructure:"node_binary"`
}

// ContextConfig holds context-validation policy.
type ContextConfig struct {
	// Strict fails the overall report on unresolved references instead of
	// warning.
	Strict bool `mapstructure:"strict"`
	// MaxSuggestions caps fuzzy suggestions per unresolved reference.
	MaxSuggestions int `mapstructure:"max_suggestions"`
	// MinSimilarity is the floor below which candidates are dropped.
	MinSimilarity float64 `mapstructure:"min_similarity"`
}

// ToolsConfig holds tool-vocabulary settings.
type ToolsConfig struct {
	// VocabularyPath points at a YAML tool-vocabulary file. Empty uses
	// the built-in vocabulary.
	VocabularyPath string `mapstructure:"vocabulary_path"`
}

// HistoryConfig holds run-history settings.
type HistoryConfig struct {
	// DBPath overrides the history database location.
	DBPath string `mapstructure:"db_path"`
	// AccuracyTarget is the pass-rate threshold checked by
	// `olympusval history --check`.
	AccuracyTarget float64 `mapstructure:"accuracy_target"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (OLYMPUSVAL_*)
// 2. Project config (.olympusval.yaml in current directory or parent)
// 3. User config (~/.config/olympusval/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("OLYMPUSVAL")
	v.BindEnv("context.strict", "OLYMPUSVAL_CONTEXT_STRICT")
	v.BindEnv("checkers.python_interpreter", "OLYMPUSVAL_PYTHON")
	v.BindEnv("checkers.node_binary", "OLYMPUSVAL_NODE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Tools.VocabularyPath = os.ExpandEnv(cfg.Tools.VocabularyPath)
	cfg.History.DBPath = os.ExpandEnv(cfg.History.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("quality.syntax_weight", cfg.Quality.SyntaxWeight)
	v.Set("quality.style_weight", cfg.Quality.StyleWeight)
	v.Set("quality.docs_weight", cfg.Quality.DocsWeight)
	v.Set("quality.grade_a", cfg.Quality.GradeA)
	v.Set("quality.grade_b", cfg.Quality.GradeB)
	v.Set("quality.grade_c", cfg.Quality.GradeC)
	v.Set("quality.grade_d", cfg.Quality.GradeD)
	v.Set("documentation.module_weight", cfg.Documentation.ModuleWeight)
	v.Set("documentation.function_weight", cfg.Documentation.FunctionWeight)
	v.Set("documentation.class_weight", cfg.Documentation.ClassWeight)
	v.Set("style.python_line_length", cfg.Style.PythonLineLength)
	v.Set("style.javascript_line_length", cfg.Style.JavaScriptLineLength)
	v.Set("checkers.timeout", cfg.Checkers.Timeout.String())
	v.Set("checkers.python_interpreter", cfg.Checkers.PythonInterpreter)
	v.Set("checkers.node_binary", cfg.Checkers.NodeBinary)
	v.Set("context.strict", cfg.Context.Strict)
	v.Set("context.max_suggestions", cfg.Context.MaxSuggestions)
	v.Set("context.min_similarity", cfg.Context.MinSimilarity)
	v.Set("tools.vocabulary_path", cfg.Tools.VocabularyPath)
	v.Set("history.db_path", cfg.History.DBPath)
	v.Set("history.accuracy_target", cfg.History.AccuracyTarget)
	v.Set("log_path", cfg.LogPath)

	return v.WriteConfig()
}

// Validate checks invariants that the rest of the pipeline relies on.
func (c *Config) Validate() error {
	sum := c.Quality.SyntaxWeight + c.Quality.StyleWeight + c.Quality.DocsWeight
	if sum <= 0 {
		return fmt.Errorf("quality weights must sum to a positive value, got %.2f", sum)
	}
	if c.Quality.GradeA < c.Quality.GradeB || c.Quality.GradeB < c.Quality.GradeC ||
		c.Quality.GradeC < c.Quality.GradeD {
		return fmt.Errorf("grade thresholds must be non-increasing A >= B >= C >= D")
	}
	if c.Context.MaxSuggestions < 0 {
		return fmt.Errorf("context.max_suggestions must be >= 0")
	}
	if c.Checkers.Timeout <= 0 {
		return fmt.Errorf("checkers.timeout must be positive")
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Quality weights: syntax dominates so unparseable code cannot earn a
	// passing grade even with perfect style and docs.
	v.SetDefault("quality.syntax_weight", 0.4)
	v.SetDefault("quality.style_weight", 0.3)
	v.SetDefault("quality.docs_weight", 0.3)
	v.SetDefault("quality.grade_a", 0.9)
	v.SetDefault("quality.grade_b", 0.8)
	v.SetDefault("quality.grade_c", 0.7)
	v.SetDefault("quality.grade_d", 0.5)

	// Documentation coverage weights
	v.SetDefault("documentation.module_weight", 0.4)
	v.SetDefault("documentation.function_weight", 0.3)
	v.SetDefault("documentation.class_weight", 0.3)

	// Style profiles
	v.SetDefault("style.python_line_length", 79)
	v.SetDefault("style.javascript_line_length", 100)

	// External checker defaults
	v.SetDefault("checkers.timeout", "10s")
	v.SetDefault("checkers.python_interpreter", "python3")
	v.SetDefault("checkers.node_binary", "")

	// Context validation policy
	v.SetDefault("context.strict", false)
	v.SetDefault("context.max_suggestions", 3)
	v.SetDefault("context.min_similarity", 0.15)

	// Tool vocabulary
	v.SetDefault("tools.vocabulary_path", "")

	// History defaults
	v.SetDefault("history.db_path", "")
	v.SetDefault("history.accuracy_target", 0.85)

	v.SetDefault("log_path", "")
}

// getUserConfigDir returns the XDG config directory for olympusval.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "olympusval")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "olympusval")
	}
	return filepath.Join(home, ".config", "olympusval")
}

// findProjectConfig searches for .olympusval.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".olympusval.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Quality: QualityConfig{
			SyntaxWeight: 0.4,
			StyleWeight:  0.3,
			DocsWeight:   0.3,
			GradeA:       0.9,
			GradeB:       0.8,
			GradeC:       0.7,
			GradeD:       0.5,
		},
		Documentation: DocumentationConfig{
			ModuleWeight:   0.4,
			FunctionWeight: 0.3,
			ClassWeight:    0.3,
		},
		Style: StyleConfig{
			PythonLineLength:     79,
			JavaScriptLineLength: 100,
		},
		Checkers: CheckersConfig{
			Timeout:           10 * time.Second,
			PythonInterpreter: "python3",
		},
		Context: ContextConfig{
			Strict:         false,
			MaxSuggestions: 3,
			MinSimilarity:  0.15,
		},
		History: HistoryConfig{
			AccuracyTarget: 0.85,
		},
	}
}
