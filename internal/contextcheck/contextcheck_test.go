package contextcheck

import (
	"testing"

	"github.com/olympus-coder/olympusval/internal/config"
)

func testValidator() *Validator {
	return New(config.Default())
}

func testProject() *ProjectContext {
	return NewProjectContext([]string{
		"main.py",
		"utils/helpers.py",
		"utils/parser.py",
		"config/settings.json",
		"src/app.js",
		"src/components/button.jsx",
	})
}

func TestProjectContextLookups(t *testing.T) {
	pc := testProject()

	if !pc.FileExists("utils/helpers.py") {
		t.Error("FileExists(utils/helpers.py) = false")
	}
	if pc.FileExists("utils/missing.py") {
		t.Error("FileExists(utils/missing.py) = true")
	}
	if !pc.DirExists("utils") || !pc.DirExists("src/components") {
		t.Error("derived directories missing")
	}
	if !pc.HasPythonModule("utils.helpers") {
		t.Error("HasPythonModule(utils.helpers) = false")
	}
	if !pc.HasPythonModule("utils") {
		t.Error("package prefix utils should resolve")
	}
	if pc.HasPythonModule("utils.gone") {
		t.Error("HasPythonModule(utils.gone) = true")
	}
	if !pc.HasJavaScriptModule("./src/app") {
		t.Error("extension-less JS specifier should resolve")
	}
	if !pc.HasJavaScriptModule("src/components/button.jsx") {
		t.Error("exact JS path should resolve")
	}
}

func TestCheckCodeResolvedReference(t *testing.T) {
	code := `with open("config/settings.json") as f:
    data = f.read()
`
	findings := testValidator().CheckCode(code, "python", testProject())
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	f := findings[0]
	if !f.Exists || !f.Accepted || len(f.Suggestions) != 0 {
		t.Errorf("resolved reference: Exists=%v Accepted=%v suggestions=%v", f.Exists, f.Accepted, f.Suggestions)
	}
	if f.Kind != "file" || f.Line != 1 {
		t.Errorf("Kind=%q Line=%d", f.Kind, f.Line)
	}
}

func TestCheckCodeMissingReferenceSuggests(t *testing.T) {
	code := `data = open("config/nonexistent.json").read()`
	findings := testValidator().CheckCode(code, "python", testProject())
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	f := findings[0]
	if f.Exists {
		t.Fatal("Exists = true for missing path")
	}
	if !f.Accepted {
		t.Error("default policy should warn, not fail")
	}
	if len(f.Suggestions) == 0 {
		t.Fatal("no suggestions for near-miss path")
	}
	if f.Suggestions[0].Candidate != "config/settings.json" {
		t.Errorf("top suggestion = %q, want config/settings.json", f.Suggestions[0].Candidate)
	}
	if f.Suggestions[0].Similarity <= 0 {
		t.Errorf("top similarity = %v, want > 0", f.Suggestions[0].Similarity)
	}
	for i := 1; i < len(f.Suggestions); i++ {
		if f.Suggestions[i].Similarity > f.Suggestions[i-1].Similarity {
			t.Errorf("suggestions not sorted descending at %d: %v", i, f.Suggestions)
		}
	}
}

func TestCheckCodeSuggestsDespiteDissimilarBaseName(t *testing.T) {
	// The base names share no bigrams at all, so only the full-path
	// score (shared config/ directory) can surface the candidate.
	project := NewProjectContext([]string{"config/db.json"})
	findings := testValidator().CheckCode(`open("config/app.yaml")`, "python", project)
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	f := findings[0]
	if f.Exists {
		t.Fatal("Exists = true for missing path")
	}
	if len(f.Suggestions) != 1 || f.Suggestions[0].Candidate != "config/db.json" {
		t.Fatalf("Suggestions = %v, want config/db.json", f.Suggestions)
	}
	if f.Suggestions[0].Similarity < 0.15 {
		t.Errorf("Similarity = %v, want >= the default floor", f.Suggestions[0].Similarity)
	}
}

func TestCheckCodeStrictPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Context.Strict = true
	v := New(cfg)

	findings := v.CheckCode(`open("gone.txt")`, "python", testProject())
	if len(findings) != 1 || findings[0].Accepted {
		t.Errorf("strict policy should reject unresolved reference: %+v", findings)
	}
	if Accepted(findings) {
		t.Error("Accepted = true under strict policy with unresolved reference")
	}
}

func TestCheckCodePythonImports(t *testing.T) {
	code := `import os
import utils.helpers
from utils import parser
import missing_module
`
	findings := testValidator().CheckCode(code, "python", testProject())

	byPath := map[string]bool{}
	for _, f := range findings {
		byPath[f.ReferencedPath] = f.Exists
	}
	if _, ok := byPath["os"]; ok {
		t.Error("stdlib import should be skipped")
	}
	if exists, ok := byPath["utils.helpers"]; !ok || !exists {
		t.Errorf("utils.helpers: exists=%v present=%v", exists, ok)
	}
	if exists, ok := byPath["utils"]; !ok || !exists {
		t.Errorf("from-import root utils: exists=%v present=%v", exists, ok)
	}
	if exists, ok := byPath["missing_module"]; !ok || exists {
		t.Errorf("missing_module: exists=%v present=%v", exists, ok)
	}
}

func TestCheckCodeJavaScriptImports(t *testing.T) {
	code := `import { App } from './src/app';
const btn = require('./src/components/button.jsx');
import react from 'react';
import './src/missing';
`
	findings := testValidator().CheckCode(code, "javascript", testProject())

	byPath := map[string]bool{}
	for _, f := range findings {
		byPath[f.ReferencedPath] = f.Exists
	}
	if _, ok := byPath["react"]; ok {
		t.Error("bare package specifier should be treated as external")
	}
	if exists := byPath["./src/app"]; !exists {
		t.Error("./src/app should resolve via extension probing")
	}
	if exists := byPath["./src/components/button.jsx"]; !exists {
		t.Error("exact jsx path should resolve")
	}
	if exists, ok := byPath["./src/missing"]; !ok || exists {
		t.Errorf("./src/missing: exists=%v present=%v", exists, ok)
	}
}

func TestCheckCodeUnsupportedLanguageAndEmptyProject(t *testing.T) {
	v := testValidator()
	if got := v.CheckCode(`open("a.txt")`, "rust", testProject()); got != nil {
		t.Errorf("unsupported language findings = %v, want nil", got)
	}
	if got := v.CheckCode(`open("a.txt")`, "python", nil); got != nil {
		t.Errorf("nil project findings = %v, want nil", got)
	}
	if got := v.CheckCode(`open("a.txt")`, "python", NewProjectContext(nil)); got != nil {
		t.Errorf("empty project findings = %v, want nil", got)
	}
}

func TestCheckCodeDeduplicatesReferences(t *testing.T) {
	code := `a = open("gone.txt")
b = open("gone.txt")
`
	findings := testValidator().CheckCode(code, "python", testProject())
	if len(findings) != 1 {
		t.Errorf("findings = %d, want 1 after dedup", len(findings))
	}
}

func TestCheckNamingConsistent(t *testing.T) {
	code := `def parse_input(raw):
    return raw
`
	existing := map[string][]string{
		"functions": {"load_config", "run_checks", "format_output"},
	}
	report := CheckNaming(code, "python", existing)
	if !report.Consistent || len(report.Issues) != 0 {
		t.Errorf("Consistent=%v Issues=%v", report.Consistent, report.Issues)
	}
}

func TestCheckNamingInconsistentSuggestsRename(t *testing.T) {
	code := `def parseInput(raw):
    return raw
`
	existing := map[string][]string{
		"functions": {"load_config", "run_checks", "format_output"},
	}
	report := CheckNaming(code, "python", existing)
	if report.Consistent {
		t.Fatal("Consistent = true for camelCase among snake_case")
	}
	if len(report.Issues) != 1 {
		t.Fatalf("Issues = %v, want 1", report.Issues)
	}
	if report.Issues[0].Suggestion != "parse_input" {
		t.Errorf("Suggestion = %q, want parse_input", report.Issues[0].Suggestion)
	}
}

func TestCheckNamingNoEstablishedPatterns(t *testing.T) {
	report := CheckNaming("def anyName(): pass", "python", nil)
	if !report.Consistent {
		t.Error("no established patterns should be trivially consistent")
	}
}

func TestConvertToStyle(t *testing.T) {
	tests := []struct {
		name  string
		style NamingStyle
		want  string
	}{
		{"parseInput", StyleSnakeCase, "parse_input"},
		{"parse_input", StyleCamelCase, "parseInput"},
		{"parse_input", StylePascalCase, "ParseInput"},
		{"parseInput", StyleUpperCase, "PARSE_INPUT"},
		{"HTTPServer", StyleSnakeCase, "http_server"},
	}
	for _, tt := range tests {
		if got := convertToStyle(tt.name, tt.style); got != tt.want {
			t.Errorf("convertToStyle(%q, %s) = %q, want %q", tt.name, tt.style, got, tt.want)
		}
	}
}
