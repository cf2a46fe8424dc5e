package codecheck

import (
	"context"
	"strings"
	"testing"

	"github.com/olympus-coder/olympusval/internal/config"
)

// testConfig returns a config whose external checkers are guaranteed
// unreachable, so tests exercise the deterministic paths.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Checkers.PythonInterpreter = "olympusval-test-no-such-interpreter"
	cfg.Checkers.NodeBinary = ""
	return cfg
}

func TestPythonCheckSyntax_FlatBlockIsInvalid(t *testing.T) {
	code := "def badFunction(paramOne,paramTwo):\nresult=paramOne+paramTwo\nreturn result"
	report := NewPythonChecker(testConfig()).CheckSyntax(context.Background(), code)

	if report.Valid {
		t.Fatal("Valid = true, want false for un-indented function body")
	}
	if !report.Checked {
		t.Error("Checked = false, want true (pre-scan settled the verdict)")
	}
	if len(report.Errors) == 0 {
		t.Fatal("expected syntax errors")
	}
	if !strings.Contains(report.Errors[0], "Syntax error at line") {
		t.Errorf("error = %q, want line-numbered syntax error", report.Errors[0])
	}
}

func TestPythonCheckSyntax_TripleQuotedStringsNotFlagged(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{
			name: "return inside module-level string",
			code: "MESSAGE = \"\"\"\nreturn to sender\n\"\"\"\n",
		},
		{
			name: "block-header lookalike inside string",
			code: "DOC = '''\nfor example:\n'''\n",
		},
		{
			name: "docstring continuation at column zero",
			code: "def greet():\n    \"\"\"Say hello.\nreturn value is None.\n    \"\"\"\n    print(\"hi\")\n",
		},
	}

	checker := NewPythonChecker(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.CheckSyntax(context.Background(), tt.code)
			if len(report.Errors) != 0 {
				t.Fatalf("errors = %v, want none for string-literal content", report.Errors)
			}
			if !report.Valid {
				t.Error("Valid = false, want true")
			}
			if report.Checked {
				t.Error("Checked = true, want false (no interpreter reachable, no pre-scan hit)")
			}
		})
	}
}

func TestPythonCheckSyntax_CheckerUnavailableDegrades(t *testing.T) {
	code := "def fine():\n    return 1\n"
	report := NewPythonChecker(testConfig()).CheckSyntax(context.Background(), code)

	if !report.Valid {
		t.Errorf("Valid = false, want assume-valid fallback; errors: %v", report.Errors)
	}
	if report.Checked {
		t.Error("Checked = true, want false when no checker is reachable")
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a warning explaining the skipped check")
	}
}

func TestPythonCheckSyntax_StructuralFlags(t *testing.T) {
	code := `import os

class Loader:
    def load(self):
        try:
            return os.getcwd()
        except OSError:
            return f"failed"
`
	report := NewPythonChecker(testConfig()).CheckSyntax(context.Background(), code)

	if !report.HasFunctions {
		t.Error("HasFunctions = false, want true")
	}
	if !report.HasClasses {
		t.Error("HasClasses = false, want true")
	}
	if !report.HasImports {
		t.Error("HasImports = false, want true")
	}
	if !report.HasErrorHandling {
		t.Error("HasErrorHandling = false, want true")
	}
	if !report.HasModernSyntax {
		t.Error("HasModernSyntax = false, want true (f-string)")
	}
}

func TestPythonCheckStyle(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantDesc string
	}{
		{
			name:     "long line",
			code:     "x = '" + strings.Repeat("a", 100) + "'",
			wantDesc: "Line too long",
		},
		{
			name:     "bad indentation",
			code:     "def f():\n   return 1",
			wantDesc: "multiple of 4",
		},
		{
			name:     "camelCase function",
			code:     "def badFunction():\n    pass",
			wantDesc: "snake_case",
		},
		{
			name:     "lowercase class",
			code:     "class loader:\n    pass",
			wantDesc: "PascalCase",
		},
		{
			name:     "missing assignment spaces",
			code:     "x=1",
			wantDesc: "spaces around assignment",
		},
		{
			name:     "trailing whitespace",
			code:     "x = 1  ",
			wantDesc: "Trailing whitespace",
		},
		{
			name:     "late import",
			code:     "x = 1\nimport os",
			wantDesc: "top of file",
		},
	}

	checker := NewPythonChecker(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.CheckStyle(tt.code)
			found := false
			for _, v := range report.Violations {
				if strings.Contains(v.Description, tt.wantDesc) {
					found = true
				}
			}
			if !found {
				t.Errorf("violations = %v, want one containing %q", report.Violations, tt.wantDesc)
			}
		})
	}
}

func TestPythonCheckStyle_CleanCode(t *testing.T) {
	code := `import os


def current_dir():
    return os.getcwd()
`
	report := NewPythonChecker(testConfig()).CheckStyle(code)
	if len(report.Violations) != 0 {
		t.Errorf("violations = %v, want none", report.Violations)
	}
	if report.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", report.Score)
	}
}

func TestPythonCheckStyle_KeywordArgsNotFlagged(t *testing.T) {
	report := NewPythonChecker(testConfig()).CheckStyle("f(x=1, y=2)")
	for _, v := range report.Violations {
		if strings.Contains(v.Description, "assignment") {
			t.Errorf("keyword arguments should not trip assignment spacing: %v", v)
		}
	}
}

func TestPythonCheckStyle_ComparisonNotFlagged(t *testing.T) {
	report := NewPythonChecker(testConfig()).CheckStyle("flag = a==b")
	for _, v := range report.Violations {
		if strings.Contains(v.Description, "assignment") {
			t.Errorf("comparison should not trip assignment spacing: %v", v)
		}
	}
}

func TestPythonCheckStyle_StringContentNotFlagged(t *testing.T) {
	code := "HELP = \"\"\"\nusage:   \n   odd indent, x=1\n\"\"\"\n"
	report := NewPythonChecker(testConfig()).CheckStyle(code)
	for _, v := range report.Violations {
		if strings.Contains(v.Description, "whitespace") ||
			strings.Contains(v.Description, "multiple of 4") ||
			strings.Contains(v.Description, "assignment") {
			t.Errorf("string-literal content should not trip layout rules: %v", v)
		}
	}
}

func TestPythonCheckStyle_ScoreClamped(t *testing.T) {
	// Every line violates multiple rules; the score must stay in [0,1].
	code := strings.Repeat("x=1  \n", 3)
	report := NewPythonChecker(testConfig()).CheckStyle(code)
	if report.Score < 0 || report.Score > 1 {
		t.Errorf("Score = %v, out of [0,1]", report.Score)
	}
}
