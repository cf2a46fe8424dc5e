package codecheck

import (
	"context"
	"strings"
	"testing"
)

func TestJavaScriptCheckSyntax_Balanced(t *testing.T) {
	code := `function greet(name) {
  const msg = 'hello ' + name;
  return msg;
}
`
	report := NewJavaScriptChecker(testConfig()).CheckSyntax(context.Background(), code)
	if !report.Valid {
		t.Fatalf("Valid = false, errors: %v", report.Errors)
	}
	if !report.Checked {
		t.Error("Checked = false, want true (delimiter scan ran)")
	}
	if !report.HasFunctions {
		t.Error("HasFunctions = false, want true")
	}
}

func TestJavaScriptCheckSyntax_Unbalanced(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "unclosed brace", code: "function f() {\n  return 1;\n"},
		{name: "extra close", code: "const x = 1;\n}\n"},
		{name: "mismatched pair", code: "const a = [1, 2);\n"},
	}

	checker := NewJavaScriptChecker(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.CheckSyntax(context.Background(), tt.code)
			if report.Valid {
				t.Error("Valid = true, want false")
			}
			if len(report.Errors) == 0 {
				t.Error("expected delimiter errors")
			}
		})
	}
}

func TestJavaScriptCheckSyntax_BracesInStringsIgnored(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "single quotes", code: "const s = '}{';\n"},
		{name: "double quotes", code: "const s = \"}}}\";\n"},
		{name: "template literal", code: "const s = `{ not real ${x} }`;\nconst y = 1;\n"},
		{name: "line comment", code: "// } stray brace in comment\nconst x = 1;\n"},
		{name: "block comment", code: "/* { { { */\nconst x = 1;\n"},
	}

	checker := NewJavaScriptChecker(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.CheckSyntax(context.Background(), tt.code)
			if !report.Valid {
				t.Errorf("Valid = false, errors: %v", report.Errors)
			}
		})
	}
}

func TestJavaScriptCheckSyntax_StructuralFlags(t *testing.T) {
	code := `import { readFile } from 'fs';

class Loader {
  async load(path) {
    try {
      return await readFile(path);
    } catch (err) {
      return null;
    }
  }
}

const parse = (raw) => JSON.parse(raw);
`
	report := NewJavaScriptChecker(testConfig()).CheckSyntax(context.Background(), code)

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
		t.Error("HasModernSyntax = false, want true (arrow, async/await)")
	}
}

func TestJavaScriptCheckStyle(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantDesc string
	}{
		{
			name:     "missing semicolon",
			code:     "const x = compute()\n",
			wantDesc: "Missing semicolon",
		},
		{
			name:     "snake_case variable",
			code:     "const my_value = 1;\n",
			wantDesc: "camelCase",
		},
		{
			name:     "long line",
			code:     "const x = '" + strings.Repeat("a", 120) + "';\n",
			wantDesc: "Line too long",
		},
		{
			name:     "quote preference",
			code:     "const a = \"x\";\nconst b = \"y\";\nconst c = 'z';\n",
			wantDesc: "prefer single quotes",
		},
		{
			name:     "inconsistent indentation",
			code:     "function f() {\n  const a = 1;\n   const b = 2;\n}\n",
			wantDesc: "Inconsistent indentation",
		},
	}

	checker := NewJavaScriptChecker(testConfig())
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

func TestJavaScriptCheckStyle_ScreamingConstantsAccepted(t *testing.T) {
	report := NewJavaScriptChecker(testConfig()).CheckStyle("const MAX_RETRIES = 3;\n")
	for _, v := range report.Violations {
		if strings.Contains(v.Description, "camelCase") {
			t.Errorf("SCREAMING_CASE constant should be accepted: %v", v)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(testConfig())

	tests := []struct {
		tag  string
		want string
	}{
		{tag: "python", want: "python"},
		{tag: "py", want: "python"},
		{tag: "Python", want: "python"},
		{tag: "javascript", want: "javascript"},
		{tag: "js", want: "javascript"},
		{tag: "TS", want: "javascript"},
	}
	for _, tt := range tests {
		c, ok := r.Lookup(tt.tag)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.tag)
			continue
		}
		if c.Language() != tt.want {
			t.Errorf("Lookup(%q).Language() = %q, want %q", tt.tag, c.Language(), tt.want)
		}
	}

	if _, ok := r.Lookup("cobol"); ok {
		t.Error("Lookup(cobol) found a checker, want none")
	}
}

func TestRegistry_UnknownLanguageAssumesValid(t *testing.T) {
	r := NewRegistry(testConfig())
	syntax, style := r.Check(context.Background(), "PROGRAM-ID. HELLO.", "cobol")

	if !syntax.Valid {
		t.Error("unknown language should assume valid")
	}
	if syntax.Checked {
		t.Error("unknown language must be flagged unchecked")
	}
	if len(syntax.Warnings) == 0 {
		t.Error("expected a warning about the missing checker")
	}
	if style.Score != 1.0 {
		t.Errorf("style score = %v, want neutral 1.0", style.Score)
	}
}
