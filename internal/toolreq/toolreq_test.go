package toolreq

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_WellFormed(t *testing.T) {
	result := New(nil).Validate(`{"tool_name": "read_file", "parameters": {"file_path": "test.py"}}`)

	if !result.Valid {
		t.Fatalf("Valid = false, errors: %v", result.Errors)
	}
	if result.Confidence <= 0.8 {
		t.Errorf("Confidence = %v, want > 0.8", result.Confidence)
	}
	if result.Request.ToolName != "read_file" {
		t.Errorf("ToolName = %q, want read_file", result.Request.ToolName)
	}
	if result.Request.Parameters["file_path"] != "test.py" {
		t.Errorf("Parameters = %v, want file_path=test.py", result.Request.Parameters)
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
	}{
		{name: "truncated", candidate: `{"tool_name": "read_file", "parameters": {`},
		{name: "not json", candidate: `read the file please`},
		{name: "array", candidate: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(nil).Validate(tt.candidate)
			if result.Valid {
				t.Fatal("Valid = true, want false")
			}
			if len(result.Errors) == 0 {
				t.Fatal("expected errors")
			}
		})
	}
}

func TestValidate_TruncatedMentionsInvalidJSON(t *testing.T) {
	result := New(nil).Validate(`{"tool_name": "read_file", "parameters": {`)
	if !strings.Contains(result.Errors[0], "Invalid JSON") {
		t.Errorf("error = %q, want it to contain %q", result.Errors[0], "Invalid JSON")
	}
}

func TestValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		wantErr   string
	}{
		{
			name:      "missing parameters",
			candidate: `{"tool_name": "read_file"}`,
			wantErr:   "parameters",
		},
		{
			name:      "missing tool_name",
			candidate: `{"parameters": {}}`,
			wantErr:   "tool_name",
		},
		{
			name:      "empty tool_name",
			candidate: `{"tool_name": "", "parameters": {}}`,
			wantErr:   "non-empty",
		},
		{
			name:      "parameters not an object",
			candidate: `{"tool_name": "read_file", "parameters": [1, 2]}`,
			wantErr:   "object",
		},
		{
			name:      "tool_name not a string",
			candidate: `{"tool_name": 42, "parameters": {}}`,
			wantErr:   "string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(nil).Validate(tt.candidate)
			if result.Valid {
				t.Fatal("Valid = true, want false")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("Errors = %v, want one containing %q", result.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidate_ConfidenceOrdering(t *testing.T) {
	v := New(nil)
	full := v.Validate(`{"tool_name": "read_file", "parameters": {"file_path": "a.py"}}`)
	empty := v.Validate(`{"tool_name": "read_file", "parameters": {}}`)
	unknown := v.Validate(`{"tool_name": "teleport", "parameters": {"dest": "moon"}}`)

	if full.Confidence <= empty.Confidence {
		t.Errorf("non-empty parameters should outscore empty: %v <= %v",
			full.Confidence, empty.Confidence)
	}
	if full.Confidence <= unknown.Confidence {
		t.Errorf("known tool should outscore unknown: %v <= %v",
			full.Confidence, unknown.Confidence)
	}
	if !unknown.Valid {
		t.Error("unknown tool should still be valid, just lower confidence")
	}
	if len(unknown.Warnings) == 0 {
		t.Error("unknown tool should carry a warning")
	}
}

func TestValidate_SurroundingTextPenalized(t *testing.T) {
	v := New(nil)
	clean := v.Validate(`{"tool_name": "read_file", "parameters": {"file_path": "a.py"}}`)

	tests := []struct {
		name      string
		candidate string
	}{
		{
			name:      "leading prose",
			candidate: `Sure, here you go: {"tool_name": "read_file", "parameters": {"file_path": "a.py"}}`,
		},
		{
			name:      "trailing prose",
			candidate: `{"tool_name": "read_file", "parameters": {"file_path": "a.py"}} hope that helps`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.candidate)
			if !result.Valid {
				t.Fatalf("Valid = false, errors: %v", result.Errors)
			}
			if result.Confidence >= clean.Confidence {
				t.Errorf("Confidence = %v, want below clean request's %v",
					result.Confidence, clean.Confidence)
			}
			found := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "surrounding text") {
					found = true
				}
			}
			if !found {
				t.Errorf("Warnings = %v, want one mentioning surrounding text", result.Warnings)
			}
		})
	}
}

func TestValidate_MissingRequiredParamWarns(t *testing.T) {
	result := New(nil).Validate(`{"tool_name": "write_file", "parameters": {"file_path": "a.py"}}`)
	if !result.Valid {
		t.Fatalf("Valid = false, errors: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "content") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want mention of missing %q", result.Warnings, "content")
	}
}

func TestExtractAll(t *testing.T) {
	raw := `First: {"tool_name": "read_file", "parameters": {"file_path": "a.py"}}
then {"tool_name": "run_command", "parameters": {"command": "ls"}} done`

	results := New(nil).ExtractAll(raw)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Request.ToolName != "read_file" || results[1].Request.ToolName != "run_command" {
		t.Errorf("tool order = %q, %q; want read_file, run_command",
			results[0].Request.ToolName, results[1].Request.ToolName)
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	content := `tools:
  - name: deploy
    required_params: [environment]
    description: Deploy the service
  - name: rollback
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write vocabulary: %v", err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary() error = %v", err)
	}

	spec, ok := vocab.Lookup("deploy")
	if !ok {
		t.Fatal("deploy not found in vocabulary")
	}
	if len(spec.RequiredParams) != 1 || spec.RequiredParams[0] != "environment" {
		t.Errorf("RequiredParams = %v, want [environment]", spec.RequiredParams)
	}

	result := New(vocab).Validate(`{"tool_name": "deploy", "parameters": {"environment": "prod"}}`)
	if !result.Valid || result.Confidence <= 0.8 {
		t.Errorf("custom vocabulary request: valid=%v confidence=%v", result.Valid, result.Confidence)
	}
}

func TestLoadVocabulary_EmptyName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	if err := os.WriteFile(path, []byte("tools:\n  - description: nameless\n"), 0644); err != nil {
		t.Fatalf("write vocabulary: %v", err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Error("expected error for tool with empty name")
	}
}
