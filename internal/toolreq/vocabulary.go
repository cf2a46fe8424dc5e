package toolreq

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ToolSpec describes one known tool in the vocabulary.
type ToolSpec struct {
	// Name is the tool name as it appears in tool_name.
	Name string `yaml:"name"`
	// RequiredParams lists parameter keys a request must carry.
	RequiredParams []string `yaml:"required_params"`
	// Description is a short human-readable description.
	Description string `yaml:"description"`
}

// Vocabulary is the set of tools the calling agent knows how to execute.
// Requests naming unknown tools are still accepted, at lower confidence.
type Vocabulary struct {
	tools map[string]ToolSpec
}

// vocabularyFile is the on-disk YAML structure.
type vocabularyFile struct {
	Tools []ToolSpec `yaml:"tools"`
}

// DefaultVocabulary returns the built-in vocabulary covering the agent's
// standard tool set.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary([]ToolSpec{
		{Name: "read_file", RequiredParams: []string{"file_path"}, Description: "Read a file from the project"},
		{Name: "write_file", RequiredParams: []string{"file_path", "content"}, Description: "Write content to a file"},
		{Name: "list_files", RequiredParams: nil, Description: "List files in a directory"},
		{Name: "run_command", RequiredParams: []string{"command"}, Description: "Execute a shell command"},
		{Name: "search_code", RequiredParams: []string{"query"}, Description: "Search the codebase"},
	})
}

// NewVocabulary builds a Vocabulary from tool specs.
func NewVocabulary(tools []ToolSpec) *Vocabulary {
	v := &Vocabulary{tools: make(map[string]ToolSpec, len(tools))}
	for _, t := range tools {
		v.tools[t.Name] = t
	}
	return v
}

// LoadVocabulary reads a YAML vocabulary file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	for i, t := range file.Tools {
		if t.Name == "" {
			return nil, fmt.Errorf("vocabulary tool at index %d has empty name", i)
		}
	}

	return NewVocabulary(file.Tools), nil
}

// Lookup returns the spec for a tool name.
func (v *Vocabulary) Lookup(name string) (ToolSpec, bool) {
	spec, ok := v.tools[name]
	return spec, ok
}

// Names returns the known tool names.
func (v *Vocabulary) Names() []string {
	names := make([]string, 0, len(v.tools))
	for name := range v.tools {
		names = append(names, name)
	}
	return names
}
