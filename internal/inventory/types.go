// Package inventory scans a project tree into the ordered file list that
// context validation resolves references against, with a JSON cache, a
// shareable YAML manifest format, and a filesystem watcher for keeping
// the list fresh during interactive sessions.
package inventory

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Snapshot is one scan result: the ordered relative paths of all
// trackable files under a root.
type Snapshot struct {
	// Root is the absolute path that was scanned.
	Root string `json:"root"`
	// Files lists relative paths in sorted order.
	Files []string `json:"files"`
	// Timestamp is when the scan ran (unix seconds).
	Timestamp int64 `json:"timestamp"`
}

// Manifest is the YAML interchange format for a file inventory, so a
// project list can be produced once and shared across validation runs
// without rescanning.
type Manifest struct {
	Project string   `yaml:"project,omitempty"`
	Files   []string `yaml:"files"`
}

// LoadManifest reads a YAML manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// SaveManifest writes the manifest as YAML.
func SaveManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ManifestFromSnapshot converts a scan result into a manifest.
func ManifestFromSnapshot(s *Snapshot) *Manifest {
	files := make([]string, len(s.Files))
	copy(files, s.Files)
	sort.Strings(files)
	return &Manifest{Files: files}
}
