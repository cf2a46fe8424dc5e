package inventory

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// CacheFileName is where scan results are cached under the root.
	CacheFileName = ".olympusval/inventory_cache.json"
	// CacheMaxAge is how long a cached scan stays valid.
	CacheMaxAge = 24 * time.Hour
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".olympusval":  true,
	"__pycache__":  true,
	".venv":        true,
}

// trackedExtensions are the file types worth resolving references
// against: source files plus the data formats code commonly opens.
var trackedExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".go": true, ".json": true, ".yaml": true, ".yml": true,
	".txt": true, ".csv": true, ".md": true, ".toml": true,
}

// Scanner walks a project tree and produces inventory snapshots.
type Scanner struct {
	root string
}

// NewScanner builds a scanner rooted at the given directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Scan returns a cached snapshot when one is fresh, otherwise walks the
// tree and caches the result. Cache write failures are ignored; the
// snapshot is still returned.
func (s *Scanner) Scan() (*Snapshot, error) {
	if snap := s.loadCache(); snap != nil {
		return snap, nil
	}
	snap, err := s.walk()
	if err != nil {
		return nil, err
	}
	s.saveCache(snap)
	return snap, nil
}

// Rescan ignores any cache and walks the tree, refreshing the cache.
func (s *Scanner) Rescan() (*Snapshot, error) {
	snap, err := s.walk()
	if err != nil {
		return nil, err
	}
	s.saveCache(snap)
	return snap, nil
}

func (s *Scanner) walk() (*Snapshot, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] || (strings.HasPrefix(name, ".") && path != s.root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !trackedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return &Snapshot{
		Root:      s.root,
		Files:     files,
		Timestamp: time.Now().Unix(),
	}, nil
}

// loadCache returns the cached snapshot when present, parseable, and
// younger than CacheMaxAge.
func (s *Scanner) loadCache() *Snapshot {
	cachePath := filepath.Join(s.root, CacheFileName)
	info, err := os.Stat(cachePath)
	if err != nil {
		return nil
	}
	if time.Since(info.ModTime()) > CacheMaxAge {
		return nil
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

func (s *Scanner) saveCache(snap *Snapshot) {
	cachePath := filepath.Join(s.root, CacheFileName)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(cachePath, data, 0644)
}
