// Package rules loads the declarative waypoint rule configuration and
// compiles it into the per-session lookup tables the interaction detector
// consults. Loading happens once per session, after the host taxonomy is
// fully known; the compiled tables are immutable afterwards.
package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source supplies raw rule-file bytes. Tests provide in-memory sources while
// production code reads from disk.
type Source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

// FileSource returns a Source backed by a file path.
func FileSource(path string) Source {
	return fileSource{path: path}
}

// Parse decodes a rules file. Malformed JSON or a document of the wrong
// shape fails with an error; the caller decides whether that degrades to an
// empty rule set (the session-start policy) or aborts (tooling).
func Parse(data []byte) ([]Rule, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var file File
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("rules: failed parsing rules file: %w", err)
	}
	return file.Rules(), nil
}

// Load reads and parses the rules file behind src. A missing file falls back
// to the bundled defaults; any other read or parse failure is returned so the
// caller can log it and continue with no rules.
func Load(src Source) ([]Rule, error) {
	data, err := src.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultFile().Rules(), nil
		}
		return nil, fmt.Errorf("rules: failed loading %s: %w", src.Path(), err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules: %s: %w", src.Path(), err)
	}
	return rules, nil
}

// EnsureUserFile copies the bundled default rules file to the user-editable
// path when no file exists there yet. An existing file is never touched.
func EnsureUserFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("rules: failed probing %s: %w", path, err)
	}

	data, err := json.MarshalIndent(DefaultFile(), "", "  ")
	if err != nil {
		return fmt.Errorf("rules: failed encoding defaults: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("rules: failed creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rules: failed writing %s: %w", path, err)
	}
	return nil
}

// DefaultFile returns the bundled default rule set: ore deposits, forageable
// bushes, and hostile creatures players commonly want pinned while exploring.
func DefaultFile() File {
	return File{
		Waypoints: []RuleDocument{
			{
				Title:    "Ore",
				Icon:     "pick",
				Color:    "#C87137",
				Coverage: 16,
				Blocks:   []string{"ore-*", "looseores-*"},
			},
			{
				Title:    "Berries",
				Icon:     "berry",
				Color:    "#9932CC",
				Coverage: 10,
				Blocks:   []string{"bush-*-ripe"},
			},
			{
				Title:    "Hive",
				Icon:     "bee",
				Color:    "#FFD700",
				Coverage: 12,
				Blocks:   []string{"wildbeehive-*"},
			},
			{
				Title:    "Wolf",
				Icon:     "paw",
				Color:    "#B22222",
				Pinned:   true,
				Coverage: 24,
				Entities: []string{"wolf-*"},
			},
		},
	}
}
