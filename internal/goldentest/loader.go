// Package goldentest runs declarative assembly test cases: YAML files
// pairing a schema table and a resource manifest with the expected record
// bytes and diagnostics.
package goldentest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseCase parses a test case from YAML bytes.
func ParseCase(data []byte) (*Case, error) {
	var c Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	if c.ID == "" {
		return nil, &LoadError{Message: "case ID is required"}
	}
	if c.Table == "" {
		return nil, &LoadError{Message: "case has no schema table"}
	}
	if c.Manifest == "" {
		return nil, &LoadError{Message: "case has no resource manifest"}
	}
	return &c, nil
}

// LoadCase loads a test case from a file.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	c, err := ParseCase(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return c, nil
}

// LoadDirectory loads every .yaml/.yml case in dir, sorted by file name.
func LoadDirectory(dir string) ([]*Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}

	var cases []*Case
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		c, err := LoadCase(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })
	return cases, nil
}
