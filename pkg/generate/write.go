// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package generate

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Action taken by Write.
type Action string

const (
	Unchanged Action = "unchanged"
	Written   Action = "written"
	Removed   Action = "removed"
)

// Write updates the generated file at path with src.
// The file is only rewritten if its content changes. If src is nil the file is removed, if it exists.
func Write(path string, src []byte) (Action, error) {
	old, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	switch {
	case src == nil && !exists:
		return Unchanged, nil
	case src == nil:
		return Removed, os.Remove(path)
	case exists && bytes.Equal(old, src):
		return Unchanged, nil
	default:
		return Written, os.WriteFile(path, src, 0o644)
	}
}

// Result of updating a generated file.
type Result struct {
	Path   string
	Action Action
}

// Sync writes files to dir, and removes generated files in dir that are not in files.
//
// ignored are the base names of package files excluded by build constraints.
// A generated file for an ignored source is kept: it can only be regenerated where its source is compiled.
func (g *Generator) Sync(dir string, files []File, ignored []string) ([]Result, error) {
	var results []Result
	update := func(name string, src []byte) error {
		path := filepath.Join(dir, name)
		action, err := Write(path, src)
		if err != nil {
			return err
		}
		results = append(results, Result{Path: path, Action: action})
		return nil
	}
	keep := map[string]bool{}
	for _, f := range files {
		keep[f.Name] = true
		if err := update(f.Name, f.Src); err != nil {
			return results, err
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return results, err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || keep[name] || !g.config.IsOutput(name) {
			continue
		}
		if source := g.config.OutputSource(name); source != "" && slices.Contains(ignored, source) {
			continue
		}
		if err := update(name, nil); err != nil {
			return results, err
		}
	}
	return results, nil
}
