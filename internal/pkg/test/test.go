// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package test contains helpers for writing tests
package test

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// SkipIfNoCommand skips a test if the cmd is not found in PATH
func SkipIfNoCommand(t *testing.T, cmd string) {
	t.Helper()
	if _, err := exec.LookPath(cmd); err != nil {
		skipf(t, "command %q not available", cmd)
	}
}

// SkipIfNoGo skips tests that run the go command, in short mode or if go is not installed.
func SkipIfNoGo(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("runs the go command, skipped in short mode")
	}
	SkipIfNoCommand(t, "go")
}

func skipf(t *testing.T, format string, args ...any) {
	t.Helper()
	msg := fmt.Sprintf(format, args...)
	noSkip := os.Getenv("TEST_NO_SKIP")
	if noSkip != "" {
		t.Fatalf("TEST_NO_SKIP=%v failing: %v", noSkip, msg)
	} else {
		t.Skip(msg)
	}
}

// ExecError extracts stderr if err is an exec.ExitError
func ExecError(err error) error {
	if ex, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("%v: %v", err, string(ex.Stderr))
	}
	return err
}

// PanicErr panics if err is not nil
func PanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Must panics if err is not nil, else returns v.
func Must[T any](v T, err error) T { PanicErr(err); return v }

// Package is a parsed and type-checked package.
type Package struct {
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
}

// TypeCheck parses and type-checks a package from a map of file name to source.
// Files are parsed with comments, in name order. Standard library imports are type-checked from source.
func TypeCheck(t testing.TB, files map[string]string) *Package {
	t.Helper()
	p := &Package{Fset: token.NewFileSet()}
	for _, name := range slices.Sorted(maps.Keys(files)) {
		f, err := parser.ParseFile(p.Fset, name, files[name], parser.ParseComments)
		require.NoError(t, err)
		p.Files = append(p.Files, f)
	}
	conf := types.Config{Importer: importer.ForCompiler(p.Fset, "source", nil)}
	var err error
	p.Types, err = conf.Check(p.Files[0].Name.Name, p.Fset, p.Files, nil)
	require.NoError(t, err)
	return p
}

// Module writes a Go module named "example.com/m" to a temporary directory.
// files maps slash-separated paths relative to the module root to their content.
func Module(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files = maps.Clone(files)
	if _, ok := files["go.mod"]; !ok {
		files["go.mod"] = "module example.com/m\n\ngo 1.25\n"
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// GoBuild runs "go build ./..." in dir, returns the combined output.
// env entries are added to the environment, after the defaults so they can replace them.
func GoBuild(dir string, env ...string) (string, error) {
	return Go(dir, env, "build", "./...")
}

// Go runs the go command with args in dir, returns the combined output.
func Go(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("go", args...)
	cmd.Dir = dir
	cmd.Env = append(append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod"), env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
