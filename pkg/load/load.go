// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package load loads and type-checks the packages to be checked or generated.
package load

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/korrel8r/assertimpl/internal/pkg/logging"
	"github.com/korrel8r/assertimpl/pkg/config"
	"golang.org/x/tools/go/packages"
)

var log = logging.Log()

// Options for loading packages.
type Options struct {
	Dir   string   // Directory to run the go command in, current directory if empty.
	Tests bool     // Include test packages.
	Tags  []string // Build tags.
	// Generated is true for the base names of generated files.
	// Generated files are replaced by an empty file of the same package while loading,
	// so a stale generated file does not prevent loading the package that generates it.
	Generated func(name string) bool
}

// NewOptions returns Options from a configuration.
func NewOptions(c *config.Config, dir string, tests bool) Options {
	return Options{Dir: dir, Tests: tests, Tags: c.Tags, Generated: c.IsOutput}
}

const mode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports

// Packages loads and type-checks the packages matching patterns.
// Synthesized test main packages are dropped.
// Returns an error if any package has errors.
func Packages(ctx context.Context, o Options, patterns ...string) ([]*packages.Package, error) {
	conf := &packages.Config{Context: ctx, Dir: o.Dir, Tests: o.Tests, Logf: logf}
	if len(o.Tags) > 0 {
		conf.BuildFlags = []string{"-tags=" + strings.Join(o.Tags, ",")}
	}
	overlay, err := masks(conf, o.Generated, patterns)
	if err != nil {
		return nil, err
	}
	conf.Mode, conf.Overlay = mode, overlay
	pkgs, err := packages.Load(conf, patterns...)
	if err != nil {
		return nil, err
	}
	var (
		result []*packages.Package
		errs   []error
	)
	for _, p := range pkgs {
		if strings.HasSuffix(p.ID, ".test") {
			continue // Generated test main.
		}
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
		result = append(result, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no packages match %v", patterns)
	}
	log.V(1).Info("Loaded packages", "count", len(result), "patterns", patterns)
	return result, nil
}

// masks returns an overlay replacing existing generated files with a bare package clause.
func masks(conf *packages.Config, generated func(string) bool, patterns []string) (map[string][]byte, error) {
	if generated == nil {
		return nil, nil
	}
	c := *conf
	c.Mode = packages.NeedName | packages.NeedFiles
	pkgs, err := packages.Load(&c, patterns...)
	if err != nil {
		return nil, err
	}
	overlay := map[string][]byte{}
	for _, p := range pkgs {
		for _, f := range p.GoFiles {
			if generated(filepath.Base(f)) {
				log.V(2).Info("Masking generated file", "file", f)
				overlay[f] = []byte("package " + p.Name + "\n")
			}
		}
	}
	return overlay, nil
}

func logf(format string, args ...any) { log.V(5).Info(fmt.Sprintf(format, args...)) }
