// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package config loads the optional assertimpl configuration file.
package config

import (
	"errors"
	"fmt"
	"go/build/constraint"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/korrel8r/assertimpl/internal/pkg/buildtag"
	"github.com/korrel8r/assertimpl/internal/pkg/logging"
	"sigs.k8s.io/yaml"
)

var log = logging.Log()

const (
	// DefaultFile is loaded from the working directory if no file is named.
	DefaultFile = ".assertimpl.yaml"
	// DefaultOutput is the default generated file name.
	DefaultOutput = "zz_generated.assertimpl.go"
)

// Default returns the default configuration.
func Default() *Config { return &Config{Output: DefaultOutput} }

// Load loads a configuration file.
// If path is empty, load DefaultFile if it exists, otherwise return Default().
// Fields missing from the file keep their default values, unknown fields are an error.
func Load(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	log.V(1).Info("Loaded configuration", "file", path, "config", logging.JSON(c))
	return c, nil
}

// Validate returns an error if c is not usable.
func (c *Config) Validate() error {
	switch {
	case c.Output == "":
		return errors.New("output: missing file name")
	case filepath.Base(c.Output) != c.Output:
		return fmt.Errorf("output: %q must be a file name, not a path", c.Output)
	case !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go"):
		return fmt.Errorf("output: %q must be a non-test .go file", c.Output)
	case buildtag.FileName(c.Output) != nil:
		return fmt.Errorf("output: %q must not have a GOOS or GOARCH suffix", c.Output)
	case c.Jobs < 0:
		return fmt.Errorf("jobs: must not be negative: %v", c.Jobs)
	}
	if c.BuildTags != "" {
		if _, err := constraint.Parse("//go:build " + c.BuildTags); err != nil {
			return fmt.Errorf("buildTags: %w", err)
		}
	}
	return nil
}

// Parallel returns the number of packages to process concurrently.
func (c *Config) Parallel() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// OutputFor returns the generated file name for assertions in source, a file with build constraints.
// The name has no GOOS or GOARCH suffix, constraints go on the //go:build line of the generated file.
func (c *Config) OutputFor(source string) string {
	return strings.TrimSuffix(c.Output, ".go") + "." + source
}

// OutputSource returns the source file name if name was returned by OutputFor, "" otherwise.
func (c *Config) OutputSource(name string) string {
	source, ok := strings.CutPrefix(name, strings.TrimSuffix(c.Output, ".go")+".")
	if !ok || !strings.HasSuffix(source, ".go") || source == ".go" {
		return ""
	}
	return source
}

// IsOutput returns true if name is the name of a generated file.
func (c *Config) IsOutput(name string) bool { return name == c.Output || c.OutputSource(name) != "" }
