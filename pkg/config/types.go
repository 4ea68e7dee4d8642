// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package config

// Config is the configuration for the assertimpl command.
// Configuration files may be JSON or YAML.
type Config struct {
	// Output is the base name of the file written by the gen command in each package.
	Output string `json:"output,omitempty"`

	// BuildTags is a build constraint expression, written as a //go:build line in generated files.
	BuildTags string `json:"buildTags,omitempty"`

	// Tags are build tags used to select files when loading packages.
	Tags []string `json:"tags,omitempty"`

	// Jobs limits the number of packages processed concurrently.
	// If 0, use runtime.GOMAXPROCS.
	Jobs int `json:"jobs,omitempty"`

	// SkipTests excludes _test.go files from the check command.
	// The gen command never reads test files.
	SkipTests bool `json:"skipTests,omitempty"`
}
