// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assertimpl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeFile(t, `
buildTags: "!purego"
tags: [integration]
jobs: 2
skipTests: true
`))
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Output:    DefaultOutput,
		BuildTags: "!purego",
		Tags:      []string{"integration"},
		Jobs:      2,
		SkipTests: true,
	}, c)
	assert.Equal(t, 2, c.Parallel())
}

func TestLoad_Default(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Positive(t, c.Parallel())
}

func TestLoad_DefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(DefaultFile, []byte("output: assertions.go\n"), 0o644))
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "assertions.go", c.Output)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	for _, x := range []struct {
		name, content, want string
	}{
		{"unknown field", "outptu: x.go", `unknown field "outptu"`},
		{"path", "output: dir/x.go", "must be a file name"},
		{"test file", "output: x_test.go", "non-test .go file"},
		{"not go", "output: x.txt", "non-test .go file"},
		{"GOOS suffix", "output: assert_linux.go", "must not have a GOOS or GOARCH suffix"},
		{"jobs", "jobs: -1", "jobs: must not be negative"},
		{"build tags", "buildTags: 'linux &&'", "buildTags:"},
	} {
		t.Run(x.name, func(t *testing.T) {
			_, err := Load(writeFile(t, x.content))
			assert.ErrorContains(t, err, x.want)
		})
	}
}

func TestConfig_Output(t *testing.T) {
	c := Default()
	assert.Equal(t, "zz_generated.assertimpl.p_linux.go", c.OutputFor("p_linux.go"))
	for _, x := range []struct {
		name, source string
		output       bool
	}{
		{DefaultOutput, "", true},
		{"zz_generated.assertimpl.p_linux.go", "p_linux.go", true},
		{"zz_generated.assertimpl.extra.go", "extra.go", true},
		{"zz_generated.assertimpl..go", "", false},
		{"zz_generated.assertimpl.txt", "", false},
		{"p_linux.go", "", false},
	} {
		t.Run(x.name, func(t *testing.T) {
			assert.Equal(t, x.source, c.OutputSource(x.name))
			assert.Equal(t, x.output, c.IsOutput(x.name))
		})
	}
}
