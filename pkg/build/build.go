// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package build contains build information for the assertimpl module.
package build

import (
	_ "embed"
	"strings"
)

//go:embed version.txt
var version string

// Version of the module.
var Version = strings.TrimSpace(version)
