// Package b has no failures.
package b

import (
	"io"
	"strings"
)

//assertimpl:check io.Reader: *strings.Reader, io.ReadCloser
//assertimpl:check !io.Writer: *strings.Reader, strings.Reader,
//assertimpl:check comparable: string, [4]byte
//assertimpl:check !comparable: []byte, map[string]int

var _ = strings.NewReader
var _ io.Reader
