// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// Command assertimpl-vet checks //assertimpl:check assertions as a go vet tool:
//
//	go vet -vettool=$(which assertimpl-vet) ./...
//
// This is the only way to enforce negative assertions at build time.
package main

import (
	"github.com/korrel8r/assertimpl/pkg/assertimpl"
	"golang.org/x/tools/go/analysis/unitchecker"
)

func main() { unitchecker.Main(assertimpl.Analyzer) }
