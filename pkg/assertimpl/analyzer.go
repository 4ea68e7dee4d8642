// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package assertimpl

import (
	"golang.org/x/tools/go/analysis"
)

// Analyzer reports failed //assertimpl:check assertions.
// It is the only enforcement for negative assertions, run it with go vet:
//
//	go vet -vettool=$(which assertimpl-vet) ./...
var Analyzer = &analysis.Analyzer{
	Name: "assertimpl",
	Doc: `check //assertimpl:check assertions

Reports each type listed in an "//assertimpl:check C: T..." directive that does not satisfy
interface C, and each type listed in "//assertimpl:check !C: T..." that does.`,
	URL: "https://pkg.go.dev/github.com/korrel8r/assertimpl/pkg/assertimpl",
	Run: run,
}

func run(pass *analysis.Pass) (any, error) {
	for _, d := range Run(pass.Fset, pass.Files, pass.Pkg) {
		pass.Report(analysis.Diagnostic{Pos: d.Pos, Category: d.Kind.String(), Message: d.Message})
	}
	return nil, nil
}
