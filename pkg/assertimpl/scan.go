// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package assertimpl

import (
	"go/ast"
)

// Scan finds the assertion directives in files.
// Returns the well-formed invocations in source order, and a Malformed diagnostic for each directive that does not parse.
// files must have been parsed with parser.ParseComments.
func Scan(files []*ast.File) ([]*Invocation, []Diagnostic) {
	var (
		invs  []*Invocation
		diags []Diagnostic
	)
	for _, f := range files {
		for _, group := range f.Comments {
			for _, c := range group.List {
				inv, ok, err := ParseDirective(c)
				switch {
				case !ok:
				case err != nil:
					diags = append(diags, malformed(err))
				default:
					invs = append(invs, inv)
				}
			}
		}
	}
	return invs, diags
}
