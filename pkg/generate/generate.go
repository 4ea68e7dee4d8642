// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package generate writes Go source that makes the compiler enforce positive assertions.
//
// Each positive assertion at package level becomes a generic function constrained by the capability,
// instantiated with every subject inside a func _() that is never called:
//
//	//assertimpl:check fmt.Stringer: *Buffer, Name
//
// generates
//
//	func assertImpl0[T fmt.Stringer]() {}
//
//	func _() {
//		_ = assertImpl0[*Buffer]
//		_ = assertImpl0[Name]
//	}
//
// A subject that does not satisfy the capability fails to compile.
// Nothing is executed and nothing is added to the binary.
//
// Negative assertions, and assertions inside function bodies, are listed in a comment:
// they are checked by the vet analyzer in package assertimpl.
//
// Assertions in a file with build constraints, a //go:build line or a GOOS/GOARCH file name suffix,
// are generated in a separate file with the same constraints on its //go:build line.
package generate

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig/v3"
	"github.com/korrel8r/assertimpl/internal/pkg/buildtag"
	"github.com/korrel8r/assertimpl/internal/pkg/logging"
	"github.com/korrel8r/assertimpl/pkg/assertimpl"
	"github.com/korrel8r/assertimpl/pkg/config"
)

var log = logging.Log()

//go:embed templates/generated.go.tmpl
var generatedTmpl string

var tmpl = template.Must(template.New("generated.go.tmpl").Funcs(sprig.TxtFuncMap()).Parse(generatedTmpl))

// Generator generates assertion code for packages.
type Generator struct {
	config *config.Config
}

// New returns a generator using c.
func New(c *config.Config) *Generator { return &Generator{config: c} }

type positive struct {
	Position, Assertion string
	Helper, Capability  string
	Subjects            []string
}

type listed struct{ Position, Assertion string }

type data struct {
	BuildTags string
	Package   string
	Imports   []importSpec
	Positive  []positive
	Negative  []listed
	Local     []listed
}

// File is a generated file.
type File struct {
	Name   string // Base name of the generated file.
	Source string // Base name of the constrained source file, empty for the package file.
	Src    []byte
}

// group of assertions written to one generated file.
type group struct {
	File
	data    data
	imports *imports
	helpers func() string
}

// Generate returns the generated files for a type-checked package, the package file first.
// Returns nil if the package has no assertions.
// Returns a *assertimpl.DiagnosticsError if any assertion is malformed.
// Whether subjects satisfy their capability is not checked here: that is the compiler's job.
//
// Assertions in a source file with build constraints go to their own file, with the same
// constraints, so the generated code is only compiled where the types it names exist.
func (g *Generator) Generate(fset *token.FileSet, files []*ast.File, pkg *types.Package) ([]File, error) {
	invs, diags := assertimpl.Scan(files)
	c := assertimpl.NewChecker(fset, pkg)
	groups := map[string]*group{}
	for _, inv := range invs {
		r, rdiags := c.Resolve(inv)
		if len(rdiags) > 0 {
			diags = append(diags, rdiags...)
			continue
		}
		grp, err := g.group(groups, fset, files, pkg, inv.Pos)
		if err != nil {
			return nil, err
		}
		d := &grp.data
		l := listed{Position: position(fset, inv.Pos), Assertion: inv.String()}
		switch {
		case !packageLevel(pkg, inv.Pos):
			log.V(1).Info("Assertion inside a function, not generated", "position", logging.Pos(fset, inv.Pos))
			d.Local = append(d.Local, l)
		case inv.Polarity == assertimpl.Negative:
			d.Negative = append(d.Negative, l)
		default:
			p := positive{
				Position:   l.Position,
				Assertion:  l.Assertion,
				Helper:     grp.helpers(),
				Capability: types.TypeString(r.Capability, grp.imports.qualify),
			}
			for _, s := range r.Subjects {
				p.Subjects = append(p.Subjects, types.TypeString(s.Type, grp.imports.qualify))
			}
			d.Positive = append(d.Positive, p)
		}
	}
	if len(diags) > 0 {
		return nil, &assertimpl.DiagnosticsError{Fset: fset, Diagnostics: diags}
	}
	var result []File
	for _, grp := range groups {
		grp.data.Imports = grp.imports.specs()
		b := &bytes.Buffer{}
		if err := tmpl.Execute(b, grp.data); err != nil {
			return nil, err
		}
		src, err := format.Source(b.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%v: generated invalid source: %w", pkg.Path(), err)
		}
		grp.Src = src
		result = append(result, grp.File)
	}
	slices.SortFunc(result, func(a, b File) int { return strings.Compare(a.Source, b.Source) })
	return result, nil
}

// group returns the group for assertions at pos, creating it if needed.
func (g *Generator) group(groups map[string]*group, fset *token.FileSet, files []*ast.File, pkg *types.Package, pos token.Pos) (*group, error) {
	name := fset.File(pos).Name()
	i := slices.IndexFunc(files, func(f *ast.File) bool { return fset.File(f.Pos()).Name() == name })
	if i < 0 {
		return nil, fmt.Errorf("%v: file not found in package %v", name, pkg.Path())
	}
	fileTags, err := buildtag.File(filepath.Base(name), files[i])
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	var key string
	if fileTags != nil {
		key = filepath.Base(name)
	}
	if grp, ok := groups[key]; ok {
		return grp, nil
	}
	grp := &group{
		File:    File{Name: g.config.Output, Source: key},
		data:    data{Package: pkg.Name()},
		imports: newImports(pkg),
		helpers: helperNames(pkg, "assertImpl"),
	}
	if key != "" {
		grp.Name = g.config.OutputFor(key)
		grp.helpers = helperNames(pkg, "assertImpl_"+identifier(strings.TrimSuffix(key, ".go"))+"_")
	}
	var tags constraint.Expr
	if g.config.BuildTags != "" {
		if tags, err = constraint.Parse("//go:build " + g.config.BuildTags); err != nil {
			return nil, fmt.Errorf("buildTags: %w", err)
		}
	}
	if tags = buildtag.And(tags, fileTags); tags != nil {
		grp.data.BuildTags = tags.String()
	}
	groups[key] = grp
	return grp, nil
}

// packageLevel is true if pos is outside any function, so the assertion's scope is the file scope.
func packageLevel(pkg *types.Package, pos token.Pos) bool {
	s := pkg.Scope().Innermost(pos)
	return s != nil && s.Parent() == pkg.Scope()
}

// helperNames returns a function returning unique helper names that do not clash with the package scope.
// Names from different prefixes never clash, generated files for other platforms are not in the scope.
func helperNames(pkg *types.Package, prefix string) func() string {
	n := 0
	return func() string {
		for {
			name := fmt.Sprintf("%v%d", prefix, n)
			n++
			if pkg.Scope().Lookup(name) == nil {
				return name
			}
		}
	}
}

// identifier replaces characters that are not valid in a Go identifier with '_'.
func identifier(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, s)
}

func position(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	return fmt.Sprintf("%v:%v", filepath.Base(p.Filename), p.Line)
}
