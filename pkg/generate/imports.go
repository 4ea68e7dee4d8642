// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package generate

import (
	"fmt"
	"go/types"
	"slices"
	"strings"
)

type importSpec struct {
	Name, Path string
	Alias      bool // Name differs from the package name.
}

// imports collects the imports needed by type strings printed with qualify.
type imports struct {
	pkg    *types.Package
	byPath map[string]*importSpec
	names  map[string]bool
}

func newImports(pkg *types.Package) *imports {
	return &imports{pkg: pkg, byPath: map[string]*importSpec{}, names: map[string]bool{}}
}

// qualify is a types.Qualifier that records an import for every package other than im.pkg.
// A package whose name is taken by another import or by a package-level object is aliased.
func (im *imports) qualify(p *types.Package) string {
	if p == im.pkg {
		return ""
	}
	if spec, ok := im.byPath[p.Path()]; ok {
		return spec.Name
	}
	name := p.Name()
	for i := 2; im.names[name] || im.pkg.Scope().Lookup(name) != nil; i++ {
		name = fmt.Sprintf("%v%v", p.Name(), i)
	}
	im.names[name] = true
	im.byPath[p.Path()] = &importSpec{Name: name, Path: p.Path(), Alias: name != p.Name()}
	return name
}

// specs returns the recorded imports sorted by path.
func (im *imports) specs() []importSpec {
	var specs []importSpec
	for _, spec := range im.byPath {
		specs = append(specs, *spec)
	}
	slices.SortFunc(specs, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })
	return specs
}
