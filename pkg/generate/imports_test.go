// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package generate

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImports(t *testing.T) {
	pkg := types.NewPackage("example.com/p", "p")
	pkg.Scope().Insert(types.NewVar(token.NoPos, pkg, "io", types.Typ[types.Int]))
	im := newImports(pkg)
	var (
		mrand = types.NewPackage("math/rand", "rand")
		crand = types.NewPackage("crypto/rand", "rand")
		io    = types.NewPackage("io", "io")
	)
	assert.Equal(t, "", im.qualify(pkg))
	assert.Equal(t, "rand", im.qualify(mrand))
	assert.Equal(t, "rand2", im.qualify(crand))
	assert.Equal(t, "io2", im.qualify(io))
	assert.Equal(t, "rand", im.qualify(mrand))
	assert.Equal(t, []importSpec{
		{Name: "rand2", Path: "crypto/rand", Alias: true},
		{Name: "io2", Path: "io", Alias: true},
		{Name: "rand", Path: "math/rand"},
	}, im.specs())
}
