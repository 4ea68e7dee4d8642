// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package assertimpl_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/korrel8r/assertimpl/internal/pkg/test"
	"github.com/korrel8r/assertimpl/pkg/assertimpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const types = `package p

// Sharable types are safe to share between goroutines.
type Sharable interface{ Sharable() }

type Int int

func (Int) Sharable() {}

type Uint8 uint8

func (Uint8) Sharable() {}

// RawPtr is not safe to share.
type RawPtr struct{ p *byte }

// *Conn is Sharable, Conn is not.
type Conn struct{}

func (*Conn) Sharable() {}

type Wrong struct{}

func (Wrong) Sharable() int { return 0 }

type Key[T any] interface{ Key() T }

type IntKey int

func (IntKey) Key() int { return 0 }

type Numeric interface{ ~int | ~float64 }
`

// run type-checks types followed by src and returns the diagnostics.
func run(t *testing.T, src string) (*test.Package, []assertimpl.Diagnostic) {
	t.Helper()
	p := test.TypeCheck(t, map[string]string{"p.go": types + "\n" + src + "\n"})
	return p, assertimpl.Run(p.Fset, p.Files, p.Types)
}

func directive(s string) string { return assertimpl.Directive + " " + s }

type result struct {
	Kind    assertimpl.Kind
	Message string
}

func results(diags []assertimpl.Diagnostic) []result {
	var r []result
	for _, d := range diags {
		r = append(r, result{Kind: d.Kind, Message: d.Message})
	}
	return r
}

func TestRun(t *testing.T) {
	unmet, violated := assertimpl.PositiveUnmet, assertimpl.NegativeViolated
	for _, x := range []struct {
		assertion string
		want      []result
	}{
		{"Sharable: Int, Uint8", nil},
		{"Sharable: Int, Uint8,", nil},
		{"Sharable: *RawPtr", []result{{unmet, "*RawPtr does not satisfy Sharable (missing method Sharable)"}}},
		{"Sharable: *RawPtr,", []result{{unmet, "*RawPtr does not satisfy Sharable (missing method Sharable)"}}},
		{"!Sharable: *RawPtr", nil},
		{"!Sharable: *RawPtr,", nil},
		{"!Sharable: Int, Uint8", []result{
			{violated, "ambiguous mark for Int (hasIt, lacksIt): Int satisfies Sharable"},
			{violated, "ambiguous mark for Uint8 (hasIt, lacksIt): Uint8 satisfies Sharable"},
		}},
		{"Sharable: *Conn", nil},
		{"!Sharable: Conn", nil},
		{"Sharable: Wrong", []result{{unmet, "Wrong does not satisfy Sharable (wrong type for method Sharable)"}}},
		{"Sharable: Int, *RawPtr, Uint8, RawPtr", []result{
			{unmet, "*RawPtr does not satisfy Sharable (missing method Sharable)"},
			{unmet, "RawPtr does not satisfy Sharable (missing method Sharable)"},
		}},
		{"Key[int]: IntKey", nil},
		{"!Key[string]: IntKey", nil},
		{"comparable: Int, *RawPtr, [2]string", nil},
		{"comparable: func()", []result{{unmet, "func() does not satisfy comparable"}}},
		{"!comparable: func(), map[int]int, []Int", nil},
		{"Numeric: Int, float64", nil},
		{"Numeric: Uint8", []result{{unmet, "Uint8 does not satisfy Numeric"}}},
		{"!Numeric: Uint8, string", nil},
		{"interface{ Sharable() }: Int", nil},
		{"any: Int, func(a, b int) error, struct{ x, y int }", nil},
		{"!Sharable: Int, Int", []result{
			{violated, "ambiguous mark for Int (hasIt, lacksIt): Int satisfies Sharable"},
			{violated, "ambiguous mark for Int (hasIt, lacksIt): Int satisfies Sharable"},
		}},
	} {
		t.Run(x.assertion, func(t *testing.T) {
			_, diags := run(t, directive(x.assertion))
			assert.Equal(t, x.want, results(diags))
		})
	}
}

func TestRun_Malformed(t *testing.T) {
	for _, x := range []struct{ assertion, want string }{
		{"Sharable:", "malformed assertion: expected at least one type"},
		{"!Sharable: ,", "malformed assertion: expected at least one type"},
		{"Sharable Int", "expected ':'"},
		{"Missing: Int", "undefined: Missing"},
		{"Sharable: Missing", "undefined: Missing"},
		{"Int: Uint8", "capability Int is not an interface"},
		{"Key: IntKey", "Key"},
		{"Sharable: Key", "Key"},
		{"Sharable: Int, 42", "type 42 is not a type"},
	} {
		t.Run(x.assertion, func(t *testing.T) {
			_, diags := run(t, directive(x.assertion))
			require.Len(t, diags, 1)
			assert.Equal(t, assertimpl.Malformed, diags[0].Kind)
			assert.Contains(t, diags[0].Message, x.want)
		})
	}
}

func TestRun_Position(t *testing.T) {
	p, diags := run(t, directive("!Sharable: Int, Uint8"))
	require.Len(t, diags, 2)
	line := strings.Count(types, "\n") + 2 // Blank line between types and src.
	for i, col := range []int{31, 36} {
		pos := p.Fset.Position(diags[i].Pos)
		assert.Equal(t, "p.go", pos.Filename)
		assert.Equal(t, line, pos.Line)
		assert.Equal(t, col, pos.Column)
	}
}

// Either polarity accepts a subject exactly when the other rejects it.
func TestRun_Polarity(t *testing.T) {
	for _, subject := range []string{"Int", "Uint8", "*RawPtr", "RawPtr", "Conn", "*Conn", "Wrong", "int"} {
		t.Run(subject, func(t *testing.T) {
			_, pos := run(t, directive("Sharable: "+subject))
			_, neg := run(t, directive("!Sharable: "+subject))
			assert.Equal(t, 1, len(pos)+len(neg), "positive: %v, negative: %v", pos, neg)
		})
	}
}

// A multi-subject assertion is the conjunction of single-subject assertions.
func TestRun_Conjunction(t *testing.T) {
	subjects := []string{"Int", "*RawPtr", "*Conn", "Wrong"}
	for _, polarity := range []string{"", "!"} {
		for _, a := range subjects {
			for _, b := range subjects {
				t.Run(fmt.Sprintf("%vSharable: %v, %v", polarity, a, b), func(t *testing.T) {
					_, both := run(t, directive(fmt.Sprintf("%vSharable: %v, %v", polarity, a, b)))
					_, onlyA := run(t, directive(fmt.Sprintf("%vSharable: %v", polarity, a)))
					_, onlyB := run(t, directive(fmt.Sprintf("%vSharable: %v", polarity, b)))
					assert.Equal(t, len(both) == 0, len(onlyA) == 0 && len(onlyB) == 0)
					assert.Equal(t, len(onlyA)+len(onlyB), len(both))
				})
			}
		}
	}
}

// A failed assertion does not affect other assertions in the same scope.
func TestRun_Independent(t *testing.T) {
	_, diags := run(t, strings.Join([]string{
		directive("!Sharable: Int"),
		directive("comparable: Int"),
		directive("Sharable:"),
		directive("!Numeric: Uint8"),
		directive("Sharable: Uint8"),
	}, "\n"))
	assert.Equal(t, []result{
		{assertimpl.NegativeViolated, "ambiguous mark for Int (hasIt, lacksIt): Int satisfies Sharable"},
		{assertimpl.Malformed, "malformed assertion: expected at least one type"},
	}, results(diags))
}

func TestRun_Scope(t *testing.T) {
	_, diags := run(t, `
func f() {
	//assertimpl:check Sharable: local
	type local struct{}
	//assertimpl:check !Sharable: local
}

func g[T Sharable]() {
	//assertimpl:check Sharable: T
	//assertimpl:check Sharable: []T
	//assertimpl:check T: Int
}

//assertimpl:check !Sharable: Later

type Later struct{}
`)
	require.Len(t, diags, 4)
	assert.Contains(t, diags[0].Message, "undefined: local")
	assert.Contains(t, diags[1].Message, "type T depends on type parameters")
	assert.Contains(t, diags[2].Message, "type []T depends on type parameters")
	assert.Contains(t, diags[3].Message, "capability T depends on type parameters")
	for _, d := range diags {
		assert.Equal(t, assertimpl.Malformed, d.Kind)
	}
}

func TestRun_Imports(t *testing.T) {
	test.SkipIfNoGo(t)
	p := test.TypeCheck(t, map[string]string{"p.go": `package p

import (
	"fmt"
	"strings"
	"sync"
)

var (
	_ fmt.Stringer
	_ strings.Builder
	_ sync.Mutex
)

//assertimpl:check fmt.Stringer: *strings.Builder
//assertimpl:check !fmt.Stringer: strings.Builder, sync.Mutex
//assertimpl:check sync.Locker: *sync.Mutex, *sync.RWMutex, sync.Locker
//assertimpl:check sync.Locker: sync.Mutex
`})
	diags := assertimpl.Run(p.Fset, p.Files, p.Types)
	assert.Equal(t, []result{{assertimpl.PositiveUnmet, "sync.Mutex does not satisfy sync.Locker (wrong type for method Lock)"}}, results(diags))
}
