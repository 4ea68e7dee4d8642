// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package assertimpl checks static assertions that types do, or do not, satisfy an interface.
//
// An assertion is a line comment directive naming a capability (an interface type) and a non-empty list of types:
//
//	//assertimpl:check fmt.Stringer: *Buffer, Name
//	//assertimpl:check fmt.Stringer: *Buffer, Name,
//	//assertimpl:check !Sharable: *Conn, chan int
//	//assertimpl:check !Sharable: *Conn, chan int,
//
// Without '!' every listed type must satisfy the capability, with '!' none of them may.
// A trailing comma is allowed, and so is a trailing "// comment" or "/* comment */". Capability and types are resolved in the scope where the directive appears,
// so function-local types declared before the directive can be listed.
//
// Positive assertions are enforced by the compiler using code written by package [generate],
// and by [Analyzer] as part of go vet.
//
// Negative assertions are enforced by [Analyzer] only, the Go type system has no way to make
// the compiler reject a type that satisfies an interface.
// A negative failure is reported as an ambiguity between two candidate implementations of a
// marker operation: one that applies to every type satisfying the capability, and one declared
// for each listed type. This is less direct than the positive "does not satisfy" message.
//
// [generate]: https://pkg.go.dev/github.com/korrel8r/assertimpl/pkg/generate
package assertimpl

import (
	"fmt"
	"go/token"
	"strings"
)

// Directive is the comment prefix that starts an assertion.
const Directive = "//assertimpl:check"

// Polarity of an assertion.
type Polarity int

const (
	Positive Polarity = iota // Every subject must satisfy the capability.
	Negative                 // No subject may satisfy the capability.
)

func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// TypeExpr is the source text of a type expression and its position.
type TypeExpr struct {
	Expr string
	Pos  token.Pos
}

// Invocation is a parsed assertion directive.
type Invocation struct {
	Pos        token.Pos // Start of the invocation text following the directive prefix.
	Polarity   Polarity
	Capability TypeExpr
	Subjects   []TypeExpr // In source order, never empty.
}

// String returns the invocation in canonical form, without a trailing comma.
func (inv *Invocation) String() string {
	w := &strings.Builder{}
	if inv.Polarity == Negative {
		w.WriteByte('!')
	}
	w.WriteString(inv.Capability.Expr)
	w.WriteString(": ")
	for i, s := range inv.Subjects {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(s.Expr)
	}
	return w.String()
}
