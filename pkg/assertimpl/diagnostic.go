// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package assertimpl

import (
	"errors"
	"fmt"
	"go/token"
	"slices"
	"strings"
)

// Kind of diagnostic.
type Kind int

const (
	Malformed        Kind = iota + 1 // The invocation cannot be checked.
	PositiveUnmet                    // A subject does not satisfy the capability.
	NegativeViolated                 // A subject satisfies a capability it must not satisfy.
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case PositiveUnmet:
		return "positive-unmet"
	case NegativeViolated:
		return "negative-violated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Diagnostic reports a failed assertion at the position of the offending subject,
// or of the invocation if the subject is not known.
type Diagnostic struct {
	Pos     token.Pos
	Kind    Kind
	Message string
}

func (d Diagnostic) Error() string { return d.Message }

func malformed(err error) Diagnostic {
	if pe, ok := err.(*ParseError); ok {
		return Diagnostic{Pos: pe.Pos, Kind: Malformed, Message: pe.Error()}
	}
	return Diagnostic{Kind: Malformed, Message: err.Error()}
}

func sortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int { return int(a.Pos) - int(b.Pos) })
}

// DiagnosticsError is an error containing one or more diagnostics.
type DiagnosticsError struct {
	Fset        *token.FileSet
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	w := &strings.Builder{}
	for i, d := range e.Diagnostics {
		if i > 0 {
			w.WriteByte('\n')
		}
		if e.Fset != nil && d.Pos.IsValid() {
			fmt.Fprintf(w, "%v: ", e.Fset.Position(d.Pos))
		}
		w.WriteString(d.Message)
	}
	return w.String()
}

// IsKind returns true if err contains a diagnostic of kind k.
func IsKind(err error, k Kind) bool {
	var d Diagnostic
	if errors.As(err, &d) {
		return d.Kind == k
	}
	var de *DiagnosticsError
	if errors.As(err, &de) {
		return slices.ContainsFunc(de.Diagnostics, func(d Diagnostic) bool { return d.Kind == k })
	}
	return false
}
