// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package assertimpl

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/korrel8r/assertimpl/internal/pkg/logging"
)

var log = logging.Log()

// Checker checks invocations against a type-checked package.
type Checker struct {
	fset *token.FileSet
	pkg  *types.Package
}

// NewChecker returns a checker for pkg, which was type-checked from files in fset.
func NewChecker(fset *token.FileSet, pkg *types.Package) *Checker {
	return &Checker{fset: fset, pkg: pkg}
}

// Resolved is an invocation with its capability and subjects resolved to types.
type Resolved struct {
	*Invocation
	Capability types.Type
	Interface  *types.Interface // Underlying interface of Capability.
	Subjects   []Subject        // Subjects that resolved, in source order.
}

// Subject is a resolved subject type.
type Subject struct {
	TypeExpr
	Type types.Type
}

// Resolve evaluates the capability and subjects of inv in the scope enclosing the directive.
// Returns nil if the capability cannot be resolved.
// Subjects that cannot be resolved are left out of the result with a Malformed diagnostic each.
func (c *Checker) Resolve(inv *Invocation) (*Resolved, []Diagnostic) {
	capType, err := c.evalType(inv.Pos, inv.Capability, "capability")
	if err != nil {
		return nil, []Diagnostic{*err}
	}
	iface, ok := capType.Underlying().(*types.Interface)
	if !ok {
		return nil, []Diagnostic{c.malformedAt(inv.Capability, "capability %s is not an interface", inv.Capability.Expr)}
	}
	r := &Resolved{Invocation: inv, Capability: capType, Interface: iface}
	var diags []Diagnostic
	for _, s := range inv.Subjects {
		t, err := c.evalType(inv.Pos, s, "type")
		if err != nil {
			diags = append(diags, *err)
			continue
		}
		r.Subjects = append(r.Subjects, Subject{TypeExpr: s, Type: t})
	}
	return r, diags
}

// Check resolves inv and checks each subject independently.
// Returns a diagnostic for each malformed or failed subject, in source order.
func (c *Checker) Check(inv *Invocation) []Diagnostic {
	r, diags := c.Resolve(inv)
	if r == nil {
		return diags
	}
	for _, s := range r.Subjects {
		if d, ok := r.check(s); !ok {
			diags = append(diags, d)
		}
	}
	sortDiagnostics(diags)
	return diags
}

func (r *Resolved) check(s Subject) (Diagnostic, bool) {
	if r.Polarity == Negative {
		return r.checkNegative(s)
	}
	if types.Satisfies(s.Type, r.Interface) {
		return Diagnostic{}, true
	}
	msg := fmt.Sprintf("%s does not satisfy %s", s.Expr, r.Invocation.Capability.Expr)
	if m, wrongType := types.MissingMethod(s.Type, r.Interface, true); m != nil {
		if wrongType {
			msg += fmt.Sprintf(" (wrong type for method %s)", m.Name())
		} else {
			msg += fmt.Sprintf(" (missing method %s)", m.Name())
		}
	}
	return Diagnostic{Pos: s.Pos, Kind: PositiveUnmet, Message: msg}, false
}

// markImpl is a candidate implementation of the marker operation used to prove a subject lacks a capability.
type markImpl struct {
	name    string
	applies func(types.Type) bool
}

// markImpls returns the candidates for a negative check.
// hasIt applies to every type satisfying the capability, lacksIt is declared for every listed subject.
// The marker resolves for a subject only if exactly one candidate applies.
// lacksIt always applies, so the verdict is exactly !types.Satisfies: the candidates only
// name the two conflicting impls in the diagnostic.
func (r *Resolved) markImpls() []markImpl {
	return []markImpl{
		{name: "hasIt", applies: func(t types.Type) bool { return types.Satisfies(t, r.Interface) }},
		{name: "lacksIt", applies: func(types.Type) bool { return true }},
	}
}

func (r *Resolved) checkNegative(s Subject) (Diagnostic, bool) {
	var applied []string
	for _, impl := range r.markImpls() {
		if impl.applies(s.Type) {
			applied = append(applied, impl.name)
		}
	}
	if len(applied) == 1 {
		return Diagnostic{}, true
	}
	return Diagnostic{
		Pos:  s.Pos,
		Kind: NegativeViolated,
		Message: fmt.Sprintf("ambiguous mark for %s (%s): %s satisfies %s",
			s.Expr, strings.Join(applied, ", "), s.Expr, r.Invocation.Capability.Expr),
	}, false
}

// evalType evaluates x as a type in the scope at pos.
func (c *Checker) evalType(pos token.Pos, x TypeExpr, what string) (types.Type, *Diagnostic) {
	tv, err := types.Eval(c.fset, c.pkg, pos, x.Expr)
	if err != nil {
		d := c.malformedAt(x, "%s %s: %v", what, x.Expr, evalMsg(err))
		return nil, &d
	}
	if !tv.IsType() {
		d := c.malformedAt(x, "%s %s is not a type", what, x.Expr)
		return nil, &d
	}
	if isGeneric(tv.Type) {
		d := c.malformedAt(x, "%s %s is generic and must be instantiated", what, x.Expr)
		return nil, &d
	}
	if hasTypeParam(tv.Type, map[types.Type]bool{}) {
		d := c.malformedAt(x, "%s %s depends on type parameters, only concrete types can be checked", what, x.Expr)
		return nil, &d
	}
	return tv.Type, nil
}

func (c *Checker) malformedAt(x TypeExpr, format string, args ...any) Diagnostic {
	return Diagnostic{Pos: x.Pos, Kind: Malformed, Message: "malformed assertion: " + fmt.Sprintf(format, args...)}
}

// evalMsg drops the position prefix types.Eval adds, it refers to the expression string, not the file.
func evalMsg(err error) string {
	if te, ok := err.(types.Error); ok {
		return te.Msg
	}
	return err.Error()
}

func isGeneric(t types.Type) bool {
	if n, ok := types.Unalias(t).(*types.Named); ok {
		return n.TypeParams().Len() > 0 && n.TypeArgs().Len() == 0
	}
	return false
}

// hasTypeParam returns true if t refers to a type parameter.
// Named types are not expanded, their type arguments are checked.
func hasTypeParam(t types.Type, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true
	switch t := t.(type) {
	case *types.TypeParam:
		return true
	case *types.Alias:
		return hasTypeParam(types.Unalias(t), seen)
	case *types.Named:
		for i := range t.TypeArgs().Len() {
			if hasTypeParam(t.TypeArgs().At(i), seen) {
				return true
			}
		}
	case *types.Pointer:
		return hasTypeParam(t.Elem(), seen)
	case *types.Slice:
		return hasTypeParam(t.Elem(), seen)
	case *types.Array:
		return hasTypeParam(t.Elem(), seen)
	case *types.Chan:
		return hasTypeParam(t.Elem(), seen)
	case *types.Map:
		return hasTypeParam(t.Key(), seen) || hasTypeParam(t.Elem(), seen)
	case *types.Signature:
		return hasTypeParam(t.Params(), seen) || hasTypeParam(t.Results(), seen)
	case *types.Tuple:
		for i := range t.Len() {
			if hasTypeParam(t.At(i).Type(), seen) {
				return true
			}
		}
	case *types.Struct:
		for i := range t.NumFields() {
			if hasTypeParam(t.Field(i).Type(), seen) {
				return true
			}
		}
	case *types.Interface:
		for i := range t.NumExplicitMethods() {
			if hasTypeParam(t.ExplicitMethod(i).Type(), seen) {
				return true
			}
		}
		for i := range t.NumEmbeddeds() {
			if hasTypeParam(t.EmbeddedType(i), seen) {
				return true
			}
		}
	case *types.Union:
		for i := range t.Len() {
			if hasTypeParam(t.Term(i).Type(), seen) {
				return true
			}
		}
	}
	return false
}

// Run scans files for assertions and checks them against pkg.
// Invocations are independent: each one is checked whatever the outcome of the others.
// Diagnostics are returned in source order.
func Run(fset *token.FileSet, files []*ast.File, pkg *types.Package) []Diagnostic {
	invs, diags := Scan(files)
	c := NewChecker(fset, pkg)
	for _, inv := range invs {
		log.V(2).Info("Checking assertion", "assertion", inv.String(), "position", logging.Pos(fset, inv.Pos))
		diags = append(diags, c.Check(inv)...)
	}
	sortDiagnostics(diags)
	return diags
}
