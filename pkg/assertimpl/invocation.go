// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package assertimpl

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
	"unicode"
)

// ParseError is a malformed invocation.
type ParseError struct {
	Pos token.Pos
	Msg string
}

func (e *ParseError) Error() string { return "malformed assertion: " + e.Msg }

// ParseDirective parses c if it is an assertion directive.
// Returns ok == false if c is not a directive.
func ParseDirective(c *ast.Comment) (inv *Invocation, ok bool, err error) {
	rest, found := strings.CutPrefix(c.Text, Directive)
	if !found || (rest != "" && !unicode.IsSpace(rune(rest[0]))) {
		return nil, false, nil
	}
	inv, err = Parse(rest, c.Slash+token.Pos(len(Directive)))
	return inv, true, err
}

// Parse parses the text of an invocation: an optional '!', a capability, ':' and a list of types.
// pos is the position of the first byte of text, positions in the invocation are computed from it.
// Anything following "//" in text is a comment and is ignored, as is a trailing /* comment */.
// A /* comment */ between subjects is skipped by the type list parser.
func Parse(text string, pos token.Pos) (*Invocation, error) {
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	if t := strings.TrimRightFunc(text, unicode.IsSpace); strings.HasSuffix(t, "*/") {
		if i := strings.LastIndex(t, "/*"); i >= 0 {
			text = t[:i]
		}
	}
	sep := strings.IndexByte(text, ':')
	if sep < 0 {
		return nil, &ParseError{Pos: pos, Msg: "expected ':' after capability"}
	}
	inv := &Invocation{Pos: pos}
	capText, capOffset := trimSpace(text[:sep], 0)
	if rest, found := strings.CutPrefix(capText, "!"); found {
		inv.Polarity = Negative
		capText, capOffset = trimSpace(rest, capOffset+1)
	}
	capPos := pos + token.Pos(capOffset)
	switch {
	case capText == "":
		return nil, &ParseError{Pos: capPos, Msg: "expected capability before ':'"}
	case strings.HasPrefix(capText, "!"):
		return nil, &ParseError{Pos: capPos, Msg: "unexpected '!' in capability"}
	}
	if _, err := parser.ParseExpr(capText); err != nil {
		return nil, &ParseError{Pos: capPos, Msg: fmt.Sprintf("invalid capability %q", capText)}
	}
	inv.Capability = TypeExpr{Expr: capText, Pos: capPos}
	subjects, err := parseSubjects(text[sep+1:], pos+token.Pos(sep+1))
	if err != nil {
		return nil, err
	}
	inv.Subjects = subjects
	return inv, nil
}

// Wrapping the list as call arguments lets go/parser split it at top-level commas
// and accept a trailing comma.
const callPrefix = "_("

func parseSubjects(list string, pos token.Pos) ([]TypeExpr, error) {
	if t := strings.TrimSpace(list); t == "" || t == "," {
		return nil, &ParseError{Pos: pos, Msg: "expected at least one type"}
	}
	src := callPrefix + list + ")"
	fset := token.NewFileSet()
	x, err := parser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		offset := 0
		var errs scanner.ErrorList
		if errors.As(err, &errs) && len(errs) > 0 {
			err = errs[0]
			offset = max(errs[0].Pos.Offset-len(callPrefix), 0)
		}
		return nil, &ParseError{Pos: pos + token.Pos(offset), Msg: fmt.Sprintf("invalid type list: %v", msgOf(err))}
	}
	call, ok := x.(*ast.CallExpr)
	if !ok || call.Ellipsis.IsValid() || fset.Position(call.Rparen).Offset != len(src)-1 {
		return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid type list %q", strings.TrimSpace(list))}
	}
	if fun, ok := call.Fun.(*ast.Ident); !ok || fun.Name != "_" {
		return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid type list %q", strings.TrimSpace(list))}
	}
	if len(call.Args) == 0 {
		return nil, &ParseError{Pos: pos, Msg: "expected at least one type"}
	}
	subjects := make([]TypeExpr, len(call.Args))
	for i, arg := range call.Args {
		start := fset.Position(arg.Pos()).Offset - len(callPrefix)
		end := fset.Position(arg.End()).Offset - len(callPrefix)
		subjects[i] = TypeExpr{Expr: list[start:end], Pos: pos + token.Pos(start)}
	}
	return subjects, nil
}

// trimSpace trims s and returns the new offset of its first byte.
func trimSpace(s string, offset int) (string, int) {
	t := strings.TrimLeftFunc(s, unicode.IsSpace)
	return strings.TrimRightFunc(t, unicode.IsSpace), offset + len(s) - len(t)
}

func msgOf(err error) string {
	if e, ok := err.(*scanner.Error); ok {
		return e.Msg
	}
	return err.Error()
}
