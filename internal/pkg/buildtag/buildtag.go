// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// package buildtag finds the build constraints of Go source files.
package buildtag

import (
	"go/ast"
	"go/build"
	"go/build/constraint"
	"io"
	"strings"
)

// File returns the constraint of a parsed source file named name: its //go:build line
// and its GOOS/GOARCH file name suffix. Returns nil if the file is not constrained.
func File(name string, f *ast.File) (constraint.Expr, error) {
	var x constraint.Expr
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}
		for _, c := range group.List {
			if constraint.IsGoBuild(c.Text) {
				var err error
				if x, err = constraint.Parse(c.Text); err != nil {
					return nil, err
				}
			}
		}
	}
	return And(x, FileName(name)), nil
}

// FileName returns the constraint implied by a GOOS or GOARCH suffix of a file name,
// following the go/build rules. Returns nil if there is none.
//
// Examples: x_linux.go is "linux", x_linux_arm64.go is "linux && arm64", x_arm64_test.go is "arm64".
func FileName(name string) constraint.Expr {
	stem, _, _ := strings.Cut(name, ".")
	i := strings.Index(stem, "_")
	if i < 0 {
		return nil
	}
	l := strings.Split(stem[i:], "_")
	if n := len(l); n > 0 && l[n-1] == "test" {
		l = l[:n-1]
	}
	n := len(l)
	if n >= 2 && isOS(l[n-2]) && isArch(l[n-1]) {
		return And(tag(l[n-2]), tag(l[n-1]))
	}
	if n >= 1 && isKnown(l[n-1]) {
		return tag(l[n-1])
	}
	return nil
}

// And returns the conjunction of the non-nil expressions, nil if there are none.
func And(exprs ...constraint.Expr) constraint.Expr {
	var and constraint.Expr
	for _, x := range exprs {
		switch {
		case x == nil:
		case and == nil:
			and = x
		default:
			and = &constraint.AndExpr{X: and, Y: x}
		}
	}
	return and
}

func tag(s string) constraint.Expr { return &constraint.TagExpr{Tag: s} }

// go/build does not export its GOOS and GOARCH lists, they are probed with Context.MatchFile.

// matches reports whether a file named x_<suffix>.go is selected for goos and goarch.
func matches(goos, goarch, suffix string) bool {
	ctxt := build.Context{
		GOOS:     goos,
		GOARCH:   goarch,
		Compiler: "gc",
		OpenFile: func(string) (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("package x\n")), nil },
	}
	ok, err := ctxt.MatchFile("", "x_"+suffix+".go")
	return err == nil && ok
}

const none = "none"

// isKnown is true if s is a known GOOS or GOARCH.
func isKnown(s string) bool { return s != "" && s != none && !matches(none, none, s) }

// isOS is true if s is a known GOOS.
// The GOOS in x_<goos>_<goarch>.go must match, a GOARCH in that position is ignored.
func isOS(s string) bool { return isKnown(s) && !matches(none, "amd64", s+"_amd64") }

// isArch is true if s is a known GOARCH.
func isArch(s string) bool { return isKnown(s) && !isOS(s) }
