// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// Package enumflag is custom flag value that allows one of a list of strings.
// Implements standard flag.Value and cobra pflag.Value
package enumflag

import (
	"fmt"
	"slices"
	"strings"
)

type Value struct {
	Value   string
	Allowed []string
}

func (v *Value) String() string { return v.Value }

func (v *Value) Set(x string) error {
	if !slices.Contains(v.Allowed, x) {
		return fmt.Errorf("expected one of: %v", v.Allowed)
	}
	v.Value = x
	return nil
}

// DocString returns msg followed by the allowed values.
func (v *Value) DocString(msg string) string {
	w := &strings.Builder{}
	if msg != "" {
		fmt.Fprintf(w, "%v: ", msg)
	}
	fmt.Fprintf(w, "one of %v", strings.Join(v.Allowed, ", "))
	return w.String()
}

func (v *Value) Type() string { return "string" }

// New returns a value with the first allowed value as default.
func New(allowed ...string) *Value {
	return &Value{Allowed: allowed, Value: allowed[0]}
}
