// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"go/token"
	"io"
	"slices"

	"github.com/korrel8r/assertimpl/internal/pkg/enumflag"
	"github.com/korrel8r/assertimpl/internal/pkg/must"
	"github.com/korrel8r/assertimpl/pkg/assertimpl"
	"github.com/korrel8r/assertimpl/pkg/load"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [PACKAGES]",
		Short: "Check assertions in packages and print failures.",
		Long: `Check assertions in packages and print failures, default package is ".".
Exit status is 1 if any assertion fails or is malformed.`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			pkgs := must.Must1(load.Packages(cmd.Context(), load.NewOptions(c, "", !c.SkipTests), patterns(args)...))
			findings := must.Must1(checkPackages(cmd.Context(), c.Parallel(), pkgs))
			must.Must(printFindings(cmd.OutOrStdout(), checkOutput.Value, findings))
			must.Must(must.ErrorIf(len(findings) > 0, "%v failed assertions", len(findings)))
		},
	}
	checkOutput = enumflag.New("text", "json")
)

func init() {
	checkCmd.Flags().VarP(checkOutput, "output", "o", checkOutput.DocString("Output format"))
	rootCmd.AddCommand(checkCmd)
}

// Finding is a diagnostic with its source position.
type Finding struct {
	File    string          `json:"file"`
	Line    int             `json:"line"`
	Column  int             `json:"column"`
	Kind    assertimpl.Kind `json:"kind"`
	Message string          `json:"message"`
}

func newFinding(fset *token.FileSet, d assertimpl.Diagnostic) Finding {
	p := fset.Position(d.Pos)
	return Finding{File: p.Filename, Line: p.Line, Column: p.Column, Kind: d.Kind, Message: d.Message}
}

func (f Finding) String() string {
	return fmt.Sprintf("%v:%v:%v: %v", f.File, f.Line, f.Column, f.Message)
}

func compareFindings(a, b Finding) int {
	return cmp.Or(cmp.Compare(a.File, b.File), cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
}

// checkPackages checks packages concurrently.
// Packages loaded with tests share files with their test variants, duplicate findings are dropped.
func checkPackages(ctx context.Context, jobs int, pkgs []*packages.Package) ([]Finding, error) {
	results := make([][]Finding, len(pkgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range pkgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.V(1).Info("Checking package", "package", p.ID)
			for _, d := range assertimpl.Run(p.Fset, p.Syntax, p.Types) {
				results[i] = append(results[i], newFinding(p.Fset, d))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	seen := map[Finding]bool{}
	var findings []Finding
	for _, r := range results {
		for _, f := range r {
			if !seen[f] {
				seen[f] = true
				findings = append(findings, f)
			}
		}
	}
	slices.SortStableFunc(findings, compareFindings)
	return findings, nil
}

func printFindings(w io.Writer, format string, findings []Finding) error {
	if format == "json" {
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(findings)
	}
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}
