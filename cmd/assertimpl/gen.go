// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/korrel8r/assertimpl/internal/pkg/must"
	"github.com/korrel8r/assertimpl/pkg/config"
	"github.com/korrel8r/assertimpl/pkg/generate"
	"github.com/korrel8r/assertimpl/pkg/load"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

var (
	genCmd = &cobra.Command{
		Use:   "gen [PACKAGES]",
		Short: "Generate code so the compiler enforces positive assertions.",
		Long: fmt.Sprintf(`Generate code so the compiler enforces positive assertions, default package is ".".

Writes a file (default %v) in each package with assertions, removes it from packages without.
Assertions in a source file with build constraints are written to a separate file with the same constraints.
Negative assertions are listed in the file but can only be checked with go vet:

  go vet -vettool=$(which assertimpl-vet) ./...

To run with go generate add this line to one file in the package:

  //go:generate go run github.com/korrel8r/assertimpl/cmd/assertimpl gen`, config.DefaultOutput),
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			pkgs := must.Must1(load.Packages(cmd.Context(), load.NewOptions(c, "", false), patterns(args)...))
			gen := generate.New(c)
			for _, p := range must.Must1(generatePackages(cmd.Context(), gen, c.Parallel(), pkgs)) {
				if *genDryRun {
					for _, f := range p.files {
						fmt.Fprintf(cmd.OutOrStdout(), "// %v\n%s", filepath.Join(p.dir, f.Name), f.Src)
					}
					continue
				}
				for _, r := range must.Must1(gen.Sync(p.dir, p.files, p.ignored)) {
					if r.Action != generate.Unchanged {
						log.Info("Generated file", "file", r.Path, "action", r.Action)
					}
				}
			}
		},
	}
	genDryRun *bool
)

func init() {
	genDryRun = genCmd.Flags().Bool("dry-run", false, "Print generated files instead of writing them")
	rootCmd.AddCommand(genCmd)
}

// genPackage is the generated files for a package directory.
type genPackage struct {
	dir     string
	files   []generate.File
	ignored []string // Base names of files excluded by build constraints.
}

// generatePackages generates concurrently, results are in package order.
func generatePackages(ctx context.Context, gen *generate.Generator, jobs int, pkgs []*packages.Package) ([]genPackage, error) {
	results := make([]genPackage, len(pkgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range pkgs {
		if len(p.GoFiles) == 0 {
			continue
		}
		results[i].dir = filepath.Dir(p.GoFiles[0])
		for _, f := range p.IgnoredFiles {
			results[i].ignored = append(results[i].ignored, filepath.Base(f))
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.V(1).Info("Generating package", "package", p.ID)
			files, err := gen.Generate(p.Fset, p.Syntax, p.Types)
			if err != nil {
				return fmt.Errorf("%v: %w", p.PkgPath, err)
			}
			results[i].files = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(results, func(p genPackage) bool { return p.dir == "" }), nil
}
