// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

// Command assertimpl checks //assertimpl:check assertions and generates code to enforce them at compile time.
package main

import (
	"fmt"
	"os"

	"github.com/korrel8r/assertimpl/internal/pkg/logging"
	"github.com/korrel8r/assertimpl/internal/pkg/must"
	"github.com/korrel8r/assertimpl/pkg/build"
	"github.com/korrel8r/assertimpl/pkg/config"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "assertimpl",
		Short: "Static assertions that types do, or do not, satisfy interfaces",
		Long: `Static assertions that types do, or do not, satisfy interfaces.

Assertions are comment directives in Go source:

  //assertimpl:check Capability: T1, T2, ...
  //assertimpl:check !Capability: T1, T2, ...

A trailing comma after the last type is allowed.`,
		Version: build.Version,
	}
	log = logging.Log()

	// Global Flags
	verbose    *int
	configFile *string
	tags       *[]string
	panicOnErr *bool
)

func init() {
	panicOnErr = rootCmd.PersistentFlags().Bool("panic", false, "panic on error instead of exit code 1")
	verbose = rootCmd.PersistentFlags().IntP("verbose", "v", 0, "Verbosity for logging")
	configFile = rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("Configuration file (default %v if present)", config.DefaultFile))
	tags = rootCmd.PersistentFlags().StringSlice("tags", nil, "Build tags for loading packages, added to tags in the configuration")

	cobra.OnInitialize(func() { logging.Init(*verbose) }) // After flags are parsed
}

// loadConfig loads the configuration and applies command line flags.
func loadConfig() *config.Config {
	c := must.Must1(config.Load(*configFile))
	c.Tags = append(c.Tags, *tags...)
	return c
}

// patterns defaults to the current directory.
func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func main() {
	// Code in this package panics with an error to exit.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, r)
			if *panicOnErr {
				panic(r)
			}
			os.Exit(1)
		}
		os.Exit(0)
	}()
	must.Must(rootCmd.Execute())
}
