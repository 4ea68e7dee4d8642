// Copyright: This file is part of assertimpl, released under https://github.com/korrel8r/assertimpl/blob/main/LICENSE

package main

import (
	"fmt"

	"github.com/korrel8r/assertimpl/pkg/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of this command.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
