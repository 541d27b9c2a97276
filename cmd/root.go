// Package cmd wires the catalog builder into a CLI: a build command
// driven by flags or a YAML spec, plus small introspection commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ecgtools",
	Short:         "Build data catalogs from directory trees of climate model output",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
