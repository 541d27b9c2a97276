package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncar-xdev/ecgtools/internal/parsers"
)

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List the built-in attribute parsers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range parsers.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(parsersCmd)
}
