package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the module version and its dependencies",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Fprintln(out, "build information unavailable")
			return
		}
		fmt.Fprintf(out, "%s %s\n", info.Main.Path, info.Main.Version)
		for _, dep := range info.Deps {
			fmt.Fprintf(out, "  %s %s\n", dep.Path, dep.Version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
