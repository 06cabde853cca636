package main

import (
	"os"

	"github.com/calyx-lang/calyx/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "calyx [subcommand]",
	Short:        "calyx 🌺\n an embeddable object-model runtime for guest languages",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.MroCmd)
	rootCmd.AddCommand(cmd.MembersCmd)
}
