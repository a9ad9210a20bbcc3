package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the capabilities texprobe knows about",
	Long: `List every capability in the registry without probing anything.
Names printed here are valid arguments to 'texprobe check'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := newRegistry()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		probes := reg.AllProbes()
		fmt.Printf("Known capabilities (%d total):\n\n", len(probes))
		for _, p := range probes {
			fmt.Printf("  %-28s %s\n", p.Name(), p.Kind())
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
