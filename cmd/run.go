package cmd

import (
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [pattern]",
		Short: "Run the corpus against both toolchains",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTests,
	}
}
