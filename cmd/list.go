package cmd

import (
	"github.com/spf13/cobra"

	"parity.dev/pkg/parity/internal/domain"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List the cases of the catalog",
		Long: `List the cases a run would schedule, with their weights and descriptions.

` + patternHelp,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{
				Corpus: corpusFromConfig(),
				Query:  queryFrom(args),
			})
		},
	}
}
