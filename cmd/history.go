package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"parity.dev/pkg/parity/internal/domain"
	m "parity.dev/pkg/parity/internal/model"
)

var historyLimitFlag int
var historyRunFlag string

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously recorded runs",
		Long: `Show the runs recorded in the history ledger, newest first. With --run,
show the case results of a single run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.History(cmd.Context(), domain.HistoryArgs{
				History: m.Path(viper.GetString(historyPathKey)),
				Limit:   historyLimitFlag,
				RunID:   historyRunFlag,
			})
		},
	}

	cmd.Flags().IntVarP(&historyLimitFlag, limitFlagName, "n", defaultHistoryLimit, "number of runs to show (0 shows all)")
	cmd.Flags().StringVar(&historyRunFlag, runIDFlagName, "", "show the case results of the run with this ID")

	return cmd
}
