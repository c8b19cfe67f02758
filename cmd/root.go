// Package cmd provides the root command and CLI setup for parity.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"parity.dev/pkg/parity/internal/adapter"
	"parity.dev/pkg/parity/internal/controller"
	"parity.dev/pkg/parity/internal/domain"
)

var workflow domain.Workflow
var ui controller.UI

func init() {
	configureRootFlags(rootCmd)

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newHistoryCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	// Initialize shared dependencies.
	osFs := afero.NewOsFs()
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	workflow = domain.NewWorkflow(
		osFs,
		adapter.NewCatalogLoader(osFs),
		adapter.NewRunLocker(),
		adapter.NewLocalToolInvoker(viper.GetDuration(runProcessLimitKey)),
		adapter.NewToolResolver(),
		adapter.NewSummaryStore(),
		domain.OpenSQLiteHistory,
		ui,
	)
}

const patternHelp = `An optional pattern selects cases whose name or description fuzzily
matches it. Filtered runs never overwrite the summary file.`

const rootLongDescription = `Parity builds every case of a corpus with a trusted reference toolchain
and with the candidate toolchain under test, runs both executables and
compares their output.

` + patternHelp

const runLongDescription = `Run the corpus (default: every case of the catalog).

` + patternHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "parity [pattern]",
		Short:             "Differential test harness for compiler toolchains",
		Long:              rootLongDescription,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setupCommand,
		RunE:              runTests,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP(dirFlagName, "d", viper.GetString(corpusDirKey), "corpus directory holding the case sources")
	bindFlagToConfig(flags.Lookup(dirFlagName), corpusDirKey)

	flags.IntP(parallelFlagName, "p", viper.GetInt(runParallelKey), "maximum number of cases run at once (0 runs all cases at once)")
	bindFlagToConfig(flags.Lookup(parallelFlagName), runParallelKey)

	flags.Duration(maxTimeFlagName, viper.GetDuration(runMaxTimeKey), "time limit for the candidate build and each executable run")
	bindFlagToConfig(flags.Lookup(maxTimeFlagName), runMaxTimeKey)

	flags.Bool(noColorFlagName, viper.GetBool(reportNoColorKey), "disable colored output")
	bindFlagToConfig(flags.Lookup(noColorFlagName), reportNoColorKey)

	flags.BoolP(verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.String(logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// setupCommand runs after argument validation, so usage is only printed for
// usage errors.
func setupCommand(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	if configErr != nil {
		return configErr
	}

	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	if viper.GetBool(reportNoColorKey) {
		color.NoColor = true
	}

	slog.Debug("Configuration loaded", "file", viper.ConfigFileUsed(), "command", cmd.Name())

	return nil
}

func runTests(cmd *cobra.Command, args []string) error {
	testArgs, err := testArgsFromConfig(queryFrom(args))
	if err != nil {
		return err
	}

	slog.Info("Starting run",
		"corpus", testArgs.Corpus.Dir,
		"query", testArgs.Query,
		"parallel", testArgs.Parallel,
		"reference", testArgs.Toolchain.Reference,
		"candidate", testArgs.Toolchain.Candidate)

	return workflow.Test(cmd.Context(), testArgs)
}

func queryFrom(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
