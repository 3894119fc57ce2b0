package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/specbasis/specbasis/basics"
	"github.com/specbasis/specbasis/config"
	"github.com/specbasis/specbasis/framework"
	"github.com/specbasis/specbasis/testjson"

	"github.com/spf13/cobra"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

const (
	exitSuccess     = 0
	exitSpecFailure = 1
	exitIncomplete  = 2
	exitConfigError = 3
	exitUsageError  = 64
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func main() {
	loggers := ldlog.NewDefaultLoggers()
	err := newRootCommand(&loggers).Execute()
	if err == nil {
		os.Exit(exitSuccess)
	}
	var e exitError
	if errors.As(err, &e) {
		if e.err != nil {
			loggers.Error(e.err)
		}
		os.Exit(e.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitUsageError)
}

func newRootCommand(loggers *ldlog.Loggers) *cobra.Command {
	root := &cobra.Command{
		Use:           "specbasis",
		Short:         "Runs the tutorial specs with a colored console reporter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var runParams commandParams
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tutorial specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecs(cmd, &runParams, loggers)
		},
	}
	runParams.addRunFlags(runCmd.Flags())

	var reportParams commandParams
	reportCmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Print the output of go test -json with the console reporter",
		Long: `Reads the events written by "go test -json" from the named file, or from standard
input when no file or "-" is given, and prints them the way the run command does.

  go test -json ./... | specbasis report`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportTestJSON(cmd, args, &reportParams, loggers)
		},
	}
	reportParams.addReportFlags(reportCmd.Flags())

	root.AddCommand(runCmd, reportCmd)
	return root
}

func configureLogging(loggers *ldlog.Loggers, debug bool) framework.Logger {
	if !debug {
		loggers.SetMinLevel(ldlog.Info)
		return framework.NullLogger()
	}
	loggers.SetMinLevel(ldlog.Debug)
	return loggers.ForLevel(ldlog.Debug)
}

func runSpecs(cmd *cobra.Command, params *commandParams, loggers *ldlog.Loggers) error {
	debugLogger := configureLogging(loggers, params.debug)
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	if err := config.LoadDotEnv(params.envFile, flags.Changed("env-file")); err != nil {
		return exitError{code: exitConfigError, err: err}
	}
	cfg, err := config.Load(params.configPath)
	if err != nil {
		return exitError{code: exitConfigError, err: err}
	}
	if cfg.Path != "" {
		debugLogger.Printf("Loaded config from %s", cfg.Path)
	}

	if flags.Changed("random") {
		cfg.Random = params.random
	}
	if flags.Changed("no-color") {
		cfg.NoColor = params.noColor
	}
	filters, err := cfg.Filters()
	if err != nil {
		return exitError{code: exitConfigError, err: err}
	}
	filters.MustMatch.Append(params.filters.MustMatch)
	filters.MustNotMatch.Append(params.filters.MustNotMatch)

	runConfig := cfg.RunConfig(filters, func() int64 { return time.Now().UnixNano() % 100000 })
	if flags.Changed("seed") {
		runConfig.Seed = params.seed
	}

	env := framework.NewEnv(runConfig, debugLogger)
	switch params.reporter {
	case reporterConsole:
		// the console reporter replaces the default one rather than adding to it
		env.ClearReporters()
		env.AddReporter(framework.NewConsoleReporter(
			framework.WithWriter(out),
			framework.WithNoColor(cfg.NoColor),
			framework.WithDebugOutput(params.debugOutput, false),
		))
	case reporterDots:
		env.ClearReporters()
		env.AddReporter(framework.NewDotReporter(out))
	default:
		return exitError{code: exitUsageError, err: fmt.Errorf("unknown reporter %q", params.reporter)}
	}

	fmt.Fprintln(out)
	filters.Describe(out)

	result := env.Execute(basics.Suite())
	return finish(out, result, func() string {
		return rerunCommand(filepath.Base(os.Args[0]), params.configPath, result.Failures)
	})
}

func reportTestJSON(cmd *cobra.Command, args []string, params *commandParams, loggers *ldlog.Loggers) error {
	debugLogger := configureLogging(loggers, params.debug)

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return exitError{code: exitUsageError, err: err}
		}
		defer f.Close()
		in = f
	}

	collector, err := testjson.Read(in)
	if err != nil {
		return exitError{code: exitUsageError, err: err}
	}
	debugLogger.Printf("Collected %d tests", collector.SpecCount())

	cfg := config.Config{NoColor: params.noColor}
	if !cmd.Flags().Changed("no-color") {
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return exitError{code: exitConfigError, err: err}
		}
	}
	reporter := framework.NewConsoleReporter(
		framework.WithWriter(cmd.OutOrStdout()),
		framework.WithNoColor(cfg.NoColor),
	)
	result := collector.Replay(reporter)
	return finish(cmd.OutOrStdout(), result, nil)
}

func finish(out io.Writer, result framework.RunResult, rerun func() string) error {
	switch result.OverallStatus {
	case framework.OverallPassed:
		return nil
	case framework.OverallIncomplete:
		fmt.Fprintf(out, "\nIncomplete: %s\n", result.IncompleteReason)
		return exitError{code: exitIncomplete}
	default:
		if rerun != nil {
			fmt.Fprintf(out, "\nTo run the failed specs again:\n  %s\n", rerun())
		}
		return exitError{code: exitSpecFailure}
	}
}
