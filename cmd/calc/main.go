package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/calcclient"
	"go-chi-calculator/internal/cli"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/form"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/tui"
)

var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if errors.Is(err, cli.ErrNoResult) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculator client",
	Long: `calc is a terminal client for the calculator service.

Run without arguments to open the interactive form, or use eval for a
single calculation.

Examples:
  calc                                 # Start the interactive form
  calc eval add 2 3                    # Print "2 + 3 =" and 5
  calc eval divide 1 0 -o json         # Report the service error as JSON
  calc --server http://calc:8080 ops   # List supported operations`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// runRoot is attached to rootCmd in init to avoid an initialization cycle
// (setup -> defaultLogPaths -> rootCmd).
func runRoot(cmd *cobra.Command, args []string) error {
	cfg, shutdown, err := setup(cmd)
	if err != nil {
		return err
	}
	defer shutdown(cmd.Context())

	client := calcclient.New(cfg.ServerURL)
	return tui.Run(cmd.Context(), client, form.Options{StrictInput: cfg.StrictInput})
}

var evalCmd = &cobra.Command{
	Use:   "eval <operation> <x> <y>",
	Short: "Run one calculation and print the result",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := setup(cmd)
		if err != nil {
			return err
		}
		defer shutdown(cmd.Context())

		opts := cli.EvalOptions{
			Operation: args[0],
			X:         args[1],
			Y:         args[2],
			Format:    flagOutput,
			Strict:    cfg.StrictInput,
			Progress:  cmd.ErrOrStderr(),
		}
		return cli.Eval(cmd.Context(), calcclient.New(cfg.ServerURL), opts, cmd.OutOrStdout())
	},
}

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the operations the service supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := setup(cmd)
		if err != nil {
			return err
		}
		defer shutdown(cmd.Context())

		ops, err := calcclient.New(cfg.ServerURL).Operations(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ops, "\n"))
		return err
	},
}

var flagOutput string

func init() {
	rootCmd.RunE = runRoot

	rootCmd.PersistentFlags().String("server", "", "Calculator service base URL (env CALC_SERVER_URL)")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject non-numeric operands before sending (env CALC_STRICT_INPUT)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file (env CALC_LOG_FILE)")

	evalCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(opsCmd)
}

// setup loads the client configuration and starts logging and telemetry.
func setup(cmd *cobra.Command) (config.Client, func(context.Context), error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Client{}, nil, err
	}

	cfg, err := config.LoadClient(cmd.Flags())
	if err != nil {
		return config.Client{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	observability.DefaultServiceName = "calculator-tui"

	logPaths := defaultLogPaths(cmd)
	if cfg.LogFile != "" {
		logPaths = []string{cfg.LogFile}
	}
	if err := observability.InitLogger(observability.LogConfig{OutputPaths: logPaths}); err != nil {
		return config.Client{}, nil, err
	}

	var shutdowns []func(context.Context) error
	if cfg.TelemetryEnabled {
		for _, start := range []func(context.Context) (func(context.Context) error, error){
			observability.InitTracing,
			observability.InitMetrics,
		} {
			fn, err := start(cmd.Context())
			if err != nil {
				return config.Client{}, nil, err
			}
			shutdowns = append(shutdowns, fn)
		}
	}

	shutdown := func(ctx context.Context) {
		for i := len(shutdowns) - 1; i >= 0; i-- {
			_ = shutdowns[i](ctx)
		}
		observability.SyncLogger()
	}

	return cfg, shutdown, nil
}

// defaultLogPaths is where logs go without a configured log file. The
// interactive form owns the terminal, so it logs to a file in the user cache
// directory; one-shot commands log to stderr.
func defaultLogPaths(cmd *cobra.Command) []string {
	if cmd != rootCmd {
		return []string{"stderr"}
	}

	dir := os.TempDir()
	if cache, err := os.UserCacheDir(); err == nil {
		if err := os.MkdirAll(filepath.Join(cache, "calc"), 0o755); err == nil {
			dir = filepath.Join(cache, "calc")
		}
	}
	return []string{filepath.Join(dir, "calc.log")}
}
