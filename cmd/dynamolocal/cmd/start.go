package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/dynamolocal"
)

var (
	flagPort     int
	flagDBPath   string
	flagInMemory bool
	flagLogDir   string
	flagDetached bool
	flagJavaOpts []string
	flagArgs     []string
	flagFreshDB  bool
	flagCheckDB  bool
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().IntVarP(&flagPort, "port", "p", 8000, "port to bind the emulator to")
	startCmd.Flags().StringVar(&flagDBPath, "db-path", "", "persist tables to this directory")
	startCmd.Flags().BoolVar(&flagInMemory, "in-memory", false, "keep tables in memory (default)")
	startCmd.Flags().StringVar(&flagLogDir, "log-dir", "", "redirect emulator output to log files in this directory")
	startCmd.Flags().BoolVarP(&flagDetached, "detached", "d", false, "leave the emulator running after this command exits")
	startCmd.Flags().StringSliceVar(&flagJavaOpts, "java-option", nil, "extra JVM option (repeatable)")
	startCmd.Flags().StringSliceVar(&flagArgs, "arg", nil, "extra emulator argument (repeatable)")
	startCmd.Flags().BoolVar(&flagFreshDB, "fresh-database", false, "remove stale database files before starting (requires --db-path)")
	startCmd.Flags().BoolVar(&flagCheckDB, "check-database", false, "verify existing database files before starting (requires --db-path)")
	startCmd.MarkFlagsMutuallyExclusive("db-path", "in-memory")
}

// startLaunchOptions translates the start flags into launch options.
func startLaunchOptions() []dynamolocal.LaunchOption {
	var opts []dynamolocal.LaunchOption
	if flagDBPath != "" {
		opts = append(opts, dynamolocal.WithDBPath(flagDBPath))
	}
	if flagLogDir != "" {
		opts = append(opts, dynamolocal.WithLogDir(flagLogDir))
	}
	if flagDetached {
		opts = append(opts, dynamolocal.WithDetached())
	}
	if len(flagJavaOpts) > 0 {
		opts = append(opts, dynamolocal.WithJavaOptions(flagJavaOpts...))
	}
	if len(flagArgs) > 0 {
		opts = append(opts, dynamolocal.WithArgs(flagArgs...))
	}
	if flagFreshDB {
		opts = append(opts, dynamolocal.WithFreshDatabase())
	}
	if flagCheckDB {
		opts = append(opts, dynamolocal.WithDBIntegrityCheck())
	}
	return opts
}

// startCmd launches the emulator, installing it first if needed.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Launch the emulator",
	Long: `Launch the emulator on the given port, installing the runtime first if
needed. By default the command stays in the foreground and stops the
emulator on SIGINT or SIGTERM; with --detached it prints the PID and
returns, leaving the emulator running.

Examples:
  dynamolocal start --port 8000
  dynamolocal start --port 8000 --db-path /var/data/ddb --fresh-database
  dynamolocal start --detached`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mgr := newManager()
		defer func() { _ = mgr.Close() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		inst, err := mgr.Launch(ctx, flagPort, startLaunchOptions()...)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		if err := inst.WaitReady(ctx); err != nil {
			return fmt.Errorf("start: %w", err)
		}
		cmd.Printf("emulator ready at %s (pid %d)\n", inst.Endpoint(), inst.PID())

		if flagDetached {
			return nil
		}

		select {
		case <-ctx.Done():
			cmd.Println("shutting down")
		case <-inst.Exited():
			if exitErr := inst.ExitErr(); exitErr != nil {
				return fmt.Errorf("emulator exited: %w", exitErr)
			}
			cmd.Println("emulator exited")
		}
		return mgr.Close()
	},
}
