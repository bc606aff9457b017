// Package cmd provides the CLI commands for dynamolocal.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/dynamolocal"
)

var (
	flagInstallPath string
	flagDownloadURL string
	flagJavaBinary  string
	flagVerbose     bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "dynamolocal",
	Short: "Run a local DynamoDB-compatible emulator",
	Long: `dynamolocal downloads, installs, and runs a locally-hosted
DynamoDB-compatible emulator as a child process.

The emulator distribution is fetched on first use and cached under the
install path, so repeated runs start immediately.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		dynamolocal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagInstallPath, "install-path", "",
		"directory for the extracted emulator runtime (default: temp dir)")
	rootCmd.PersistentFlags().StringVar(&flagDownloadURL, "download-url", "",
		"archive source: HTTP(S) URL or local file path")
	rootCmd.PersistentFlags().StringVar(&flagJavaBinary, "java", "",
		"Java runtime to launch the emulator with (default: java from PATH)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

// newManager builds a Manager from the persistent flags.
func newManager() dynamolocal.Manager {
	var opts []dynamolocal.ManagerOption
	if flagInstallPath != "" {
		opts = append(opts, dynamolocal.WithInstallPath(flagInstallPath))
	}
	if flagDownloadURL != "" {
		opts = append(opts, dynamolocal.WithDownloadURL(flagDownloadURL))
	}
	if flagJavaBinary != "" {
		opts = append(opts, dynamolocal.WithJavaBinary(flagJavaBinary))
	}
	return dynamolocal.NewManager(opts...)
}
