package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(installCmd)
}

// installCmd downloads and extracts the emulator distribution.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and extract the emulator distribution",
	Long: `Download the emulator distribution archive and extract it into the
install path. No-op if the runtime is already installed, so it is safe to
run from provisioning scripts.

Example:
  dynamolocal install --install-path /opt/dynamolocal`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mgr := newManager()
		defer func() { _ = mgr.Close() }()

		if mgr.IsInstalled() {
			cmd.Println("already installed")
			return nil
		}
		if err := mgr.Install(cmd.Context()); err != nil {
			return fmt.Errorf("install: %w", err)
		}
		cmd.Println("installed")
		return nil
	},
}
