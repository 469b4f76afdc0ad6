// cmd/client/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"clipvault/internal/app/client"
	"clipvault/internal/config"
	"clipvault/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	cli       *client.Client
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "clipvault",
	Short: "Clipvault - capture and search encrypted notes",
	Long: `Clipvault is the command line companion of the capture daemon.

Snippets are stored by the local daemon in an encrypted SQLite store
with full version history. Use it to capture text, search past notes
and manage the store's master password.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.New()

	if serverURL != "" {
		cfg.Client.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)
	cli = client.New(cfg.Client.ServerAddress, log)

	cmd.SetContext(client.WithContext(cmd.Context(), cli))

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "address of the clipvault daemon")
}
