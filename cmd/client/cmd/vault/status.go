// cmd/client/cmd/vault/status.go
package vault

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show encryption status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.FromContext(cmd.Context())

		status, err := c.VaultStatus(cmd.Context())
		if err != nil {
			return err
		}

		if !status.IsEnabled {
			color.Yellow("Encryption: disabled (notes are stored in plaintext)")
			if status.HasKey {
				color.Yellow("A key file exists; run 'clipvault vault unlock' to finish enabling encryption")
			}
			return nil
		}

		color.Green("Encryption: enabled")
		if status.Unlocked {
			color.Green("Store: unlocked")
		} else {
			color.Red("Store: locked")
		}

		return nil
	},
}
