// cmd/client/cmd/vault/change_password.go
package vault

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var ChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Rotate the master password",
	Long: `Changes the master password. Every stored note and history entry is
re-encrypted under the new key in a single transaction; an interruption
at any point leaves the store recoverable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.FromContext(cmd.Context())

		oldPassword, err := readPassword("Current master password: ")
		if err != nil {
			return err
		}

		newPassword, err := readPassword("New master password: ")
		if err != nil {
			return err
		}

		confirm, err := readPassword("Repeat new master password: ")
		if err != nil {
			return err
		}

		if newPassword != confirm {
			return fmt.Errorf("passwords do not match")
		}
		if len(newPassword) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		if err := c.ChangePassword(cmd.Context(), oldPassword, newPassword); err != nil {
			return err
		}

		color.Green("✓ master password changed")

		return nil
	},
}
