// cmd/client/cmd/vault/unlock.go
package vault

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var UnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the store",
	Long: `Unlocks the store with the master password.

On first use this creates the key and encrypts every existing note.
Choose the password carefully; without it the data cannot be recovered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.FromContext(cmd.Context())

		status, err := c.VaultStatus(cmd.Context())
		if err != nil {
			return err
		}

		password, err := readPassword("Master password: ")
		if err != nil {
			return err
		}

		if !status.HasKey {
			confirm, err := readPassword("Repeat master password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
		}

		result, err := c.Unlock(cmd.Context(), password)
		if err != nil {
			return err
		}

		if result.IsNewKey {
			color.Green("✓ encryption enabled, store unlocked")
		} else {
			color.Green("✓ store unlocked")
		}

		return nil
	},
}
