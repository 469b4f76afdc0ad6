// cmd/client/cmd/vault/lock.go
package vault

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var LockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the store",
	Long:  `Drops the daemon's in-memory key. Notes remain encrypted on disk until the next unlock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.FromContext(cmd.Context())

		if err := c.Lock(cmd.Context()); err != nil {
			return err
		}

		color.Green("✓ store locked")

		return nil
	},
}
