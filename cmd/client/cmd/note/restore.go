// cmd/client/cmd/note/restore.go
package note

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var RestoreCmd = &cobra.Command{
	Use:   "restore <id> <version>",
	Short: "Restore a past version",
	Long: `Brings a note back to the state it had at the given version. The
restore is recorded as a new version, so nothing is lost. Restoring a
deleted note revives it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		version, err := strconv.Atoi(args[1])
		if err != nil || version <= 0 {
			return fmt.Errorf("invalid version %q", args[1])
		}

		c := client.FromContext(cmd.Context())

		n, err := c.Restore(cmd.Context(), id, version)
		if err != nil {
			return err
		}

		color.Green("✓ note %d restored from version %d (now version %d)", n.ID, version, n.Version)

		return nil
	},
}
