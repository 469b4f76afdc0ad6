// cmd/client/cmd/note/sensitive.go
package note

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var SensitiveCmd = &cobra.Command{
	Use:   "sensitive <id>",
	Short: "Toggle the sensitive flag",
	Long:  `Marks or unmarks a note as sensitive. Sensitive notes are masked in listings.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := client.FromContext(cmd.Context())

		sensitive, err := c.ToggleSensitive(cmd.Context(), id)
		if err != nil {
			return err
		}

		if sensitive {
			color.Green("✓ note %d marked sensitive", id)
		} else {
			color.Green("✓ note %d no longer sensitive", id)
		}

		return nil
	},
}
