// cmd/client/cmd/note/update.go
package note

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var UpdateCmd = &cobra.Command{
	Use:   "update <id> <content>",
	Short: "Replace a note's content",
	Long: `Replaces the content of a note. The previous content stays in the
version history and can be restored.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := client.FromContext(cmd.Context())

		n, err := c.Update(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}

		color.Green("✓ note %d updated to version %d", n.ID, n.Version)

		return nil
	},
}
