// cmd/client/cmd/note/delete.go
package note

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var permanent bool

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Long: `Soft-deletes a note. The note disappears from listings but its
history is kept and the note can be restored.

With --permanent the note and its whole history are removed for good;
the command asks for confirmation first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := client.FromContext(cmd.Context())

		if permanent {
			fmt.Printf("Permanently delete note %d and its history? [y/N]: ", id)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Println("Aborted")
				return nil
			}

			if err := c.Purge(cmd.Context(), id); err != nil {
				return err
			}

			color.Green("✓ note %d permanently deleted", id)
			return nil
		}

		result, err := c.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}

		if !result.Success {
			color.Yellow("note %d is %s", id, result.Status)
			return nil
		}

		color.Green("✓ note %d deleted", id)

		return nil
	},
}

func init() {
	DeleteCmd.Flags().BoolVar(&permanent, "permanent", false, "remove the note and its history for good")
}
