// cmd/client/cmd/note/history.go
package note

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var HistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a note's version history",
	Long: `Prints every recorded version of a note, newest first, with the
change that produced it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := client.FromContext(cmd.Context())

		versions, err := c.History(cmd.Context(), id)
		if err != nil {
			return err
		}

		if len(versions) == 0 {
			fmt.Println("No history")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VER\tCHANGE\tWHEN\tCONTENT")

		for i := range versions {
			v := &versions[i]

			content := strings.ReplaceAll(v.Content, "\n", " ")
			if v.Unreadable {
				content = "(unreadable under current key)"
			}
			if line := []rune(content); len(line) > 60 {
				content = string(line[:59]) + "…"
			}

			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				v.Version,
				v.ChangeType,
				v.CreatedAt.Local().Format("2006-01-02 15:04"),
				content,
			)
		}
		w.Flush()

		fmt.Println()
		color.Cyan("%d versions", len(versions))

		return nil
	},
}
