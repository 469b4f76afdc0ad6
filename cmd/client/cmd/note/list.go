// cmd/client/cmd/note/list.go
package note

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
	domain "clipvault/internal/domain/note"
)

var (
	listLimit     int
	listOffset    int
	showSensitive bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `Lists stored notes, newest capture first.

Sensitive notes are masked in the output; pass --show-sensitive to
reveal them. Pagination via --limit and --offset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.FromContext(cmd.Context())

		result, err := c.List(cmd.Context(), listLimit, listOffset)
		if err != nil {
			return err
		}

		printNotes(result)

		return nil
	},
}

func printNotes(result *domain.ListResult) {
	if len(result.Notes) == 0 {
		fmt.Println("No notes found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAPTURED\tVER\tSOURCE\tCONTENT")

	for i := range result.Notes {
		n := &result.Notes[i]
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			n.ID,
			n.CapturedAt.Local().Format("2006-01-02 15:04"),
			n.Version,
			n.Source,
			preview(n, showSensitive, 60),
		)
	}
	w.Flush()

	fmt.Println()
	color.Cyan("%d of %d notes", len(result.Notes), result.TotalCount)
}

func init() {
	ListCmd.Flags().IntVar(&listLimit, "limit", 50, "page size")
	ListCmd.Flags().IntVar(&listOffset, "offset", 0, "page offset")
	ListCmd.Flags().BoolVar(&showSensitive, "show-sensitive", false, "reveal sensitive notes")
}
