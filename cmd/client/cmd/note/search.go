// cmd/client/cmd/note/search.go
package note

import (
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var (
	searchLimit  int
	searchOffset int
)

var SearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes",
	Long: `Case-insensitive substring search over note content and source.

Works on encrypted stores too; the daemon decrypts before matching.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.FromContext(cmd.Context())

		result, err := c.Search(cmd.Context(), args[0], searchLimit, searchOffset)
		if err != nil {
			return err
		}

		printNotes(result)

		return nil
	},
}

func init() {
	SearchCmd.Flags().IntVar(&searchLimit, "limit", 50, "page size")
	SearchCmd.Flags().IntVar(&searchOffset, "offset", 0, "page offset")
	SearchCmd.Flags().BoolVar(&showSensitive, "show-sensitive", false, "reveal sensitive notes")
}
