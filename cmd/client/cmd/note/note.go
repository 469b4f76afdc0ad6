// cmd/client/cmd/note/note.go
package note

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domain "clipvault/internal/domain/note"
)

var NoteCmd = &cobra.Command{
	Use:   "note",
	Short: "Work with stored notes",
	Long:  `List, search, edit, delete and restore notes kept by the daemon.`,
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}

	return id, nil
}

// preview renders one line of note content for listings. Sensitive notes
// are masked unless explicitly revealed.
func preview(n *domain.Note, showSensitive bool, width int) string {
	if n.IsSensitive && !showSensitive {
		return "••••••••"
	}

	line := []rune(strings.ReplaceAll(n.Content, "\n", " "))
	if len(line) > width {
		return string(line[:width-1]) + "…"
	}

	return string(line)
}
