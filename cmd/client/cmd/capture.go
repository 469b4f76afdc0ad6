// cmd/client/cmd/capture.go
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clipvault/internal/app/client"
)

var (
	captureSource string
	captureURL    string
)

var captureCmd = &cobra.Command{
	Use:   "capture [text]",
	Short: "Store a snippet",
	Long: `Stores a text snippet in the note store.

The text is taken from the argument, or from stdin when no argument is
given, so the command composes with pbpaste and pipes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := ""
		if len(args) == 1 {
			content = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = strings.TrimRight(string(data), "\n")
		}

		if content == "" {
			return fmt.Errorf("nothing to capture")
		}

		c := client.FromContext(cmd.Context())

		id, err := c.Capture(cmd.Context(), client.CaptureRequest{
			Content: content,
			Source:  captureSource,
			URL:     captureURL,
		})
		if err != nil {
			return err
		}

		color.Green("✓ captured note %d", id)

		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureSource, "source", "", "application the text came from")
	captureCmd.Flags().StringVar(&captureURL, "url", "", "page or document the text came from")
}
