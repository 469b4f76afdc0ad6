// cmd/client/cmd/vault/vault.go
package vault

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var VaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage the store's encryption",
	Long:  `Inspect encryption status, unlock or lock the store and rotate the master password.`,
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return string(password), nil
}
