// cmd/client/cmd/init.go
package cmd

import (
	"clipvault/cmd/client/cmd/note"
	"clipvault/cmd/client/cmd/vault"
)

func init() {
	rootCmd.AddCommand(captureCmd)

	rootCmd.AddCommand(note.NoteCmd)
	note.NoteCmd.AddCommand(note.ListCmd)
	note.NoteCmd.AddCommand(note.SearchCmd)
	note.NoteCmd.AddCommand(note.UpdateCmd)
	note.NoteCmd.AddCommand(note.DeleteCmd)
	note.NoteCmd.AddCommand(note.SensitiveCmd)
	note.NoteCmd.AddCommand(note.HistoryCmd)
	note.NoteCmd.AddCommand(note.RestoreCmd)

	rootCmd.AddCommand(vault.VaultCmd)
	vault.VaultCmd.AddCommand(vault.StatusCmd)
	vault.VaultCmd.AddCommand(vault.UnlockCmd)
	vault.VaultCmd.AddCommand(vault.LockCmd)
	vault.VaultCmd.AddCommand(vault.ChangePasswordCmd)
}
