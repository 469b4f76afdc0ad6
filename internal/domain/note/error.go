package note

import "errors"

var (
	ErrNotInitialized    = errors.New("note store is locked")
	ErrNotFound          = errors.New("note not found")
	ErrNoteDeleted       = errors.New("note is deleted")
	ErrVersionNotFound   = errors.New("note version not found")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrEncryptionOff     = errors.New("encryption is not enabled")
	ErrVaultInconsistent = errors.New("key file does not match database")
)
