package note

import (
	"fmt"
	"time"
)

// ChangeType labels a history entry with the mutation that produced it.
type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeRestore returns the change type for a restore from the given
// version, e.g. "restore_v3".
func ChangeRestore(version int) ChangeType {
	return ChangeType(fmt.Sprintf("restore_v%d", version))
}

// Note is a captured text snippet with provenance metadata. Content,
// Source and URL hold ciphertext inside the repository layer and plaintext
// at the service boundary; each field is encrypted independently.
type Note struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	CapturedAt  time.Time `json:"captured_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
	IsDeleted   bool      `json:"is_deleted"`
	IsSensitive bool      `json:"is_sensitive"`
}

// VersionEntry is an immutable full snapshot of a note's state at one
// version. Entries are only ever inserted, never rewritten; permanent
// deletion of the owning note removes them in bulk.
type VersionEntry struct {
	ID         int64      `json:"id"`
	NoteID     int64      `json:"note_id"`
	Content    string     `json:"content"`
	Source     string     `json:"source"`
	URL        string     `json:"url"`
	Version    int        `json:"version"`
	ChangeType ChangeType `json:"change_type"`
	CreatedAt  time.Time  `json:"created_at"`

	// Unreadable marks a history row whose snapshot could not be
	// decrypted under the active key. The raw stored value is returned
	// in that case so one corrupt row does not blank the whole history.
	Unreadable bool `json:"unreadable,omitempty"`
}

// ListResult is a read window plus the total count under the same filter.
type ListResult struct {
	Notes      []Note `json:"notes"`
	TotalCount int    `json:"total_count"`
}

// Status describes the encryption state of the store.
type Status struct {
	Encrypted bool `json:"is_enabled"`
	HasKey    bool `json:"has_key"`
	Unlocked  bool `json:"unlocked"`
}

// EncryptionMeta is the singleton metadata row of a database file. The key
// fingerprint is kept in the database as well as the key file so an
// interrupted password rotation is detectable on the next open.
type EncryptionMeta struct {
	IsEncrypted       bool      `json:"is_encrypted"`
	EncryptionVersion string    `json:"encryption_version"`
	KeyFingerprint    string    `json:"key_fingerprint"`
	CreatedAt         time.Time `json:"created_at"`
}
