package note

import "context"

// Repository is the persistence contract for notes, their version history
// and the encryption metadata singleton. Implementations store field
// values verbatim; encryption happens above this layer.
//
// Every mutation that touches both the notes table and the history ledger
// must do so in a single transaction.
type Repository interface {
	// Insert stores a new note together with its first history entry and
	// returns the assigned id.
	Insert(ctx context.Context, n *Note, entry *VersionEntry) (int64, error)

	// Get returns a note by id, including soft-deleted ones.
	Get(ctx context.Context, id int64) (*Note, error)

	// List returns non-deleted notes ordered by captured_at descending.
	List(ctx context.Context, limit, offset int) ([]Note, error)

	// ListActive returns every non-deleted note, newest first, without
	// paging. Used by the in-memory search path.
	ListActive(ctx context.Context) ([]Note, error)

	// Count returns the number of non-deleted notes.
	Count(ctx context.Context) (int, error)

	// SearchPattern and CountPattern filter non-deleted notes by a
	// case-insensitive substring match over content and source. Only
	// valid when field values are stored as plaintext.
	SearchPattern(ctx context.Context, query string, limit, offset int) ([]Note, error)
	CountPattern(ctx context.Context, query string) (int, error)

	// ApplyMutation rewrites a note row to match n (content, source, url,
	// version, updated_at, is_deleted) and appends entry to its history in
	// the same transaction.
	ApplyMutation(ctx context.Context, n *Note, entry *VersionEntry) error

	// ToggleSensitive flips the sensitivity flag and returns the new value.
	ToggleSensitive(ctx context.Context, id int64) (bool, error)

	// HardDelete removes a note and all of its history entries.
	HardDelete(ctx context.Context, id int64) error

	// Versions returns a note's history, newest version first.
	Versions(ctx context.Context, noteID int64) ([]VersionEntry, error)

	// VersionByNumber returns a single history entry by version number.
	VersionByNumber(ctx context.Context, noteID int64, version int) (*VersionEntry, error)

	// LoadCorpus returns every note and every history entry, including
	// soft-deleted notes. Used for whole-store re-encryption.
	LoadCorpus(ctx context.Context) ([]Note, []VersionEntry, error)

	// ReplaceCorpus overwrites the stored field values of every given row
	// and updates the encryption metadata to encrypted with the given key
	// fingerprint, all in one transaction.
	ReplaceCorpus(ctx context.Context, notes []Note, versions []VersionEntry, fingerprint string) error

	// EncryptionMeta returns the metadata singleton, or nil when the
	// database has not been initialised yet.
	EncryptionMeta(ctx context.Context) (*EncryptionMeta, error)

	// InitEncryptionMeta creates the metadata singleton.
	InitEncryptionMeta(ctx context.Context, encrypted bool, version, fingerprint string) error

	Close() error
}
