package note

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"clipvault/internal/crypto"
)

const encryptionVersion = "aes-256-gcm/v1"

// Servicer is the note store facade consumed by the transport layer.
type Servicer interface {
	Add(ctx context.Context, content, source, url string, capturedAt time.Time) (*Note, error)
	List(ctx context.Context, limit, offset int) (*ListResult, error)
	Search(ctx context.Context, query string, limit, offset int) (*ListResult, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id int64, content string) (*Note, error)
	Delete(ctx context.Context, id int64) error
	Purge(ctx context.Context, id int64) error
	ToggleSensitive(ctx context.Context, id int64) (bool, error)
	History(ctx context.Context, id int64) ([]VersionEntry, error)
	Restore(ctx context.Context, id int64, version int) (*Note, error)
	Status(ctx context.Context) (*Status, error)
	Unlock(ctx context.Context, password string) (bool, error)
	Lock() error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// Service implements the note store on top of a Repository and a Keyring.
// Mutations are serialised by a single lock; the version counter of a note
// is read and incremented under it.
//
// The cipher is nil while an encrypted store is locked. Every operation
// except Status and Unlock fails with ErrNotInitialized in that state.
type Service struct {
	repo   Repository
	keys   *crypto.Keyring
	log    *slog.Logger
	now    func() time.Time
	mu     sync.RWMutex
	cipher *crypto.FieldCipher
	search searchStrategy
}

func NewService(repo Repository, keys *crypto.Keyring, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		keys: keys,
		log:  log.With("component", "note service"),
		now:  time.Now,
	}
}

// Open reconciles the key file with the database metadata and readies the
// service. A store without encryption becomes usable immediately; an
// encrypted one stays locked until Unlock.
//
// A password rotation that crashed between committing the database and
// renaming the staged key file is completed here. Any other fingerprint
// mismatch fails closed with ErrVaultInconsistent.
func (s *Service) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.repo.EncryptionMeta(ctx)
	if err != nil {
		return fmt.Errorf("load encryption metadata: %w", err)
	}

	if meta == nil {
		if err := s.repo.InitEncryptionMeta(ctx, false, encryptionVersion, ""); err != nil {
			return fmt.Errorf("init encryption metadata: %w", err)
		}

		meta = &EncryptionMeta{EncryptionVersion: encryptionVersion}
	}

	if !meta.IsEncrypted {
		s.cipher = crypto.Plaintext()
		s.search = &storageSearch{repo: s.repo}

		return nil
	}

	if !s.keys.HasKey() {
		return fmt.Errorf("%w: data is encrypted but the key file is missing", ErrVaultInconsistent)
	}

	if meta.KeyFingerprint != s.keys.Fingerprint() {
		staged, err := s.keys.StagedHeader()
		if err != nil {
			return fmt.Errorf("read staged key: %w", err)
		}
		if staged == nil || staged.KeyHash != meta.KeyFingerprint {
			return ErrVaultInconsistent
		}

		if err := s.keys.PromoteStaged(); err != nil {
			return fmt.Errorf("finish interrupted rotation: %w", err)
		}

		s.log.Info("completed interrupted password rotation")
	} else if err := s.keys.RemoveStaged(); err != nil {
		return fmt.Errorf("discard stale staged key: %w", err)
	}

	return nil
}

// Add stores a captured snippet and its first history entry. A zero
// capturedAt means the note was captured now.
func (s *Service) Add(ctx context.Context, content, source, url string, capturedAt time.Time) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cipher, err := s.guard()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if capturedAt.IsZero() {
		capturedAt = now
	}

	n := &Note{
		Content:    content,
		Source:     source,
		URL:        url,
		CapturedAt: capturedAt.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}

	stored := *n
	if err := encryptNote(cipher, &stored); err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, &stored, snapshot(&stored, ChangeCreate, now))
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	n.ID = id
	s.log.Debug("note added", "id", id, "source", source)

	return n, nil
}

// List returns a page of non-deleted notes, newest capture first, together
// with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) (*ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cipher, err := s.guard()
	if err != nil {
		return nil, err
	}

	notes, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	for i := range notes {
		if err := decryptNote(cipher, &notes[i]); err != nil {
			return nil, err
		}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	return &ListResult{Notes: notes, TotalCount: total}, nil
}

// Search filters non-deleted notes by a case-insensitive substring match
// over content and source. An empty query matches every note.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) (*ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.guard(); err != nil {
		return nil, err
	}

	notes, err := s.search.search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.search.count(ctx, query)
	if err != nil {
		return nil, err
	}

	return &ListResult{Notes: notes, TotalCount: total}, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.guard(); err != nil {
		return 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return count, nil
}

// Update replaces a note's content, bumps its version and appends a
// history snapshot. Deleted notes cannot be updated.
func (s *Service) Update(ctx context.Context, id int64, content string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cipher, err := s.guard()
	if err != nil {
		return nil, err
	}

	plain, stored, err := s.fetch(ctx, cipher, id)
	if err != nil {
		return nil, err
	}

	if plain.IsDeleted {
		return nil, ErrNoteDeleted
	}

	// Only content changes; the stored source and url ciphertexts go
	// through unchanged.
	encrypted, err := cipher.Encrypt(content)
	if err != nil {
		return nil, fmt.Errorf("encrypt content: %w", err)
	}

	stored.Content = encrypted
	stored.Version++
	stored.UpdatedAt = s.now().UTC()

	if err := s.applyMutation(ctx, stored, ChangeUpdate); err != nil {
		return nil, err
	}

	plain.Content = content
	plain.Version = stored.Version
	plain.UpdatedAt = stored.UpdatedAt

	s.log.Debug("note updated", "id", id, "version", stored.Version)

	return plain, nil
}

// Delete soft-deletes a note. The note and its history stay in the store
// and the deletion itself is recorded as a version. Deleting an already
// deleted note fails with ErrNoteDeleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cipher, err := s.guard()
	if err != nil {
		return err
	}

	plain, stored, err := s.fetch(ctx, cipher, id)
	if err != nil {
		return err
	}

	if plain.IsDeleted {
		return ErrNoteDeleted
	}

	stored.IsDeleted = true
	stored.Version++
	stored.UpdatedAt = s.now().UTC()

	if err := s.applyMutation(ctx, stored, ChangeDelete); err != nil {
		return err
	}

	s.log.Debug("note deleted", "id", id)

	return nil
}

// Purge permanently removes a note and its whole history.
func (s *Service) Purge(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.guard(); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("purge note: %w", err)
	}

	s.log.Debug("note purged", "id", id)

	return nil
}

// ToggleSensitive flips the presentation-layer sensitivity flag. The flag
// is metadata only and does not create a history entry.
func (s *Service) ToggleSensitive(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.guard(); err != nil {
		return false, err
	}

	sensitive, err := s.repo.ToggleSensitive(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}

		return false, fmt.Errorf("toggle sensitive: %w", err)
	}

	return sensitive, nil
}

// History returns a note's version ledger, newest first. A history row
// that cannot be decrypted is returned with its raw stored values and the
// Unreadable flag set instead of failing the whole read.
func (s *Service) History(ctx context.Context, id int64) ([]VersionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cipher, err := s.guard()
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get note: %w", err)
	}

	entries, err := s.repo.Versions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	for i := range entries {
		decryptEntry(cipher, &entries[i])
	}

	return entries, nil
}

// Restore brings a note back to the state captured at the given version.
// The restore is itself a new version, so history never rewinds. Restoring
// a soft-deleted note revives it.
func (s *Service) Restore(ctx context.Context, id int64, version int) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cipher, err := s.guard()
	if err != nil {
		return nil, err
	}

	plain, stored, err := s.fetch(ctx, cipher, id)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.VersionByNumber(ctx, id, version)
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			return nil, ErrVersionNotFound
		}

		return nil, fmt.Errorf("load version %d: %w", version, err)
	}

	restored := *entry
	decryptEntry(cipher, &restored)
	if restored.Unreadable {
		return nil, fmt.Errorf("restore note %d: %w", id, crypto.ErrDecryptFailed)
	}

	// The historical ciphertexts go back onto the row verbatim.
	stored.Content = entry.Content
	stored.Source = entry.Source
	stored.URL = entry.URL
	stored.IsDeleted = false
	stored.Version++
	stored.UpdatedAt = s.now().UTC()

	if err := s.applyMutation(ctx, stored, ChangeRestore(version)); err != nil {
		return nil, err
	}

	plain.Content = restored.Content
	plain.Source = restored.Source
	plain.URL = restored.URL
	plain.IsDeleted = false
	plain.Version = stored.Version
	plain.UpdatedAt = stored.UpdatedAt

	s.log.Debug("note restored", "id", id, "from_version", version, "version", stored.Version)

	return plain, nil
}

// Status reports the encryption state. It works on a locked store.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.repo.EncryptionMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("load encryption metadata: %w", err)
	}

	st := &Status{
		HasKey:   s.keys.HasKey(),
		Unlocked: s.cipher != nil,
	}
	if meta != nil {
		st.Encrypted = meta.IsEncrypted
	}

	return st, nil
}

// Unlock opens the store with the given password. With no key file yet it
// performs first-time setup: a key is derived and saved, and any existing
// plaintext notes are encrypted under it. The returned flag reports
// whether a new key was created.
//
// A setup that crashed after writing the key file but before encrypting
// the data resumes here on the next unlock.
func (s *Service) Unlock(ctx context.Context, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.repo.EncryptionMeta(ctx)
	if err != nil {
		return false, fmt.Errorf("load encryption metadata: %w", err)
	}

	isNew := !s.keys.HasKey()

	switch {
	case isNew:
		if err := s.keys.Setup(password); err != nil {
			return false, fmt.Errorf("create key: %w", err)
		}
	case s.keys.Unlocked():
		if err := s.keys.VerifyPassword(password); err != nil {
			return false, mapKeyErr(err)
		}
	default:
		if err := s.keys.Unlock(password); err != nil {
			return false, mapKeyErr(err)
		}
	}

	key, err := s.keys.Key()
	if err != nil {
		return false, fmt.Errorf("read key: %w", err)
	}

	cipher, err := crypto.NewFieldCipher(key)
	if err != nil {
		return false, fmt.Errorf("init cipher: %w", err)
	}

	if meta == nil || !meta.IsEncrypted {
		from := s.cipher
		if from == nil {
			from = crypto.Plaintext()
		}

		if err := s.reencrypt(ctx, from, cipher, s.keys.Fingerprint()); err != nil {
			return false, fmt.Errorf("encrypt existing notes: %w", err)
		}

		s.log.Info("encryption enabled", "fingerprint", s.keys.Fingerprint())
	}

	s.cipher = cipher
	s.search = &memorySearch{repo: s.repo, cipher: cipher}

	return isNew, nil
}

// Lock drops the in-memory key. Reads and writes fail with
// ErrNotInitialized until the next Unlock. Locking a store that has no
// encryption fails with ErrEncryptionOff.
func (s *Service) Lock() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cipher != nil && !s.cipher.Enabled() {
		return ErrEncryptionOff
	}

	s.keys.Lock()
	s.cipher = nil
	s.search = nil

	s.log.Info("store locked")

	return nil
}

// ChangePassword re-encrypts every stored field under a key derived from
// the new password. The new key file is staged next to the live one before
// the database transaction commits and atomically renamed over it after,
// so a crash at any point leaves the store recoverable by Open.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cipher, err := s.guard()
	if err != nil {
		return err
	}

	if !cipher.Enabled() {
		return ErrEncryptionOff
	}

	if err := s.keys.VerifyPassword(oldPassword); err != nil {
		return mapKeyErr(err)
	}

	staged, err := s.keys.StageRotation(newPassword)
	if err != nil {
		return fmt.Errorf("stage new key: %w", err)
	}

	next, err := crypto.NewFieldCipher(staged.Key())
	if err != nil {
		staged.Discard()

		return fmt.Errorf("init cipher: %w", err)
	}

	if err := s.reencrypt(ctx, cipher, next, staged.Fingerprint()); err != nil {
		staged.Discard()

		return err
	}

	if err := staged.Commit(); err != nil {
		// The database already references the new key, so reads must use
		// it from here on. The staged file is still on disk and the next
		// Open finishes the rename.
		s.cipher = next
		s.search = &memorySearch{repo: s.repo, cipher: next}

		return fmt.Errorf("commit new key: %w", err)
	}

	s.cipher = next
	s.search = &memorySearch{repo: s.repo, cipher: next}

	s.log.Info("password changed", "fingerprint", staged.Fingerprint())

	return nil
}

// reencrypt rewrites the whole corpus, notes and history alike, from one
// cipher to another in a single transaction. Nothing is written unless
// every row decrypts cleanly first.
func (s *Service) reencrypt(ctx context.Context, from, to *crypto.FieldCipher, fingerprint string) error {
	notes, versions, err := s.repo.LoadCorpus(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	for i := range notes {
		if err := decryptNote(from, &notes[i]); err != nil {
			return err
		}
	}

	for i := range versions {
		if err := decryptEntryStrict(from, &versions[i]); err != nil {
			return err
		}
	}

	for i := range notes {
		if err := encryptNote(to, &notes[i]); err != nil {
			return err
		}
	}

	for i := range versions {
		if err := encryptEntry(to, &versions[i]); err != nil {
			return err
		}
	}

	if err := s.repo.ReplaceCorpus(ctx, notes, versions, fingerprint); err != nil {
		return fmt.Errorf("rewrite corpus: %w", err)
	}

	return nil
}

// fetch loads a note by id and returns both the decrypted view and the
// row as stored. Soft-deleted notes are returned as-is; callers decide
// whether that is an error.
func (s *Service) fetch(ctx context.Context, cipher *crypto.FieldCipher, id int64) (plain, stored *Note, err error) {
	stored, err = s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}

		return nil, nil, fmt.Errorf("get note: %w", err)
	}

	view := *stored
	if err := decryptNote(cipher, &view); err != nil {
		return nil, nil, err
	}

	return &view, stored, nil
}

// applyMutation persists a mutated stored row together with its history
// snapshot. Field values pass through verbatim, so untouched ciphertexts
// are carried forward instead of re-sealed.
func (s *Service) applyMutation(ctx context.Context, stored *Note, change ChangeType) error {
	if err := s.repo.ApplyMutation(ctx, stored, snapshot(stored, change, stored.UpdatedAt)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("apply mutation: %w", err)
	}

	return nil
}

func (s *Service) guard() (*crypto.FieldCipher, error) {
	if s.cipher == nil {
		return nil, ErrNotInitialized
	}

	return s.cipher, nil
}

// snapshot builds the history entry recording a note's state at its
// current version. Field values are copied verbatim, so the entry carries
// ciphertext whenever the note does.
func snapshot(n *Note, change ChangeType, at time.Time) *VersionEntry {
	return &VersionEntry{
		NoteID:     n.ID,
		Content:    n.Content,
		Source:     n.Source,
		URL:        n.URL,
		Version:    n.Version,
		ChangeType: change,
		CreatedAt:  at,
	}
}

func encryptNote(cipher *crypto.FieldCipher, n *Note) error {
	var err error

	if n.Content, err = cipher.Encrypt(n.Content); err != nil {
		return fmt.Errorf("encrypt content: %w", err)
	}

	if n.Source, err = cipher.Encrypt(n.Source); err != nil {
		return fmt.Errorf("encrypt source: %w", err)
	}

	if n.URL, err = cipher.Encrypt(n.URL); err != nil {
		return fmt.Errorf("encrypt url: %w", err)
	}

	return nil
}

func encryptEntry(cipher *crypto.FieldCipher, e *VersionEntry) error {
	var err error

	if e.Content, err = cipher.Encrypt(e.Content); err != nil {
		return fmt.Errorf("encrypt content: %w", err)
	}

	if e.Source, err = cipher.Encrypt(e.Source); err != nil {
		return fmt.Errorf("encrypt source: %w", err)
	}

	if e.URL, err = cipher.Encrypt(e.URL); err != nil {
		return fmt.Errorf("encrypt url: %w", err)
	}

	return nil
}

// decryptEntry degrades instead of failing: a row that does not decrypt
// keeps its raw stored values and is flagged unreadable.
func decryptEntry(cipher *crypto.FieldCipher, e *VersionEntry) {
	if err := decryptEntryStrict(cipher, e); err != nil {
		e.Unreadable = true
	}
}

func decryptEntryStrict(cipher *crypto.FieldCipher, e *VersionEntry) error {
	content, err := cipher.Decrypt(e.Content)
	if err != nil {
		return fmt.Errorf("decrypt version %d of note %d: %w", e.Version, e.NoteID, err)
	}

	source, err := cipher.Decrypt(e.Source)
	if err != nil {
		return fmt.Errorf("decrypt version %d of note %d: %w", e.Version, e.NoteID, err)
	}

	url, err := cipher.Decrypt(e.URL)
	if err != nil {
		return fmt.Errorf("decrypt version %d of note %d: %w", e.Version, e.NoteID, err)
	}

	e.Content, e.Source, e.URL = content, source, url

	return nil
}

func mapKeyErr(err error) error {
	switch {
	case errors.Is(err, crypto.ErrInvalidPassword):
		return ErrInvalidPassword
	case errors.Is(err, crypto.ErrNoKey):
		return ErrEncryptionOff
	default:
		return err
	}
}
