package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"clipvault/internal/domain/note"
	"clipvault/internal/infrastructure/migration"
)

func newTestRepository(t *testing.T) *NoteRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notes.db")

	mg := migration.NewMigration(path, migration.DefaultEngine)
	require.NoError(t, mg.Up())

	storage, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	return NewNoteRepository(storage, slog.Default())
}

func fixtureNote(content, source string, capturedAt time.Time) (*note.Note, *note.VersionEntry) {
	n := &note.Note{
		Content:    content,
		Source:     source,
		URL:        "https://example.com",
		CapturedAt: capturedAt,
		CreatedAt:  capturedAt,
		UpdatedAt:  capturedAt,
		Version:    1,
	}
	entry := &note.VersionEntry{
		Content:    content,
		Source:     source,
		URL:        n.URL,
		Version:    1,
		ChangeType: note.ChangeCreate,
		CreatedAt:  capturedAt,
	}

	return n, entry
}

func TestNoteRepository_InsertAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	captured := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	n, entry := fixtureNote("hello", "Safari", captured)

	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)
	assert.Equal(t, id, entry.NoteID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "Safari", got.Source)
	assert.Equal(t, 1, got.Version)
	assert.True(t, got.CapturedAt.Equal(captured))
	assert.False(t, got.IsDeleted)
}

func TestNoteRepository_Get_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestNoteRepository_List_OrderAndPaging(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		n, entry := fixtureNote("note", "app", base.Add(time.Duration(i)*time.Hour))
		_, err := repo.Insert(ctx, n, entry)
		require.NoError(t, err)
	}

	notes, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	// newest capture first
	assert.True(t, notes[0].CapturedAt.After(notes[1].CapturedAt))

	notes, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNoteRepository_ApplyMutation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	captured := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	n, entry := fixtureNote("v1", "app", captured)
	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	updated := &note.Note{
		ID:        id,
		Content:   "v2",
		Source:    "app",
		URL:       n.URL,
		Version:   2,
		UpdatedAt: captured.Add(time.Minute),
	}
	err = repo.ApplyMutation(ctx, updated, &note.VersionEntry{
		Content:    "v2",
		Source:     "app",
		URL:        n.URL,
		Version:    2,
		ChangeType: note.ChangeUpdate,
		CreatedAt:  updated.UpdatedAt,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, 2, got.Version)

	versions, err := repo.Versions(ctx, id)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, note.ChangeUpdate, versions[0].ChangeType)
	assert.Equal(t, 1, versions[1].Version)
	assert.Equal(t, note.ChangeCreate, versions[1].ChangeType)
}

func TestNoteRepository_ApplyMutation_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.ApplyMutation(context.Background(), &note.Note{ID: 42, Version: 2}, &note.VersionEntry{Version: 2})
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestNoteRepository_SoftDeletedHiddenFromList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	captured := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	n, entry := fixtureNote("gone soon", "app", captured)
	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	deleted := *n
	deleted.ID = id
	deleted.IsDeleted = true
	deleted.Version = 2
	err = repo.ApplyMutation(ctx, &deleted, &note.VersionEntry{
		Content: n.Content, Version: 2, ChangeType: note.ChangeDelete, CreatedAt: captured,
	})
	require.NoError(t, err)

	notes, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, notes)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// still reachable by id
	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestNoteRepository_SearchPattern(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixtures := []struct {
		content string
		source  string
	}{
		{"Grocery list", "Notes"},
		{"meeting agenda", "Mail"},
		{"buy GROCERIES", "Safari"},
		{"50% discount_code", "Safari"},
	}
	for i, f := range fixtures {
		n, entry := fixtureNote(f.content, f.source, base.Add(time.Duration(i)*time.Minute))
		_, err := repo.Insert(ctx, n, entry)
		require.NoError(t, err)
	}

	notes, err := repo.SearchPattern(ctx, "grocer", 10, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	count, err := repo.CountPattern(ctx, "grocer")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// source matches too
	notes, err = repo.SearchPattern(ctx, "mail", 10, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	// LIKE metacharacters are literal
	notes, err = repo.SearchPattern(ctx, "50%", 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "50% discount_code", notes[0].Content)

	notes, err = repo.SearchPattern(ctx, "discount_code", 10, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	// empty query matches everything
	count, err = repo.CountPattern(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestNoteRepository_SearchPattern_FoldsUnicode(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	captured := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	n, entry := fixtureNote("ÄPFEL KAUFEN", "Notizen", captured)
	_, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	notes, err := repo.SearchPattern(ctx, "äpfel", 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "ÄPFEL KAUFEN", notes[0].Content)

	count, err := repo.CountPattern(ctx, "Äpfel")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNoteRepository_ToggleSensitive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, entry := fixtureNote("secret", "app", time.Now().UTC())
	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	sensitive, err := repo.ToggleSensitive(ctx, id)
	require.NoError(t, err)
	assert.True(t, sensitive)

	sensitive, err = repo.ToggleSensitive(ctx, id)
	require.NoError(t, err)
	assert.False(t, sensitive)

	_, err = repo.ToggleSensitive(ctx, 404)
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestNoteRepository_HardDeleteCascades(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, entry := fixtureNote("purge me", "app", time.Now().UTC())
	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	require.NoError(t, repo.HardDelete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, note.ErrNotFound)

	versions, err := repo.Versions(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, versions)

	assert.ErrorIs(t, repo.HardDelete(ctx, id), note.ErrNotFound)
}

func TestNoteRepository_VersionByNumber(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, entry := fixtureNote("v1", "app", time.Now().UTC())
	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	got, err := repo.VersionByNumber(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content)

	_, err = repo.VersionByNumber(ctx, id, 7)
	assert.ErrorIs(t, err, note.ErrVersionNotFound)
}

func TestNoteRepository_EncryptionMeta(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	meta, err := repo.EncryptionMeta(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta)

	require.NoError(t, repo.InitEncryptionMeta(ctx, false, "aes-256-gcm/v1", ""))

	meta, err = repo.EncryptionMeta(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.False(t, meta.IsEncrypted)
	assert.Equal(t, "aes-256-gcm/v1", meta.EncryptionVersion)
	assert.Empty(t, meta.KeyFingerprint)
}

func TestNoteRepository_ReplaceCorpus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InitEncryptionMeta(ctx, false, "aes-256-gcm/v1", ""))

	n, entry := fixtureNote("plaintext", "app", time.Now().UTC())
	id, err := repo.Insert(ctx, n, entry)
	require.NoError(t, err)

	notes, versions, err := repo.LoadCorpus(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Len(t, versions, 1)

	notes[0].Content = "ciphertext"
	versions[0].Content = "ciphertext"

	require.NoError(t, repo.ReplaceCorpus(ctx, notes, versions, "fp-1"))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", got.Content)

	history, err := repo.Versions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", history[0].Content)

	meta, err := repo.EncryptionMeta(ctx)
	require.NoError(t, err)
	assert.True(t, meta.IsEncrypted)
	assert.Equal(t, "fp-1", meta.KeyFingerprint)
}
