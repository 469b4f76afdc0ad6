package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"clipvault/internal/domain/note"
)

const noteColumns = `id, content, source, url, captured_at, created_at, updated_at, version, is_deleted, is_sensitive`

type NoteRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewNoteRepository(storage *Storage, log *slog.Logger) *NoteRepository {
	return &NoteRepository{
		db:  storage.db,
		log: log.With("component", "note_repository"),
	}
}

func (r *NoteRepository) Insert(ctx context.Context, n *note.Note, entry *note.VersionEntry) (int64, error) {
	const query = `
		INSERT INTO notes (content, source, url, captured_at, created_at, updated_at, version, is_deleted, is_sensitive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query,
		n.Content, n.Source, n.URL, n.CapturedAt, n.CreatedAt, n.UpdatedAt,
		n.Version, n.IsDeleted, n.IsSensitive,
	)
	if err != nil {
		r.log.Error("failed to insert note", "error", err)
		return 0, fmt.Errorf("insert note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("note id: %w", err)
	}

	entry.NoteID = id
	if err := insertVersion(ctx, tx, entry); err != nil {
		r.log.Error("failed to insert version", "note_id", id, "error", err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return id, nil
}

func (r *NoteRepository) Get(ctx context.Context, id int64) (*note.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, note.ErrNotFound
		}
		r.log.Error("failed to get note", "note_id", id, "error", err)
		return nil, fmt.Errorf("get note: %w", err)
	}

	return n, nil
}

func (r *NoteRepository) List(ctx context.Context, limit, offset int) ([]note.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE is_deleted = 0
		ORDER BY captured_at DESC, id DESC
		LIMIT ? OFFSET ?`

	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list notes", "error", err)
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) ListActive(ctx context.Context) ([]note.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE is_deleted = 0
		ORDER BY captured_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Error("failed to list notes", "error", err)
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM notes WHERE is_deleted = 0`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		r.log.Error("failed to count notes", "error", err)
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return count, nil
}

func (r *NoteRepository) SearchPattern(ctx context.Context, pattern string, limit, offset int) ([]note.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE is_deleted = 0
		  AND (ulower(content) LIKE ? ESCAPE '\' OR ulower(source) LIKE ? ESCAPE '\')
		ORDER BY captured_at DESC, id DESC
		LIMIT ? OFFSET ?`

	if limit <= 0 {
		limit = -1
	}

	like := likePattern(pattern)
	rows, err := r.db.QueryContext(ctx, query, like, like, limit, offset)
	if err != nil {
		r.log.Error("failed to search notes", "error", err)
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) CountPattern(ctx context.Context, pattern string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM notes
		WHERE is_deleted = 0
		  AND (ulower(content) LIKE ? ESCAPE '\' OR ulower(source) LIKE ? ESCAPE '\')`

	like := likePattern(pattern)

	var count int
	if err := r.db.QueryRowContext(ctx, query, like, like).Scan(&count); err != nil {
		r.log.Error("failed to count notes", "error", err)
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return count, nil
}

func (r *NoteRepository) ApplyMutation(ctx context.Context, n *note.Note, entry *note.VersionEntry) error {
	const query = `
		UPDATE notes
		SET content = ?, source = ?, url = ?, version = ?, updated_at = ?, is_deleted = ?
		WHERE id = ?`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query,
		n.Content, n.Source, n.URL, n.Version, n.UpdatedAt, n.IsDeleted, n.ID,
	)
	if err != nil {
		r.log.Error("failed to update note", "note_id", n.ID, "error", err)
		return fmt.Errorf("update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return note.ErrNotFound
	}

	entry.NoteID = n.ID
	if err := insertVersion(ctx, tx, entry); err != nil {
		r.log.Error("failed to insert version", "note_id", n.ID, "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *NoteRepository) ToggleSensitive(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE notes SET is_sensitive = 1 - is_sensitive WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Error("failed to toggle sensitive", "note_id", id, "error", err)
		return false, fmt.Errorf("toggle sensitive: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return false, note.ErrNotFound
	}

	var sensitive bool
	if err := r.db.QueryRowContext(ctx, `SELECT is_sensitive FROM notes WHERE id = ?`, id).Scan(&sensitive); err != nil {
		return false, fmt.Errorf("read sensitive flag: %w", err)
	}

	return sensitive, nil
}

func (r *NoteRepository) HardDelete(ctx context.Context, id int64) error {
	// note_versions rows go with the note via ON DELETE CASCADE
	const query = `DELETE FROM notes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Error("failed to delete note", "note_id", id, "error", err)
		return fmt.Errorf("delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return note.ErrNotFound
	}

	return nil
}

func (r *NoteRepository) Versions(ctx context.Context, noteID int64) ([]note.VersionEntry, error) {
	const query = `
		SELECT id, note_id, content, source, url, version, change_type, created_at
		FROM note_versions
		WHERE note_id = ?
		ORDER BY version DESC`

	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		r.log.Error("failed to load versions", "note_id", noteID, "error", err)
		return nil, fmt.Errorf("load versions: %w", err)
	}
	defer rows.Close()

	entries := make([]note.VersionEntry, 0)
	for rows.Next() {
		var e note.VersionEntry
		if err := rows.Scan(
			&e.ID, &e.NoteID, &e.Content, &e.Source, &e.URL,
			&e.Version, &e.ChangeType, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *NoteRepository) VersionByNumber(ctx context.Context, noteID int64, version int) (*note.VersionEntry, error) {
	const query = `
		SELECT id, note_id, content, source, url, version, change_type, created_at
		FROM note_versions
		WHERE note_id = ? AND version = ?`

	var e note.VersionEntry
	err := r.db.QueryRowContext(ctx, query, noteID, version).Scan(
		&e.ID, &e.NoteID, &e.Content, &e.Source, &e.URL,
		&e.Version, &e.ChangeType, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, note.ErrVersionNotFound
		}
		r.log.Error("failed to get version", "note_id", noteID, "version", version, "error", err)
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &e, nil
}

func (r *NoteRepository) LoadCorpus(ctx context.Context) ([]note.Note, []note.VersionEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("load notes: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, nil, err
	}

	vrows, err := r.db.QueryContext(ctx, `
		SELECT id, note_id, content, source, url, version, change_type, created_at
		FROM note_versions ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("load versions: %w", err)
	}
	defer vrows.Close()

	versions := make([]note.VersionEntry, 0)
	for vrows.Next() {
		var e note.VersionEntry
		if err := vrows.Scan(
			&e.ID, &e.NoteID, &e.Content, &e.Source, &e.URL,
			&e.Version, &e.ChangeType, &e.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, e)
	}

	return notes, versions, vrows.Err()
}

func (r *NoteRepository) ReplaceCorpus(ctx context.Context, notes []note.Note, versions []note.VersionEntry, fingerprint string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	noteStmt, err := tx.PrepareContext(ctx, `UPDATE notes SET content = ?, source = ?, url = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare note rewrite: %w", err)
	}
	defer noteStmt.Close()

	for i := range notes {
		n := &notes[i]
		if _, err := noteStmt.ExecContext(ctx, n.Content, n.Source, n.URL, n.ID); err != nil {
			r.log.Error("failed to rewrite note", "note_id", n.ID, "error", err)
			return fmt.Errorf("rewrite note %d: %w", n.ID, err)
		}
	}

	versionStmt, err := tx.PrepareContext(ctx, `UPDATE note_versions SET content = ?, source = ?, url = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare version rewrite: %w", err)
	}
	defer versionStmt.Close()

	for i := range versions {
		e := &versions[i]
		if _, err := versionStmt.ExecContext(ctx, e.Content, e.Source, e.URL, e.ID); err != nil {
			r.log.Error("failed to rewrite version", "version_id", e.ID, "error", err)
			return fmt.Errorf("rewrite version %d: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE encryption_metadata SET is_encrypted = 1, key_fingerprint = ? WHERE id = 1`,
		fingerprint,
	); err != nil {
		return fmt.Errorf("update encryption metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *NoteRepository) EncryptionMeta(ctx context.Context) (*note.EncryptionMeta, error) {
	const query = `
		SELECT is_encrypted, encryption_version, key_fingerprint, created_at
		FROM encryption_metadata WHERE id = 1`

	var meta note.EncryptionMeta
	err := r.db.QueryRowContext(ctx, query).Scan(
		&meta.IsEncrypted, &meta.EncryptionVersion, &meta.KeyFingerprint, &meta.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to load encryption metadata", "error", err)
		return nil, fmt.Errorf("load encryption metadata: %w", err)
	}

	return &meta, nil
}

func (r *NoteRepository) InitEncryptionMeta(ctx context.Context, encrypted bool, version, fingerprint string) error {
	const query = `
		INSERT INTO encryption_metadata (id, is_encrypted, encryption_version, key_fingerprint, created_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)`

	if _, err := r.db.ExecContext(ctx, query, encrypted, version, fingerprint); err != nil {
		r.log.Error("failed to init encryption metadata", "error", err)
		return fmt.Errorf("init encryption metadata: %w", err)
	}

	return nil
}

func (r *NoteRepository) Close() error {
	return r.db.Close()
}

func insertVersion(ctx context.Context, tx *sql.Tx, entry *note.VersionEntry) error {
	const query = `
		INSERT INTO note_versions (note_id, content, source, url, version, change_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		entry.NoteID, entry.Content, entry.Source, entry.URL,
		entry.Version, string(entry.ChangeType), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("version id: %w", err)
	}
	entry.ID = id

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*note.Note, error) {
	var n note.Note
	err := row.Scan(
		&n.ID, &n.Content, &n.Source, &n.URL,
		&n.CapturedAt, &n.CreatedAt, &n.UpdatedAt,
		&n.Version, &n.IsDeleted, &n.IsSensitive,
	)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func scanNotes(rows *sql.Rows) ([]note.Note, error) {
	notes := make([]note.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}

	return notes, rows.Err()
}

// likePattern lowers the query with the same Unicode folding ulower()
// applies to the column side and escapes LIKE metacharacters so the match
// is a literal substring one.
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))

	return "%" + escaped + "%"
}
