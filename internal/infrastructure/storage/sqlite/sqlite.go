package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// driverName is a sqlite3 dialect carrying a Unicode-aware ulower().
// SQLite's built-in lower() folds ASCII only, which would make stored
// search and in-memory search disagree on non-ASCII queries.
const driverName = "sqlite3_ulower"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// Storage owns the SQLite handle. The store is single-process, so a single
// writer connection is enough; WAL keeps readers from blocking it.
type Storage struct {
	db *sql.DB
}

func New(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_loc=UTC", path)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) DB() *sql.DB {
	return s.db
}
