package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for SQLite driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrator is the surface of migrate.Migrate we depend on.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine builds a Migrator for a database path, injectable so
// tests stay off the filesystem.
type MigrationEngine func(databasePath string) (Migrator, error)

type Migration struct {
	dbPath string
	engine MigrationEngine
}

func NewMigration(dbPath string, engine MigrationEngine) *Migration {
	return &Migration{
		dbPath: dbPath,
		engine: engine,
	}
}

// DefaultEngine runs the embedded migrations against a SQLite file.
func DefaultEngine(databasePath string) (Migrator, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", source, "sqlite3://"+databasePath)
}

func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w; migration up error", err)
	}
	return nil
}
