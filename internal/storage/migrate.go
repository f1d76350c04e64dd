package storage

import (
	"database/sql"
	"embed"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// MigrateUp brings the kv schema to the current version. Statements are
// idempotent, so migrating an already-current database is a no-op.
func MigrateUp(db *sql.DB) error {
	return runMigrations(db, upSuffix, false)
}

// MigrateDown tears the schema back down, newest migration first. Used to
// start over when a database file is beyond repair.
func MigrateDown(db *sql.DB) error {
	return runMigrations(db, downSuffix, true)
}

func runMigrations(db *sql.DB, suffix string, newestFirst bool) error {
	names, err := fs.Glob(migrationFS, "migrations/*"+suffix)
	if err != nil {
		return &PersistenceError{Op: "list migrations", Err: err}
	}
	sort.Strings(names)
	if newestFirst {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}
	for _, name := range names {
		stmt, err := migrationFS.ReadFile(name)
		if err != nil {
			return &PersistenceError{Op: "read migration " + name, Err: err}
		}
		if _, err := db.Exec(string(stmt)); err != nil {
			return &PersistenceError{Op: "apply migration " + name, Err: err}
		}
	}
	return nil
}
