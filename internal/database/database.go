// internal/database/database.go
//
// Database helpers for the word search server.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying migrations embedded from assets/sql/*.sql (idempotent, recorded in _migrations).
//
// Note: This file assumes SQLite but can be adapted for other backends.

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/assets"
)

/**
 * Open opens (and creates if missing) a SQLite database file.
 *
 * - Creates the parent directory for paths like ./data/wordsearch.db.
 * - Every pooled connection gets a 5s busy timeout, WAL journaling and
 *   foreign key enforcement through DSN parameters.
 *
 * @param path Database file path.
 * @returns *sql.DB ready for queries/migrations.
 */
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	return db, nil
}

// migration is one embedded SQL script.
type migration struct {
	name string
	body string
}

// selfManaged reports whether the script opens its own transaction or
// toggles foreign keys, which cannot happen inside an outer transaction.
func (m migration) selfManaged() bool {
	upper := strings.ToUpper(m.body)
	return strings.Contains(upper, "BEGIN TRANSACTION") ||
		strings.Contains(strings.ReplaceAll(upper, " ", ""), "PRAGMAFOREIGN_KEYS=OFF")
}

// Migrate applies the embedded migrations not yet recorded in _migrations,
// in lexical file order.
func Migrate(db *sql.DB) error {
	return migrateFS(db, assets.Migrations, "sql")
}

func migrateFS(db *sql.DB, fsys fs.FS, root string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	todo, err := pending(db, fsys, root)
	if err != nil {
		return err
	}
	for _, m := range todo {
		if err := apply(db, m); err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		log.Info().Str("migration", m.name).Bool("selfManaged", m.selfManaged()).Msg("applied")
	}
	return nil
}

// pending lists scripts under root that have no _migrations row.
func pending(db *sql.DB, fsys fs.FS, root string) ([]migration, error) {
	files, err := fs.Glob(fsys, root+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", root, err)
	}
	sort.Strings(files)

	var out []migration
	for _, f := range files {
		var one int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&one)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("query _migrations: %w", err)
		}
		body, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		out = append(out, migration{name: f, body: string(body)})
	}
	return out, nil
}

// apply runs one script and records it. Ordinary scripts share a
// transaction with their _migrations row.
func apply(db *sql.DB, m migration) error {
	if m.selfManaged() {
		if _, err := db.Exec(m.body); err != nil {
			return err
		}
		_, err := db.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.name)
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(m.body); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.name); err != nil {
		return err
	}
	return tx.Commit()
}

// OpenAndMigrate is Open followed by Migrate.
func OpenAndMigrate(path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
