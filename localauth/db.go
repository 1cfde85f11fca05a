package localauth

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// OpenDB opens the local account database and brings the schema up to date.
func OpenDB(file, migrationDir string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+file+"?cache=shared&journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening account db: %w", err)
	}

	goose.SetBaseFS(os.DirFS(migrationDir))
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating account db: %w", err)
	}

	return db, nil
}
