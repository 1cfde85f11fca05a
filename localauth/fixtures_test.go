package localauth

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

var testOpts = TokenOptions{
	Secret: []byte("c2VjcmV0"),
	Exp:    time.Hour,
}

type fixture struct {
	ctx      context.Context
	db       *sql.DB
	accounts *AccountStore
	verifier *Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	goose.SetBaseFS(os.DirFS("../migrations"))
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatal(err)
	}
	if err := goose.Up(db, "."); err != nil {
		t.Fatal(err)
	}

	accounts := NewAccountStore(db)
	return &fixture{
		ctx:      context.Background(),
		db:       db,
		accounts: accounts,
		verifier: NewVerifier(accounts, testOpts),
	}
}
