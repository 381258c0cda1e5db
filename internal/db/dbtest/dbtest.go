// Package dbtest opens isolated in-memory SQLite databases for tests.
package dbtest

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ahsanfayaz52/sharednotes/internal/db"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

var counter atomic.Int64

// Open returns a migrated in-memory database closed at test cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("file:notes_test_%d?mode=memory&cache=shared", counter.Add(1))
	conn, err := db.InitSQLite(name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// NewStore returns a store over a fresh in-memory database.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	return store.New(Open(t), db.SQLite)
}
