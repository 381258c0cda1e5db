package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrateIsRepeatable(t *testing.T) {
	conn, err := InitSQLite("file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn, SQLite))

	for _, table := range []string{"users", "notes", "tags", "note_tags", "note_shares"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestSQLiteDuplicateDetection(t *testing.T) {
	conn, err := InitSQLite("file:dup_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO tags (name) VALUES ('work')`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO tags (name) VALUES ('work')`)
	require.Error(t, err)
	assert.True(t, SQLite.IsDuplicate(err))
	assert.True(t, SQLite.IsDuplicate(fmt.Errorf("insert tag: %w", err)))

	_, err = conn.Exec(`INSERT INTO tags (name) VALUES ('Work')`)
	assert.NoError(t, err, "tag names are case-sensitive")
}

func TestMySQLDuplicateDetection(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, MySQL.IsDuplicate(fmt.Errorf("wrapped: %w", dup)))
	assert.False(t, MySQL.IsDuplicate(&mysql.MySQLError{Number: 1045}))
	assert.False(t, MySQL.IsDuplicate(errors.New("boom")))
	assert.False(t, MySQL.IsDuplicate(nil))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "notes.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("notes.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:x?mode=memory"))
}

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	conn, err := InitSQLite("file:lower_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer conn.Close()

	var got string
	require.NoError(t, conn.QueryRow(`SELECT LOWER(?)`, "ÜBER Ärger").Scan(&got))
	assert.Equal(t, "über ärger", got)

	var null *string
	require.NoError(t, conn.QueryRow(`SELECT LOWER(NULL)`).Scan(&null))
	assert.Nil(t, null)
}
