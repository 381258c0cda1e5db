package db

import (
	"database/sql"
	"fmt"
)

// Dialect holds the statements that differ between MySQL and SQLite.
type Dialect struct {
	Name string

	// TagUpsert inserts a tag name, doing nothing if it already exists.
	TagUpsert string
	// ShareUpsert inserts (note_id, user_id, permission) or overwrites the
	// permission of the existing row.
	ShareUpsert string
	// LockRead is appended to selects that must see rows committed by
	// concurrent transactions.
	LockRead string

	schema      []string
	isDuplicate func(error) bool
}

// IsDuplicate reports whether err is a unique constraint violation.
func (d Dialect) IsDuplicate(err error) bool {
	return err != nil && d.isDuplicate != nil && d.isDuplicate(err)
}

// Migrate creates the tables if they do not exist.
func Migrate(db *sql.DB, d Dialect) error {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", d.Name, err)
		}
	}
	return nil
}
