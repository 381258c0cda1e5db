package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ahsanfayaz52/sharednotes/internal/models"
)

// NoteRow is a listed note with its owner's username and the listing
// actor's share row, if any.
type NoteRow struct {
	Note          models.Note
	OwnerUsername string
	Share         *models.NoteShare
}

type NoteFilter struct {
	// Search matches title or content, case-insensitively.
	Search string
	// Tag keeps notes carrying exactly this tag name.
	Tag string
}

const noteColumns = `n.id, n.user_id, n.title, n.content, n.date_posted, n.date_updated, n.reminder_date, n.is_pinned`

func scanNote(row interface{ Scan(...any) error }, extra ...any) (*models.Note, error) {
	var (
		n        models.Note
		reminder sql.NullTime
	)
	dest := append([]any{&n.ID, &n.UserID, &n.Title, &n.Content, &n.DatePosted, &n.DateUpdated, &reminder, &n.IsPinned}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	n.DatePosted = n.DatePosted.UTC()
	n.DateUpdated = n.DateUpdated.UTC()
	if reminder.Valid {
		t := reminder.Time.UTC()
		n.ReminderDate = &t
	}
	return &n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// InsertNote stores n and sets its ID.
func (s *Store) InsertNote(ctx context.Context, n *models.Note) error {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO notes (user_id, title, content, date_posted, date_updated, reminder_date, is_pinned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Title, n.Content, n.DatePosted.UTC(), n.DateUpdated.UTC(), nullTime(n.ReminderDate), n.IsPinned)
	if err != nil {
		return s.wrap("insert note", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return s.wrap("note id", err)
	}
	n.ID = int(id)
	return nil
}

// NoteByID loads a note. Inside a transaction the row is locked on MySQL.
func (s *Store) NoteByID(ctx context.Context, id int) (*models.Note, error) {
	n, err := scanNote(s.q.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes n WHERE n.id = ?`+s.lock(), id))
	if err != nil {
		return nil, s.wrap("select note", err)
	}
	return n, nil
}

func (s *Store) UpdateNote(ctx context.Context, n *models.Note) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, content = ?, is_pinned = ?, reminder_date = ?, date_updated = ?
		WHERE id = ?`,
		n.Title, n.Content, n.IsPinned, nullTime(n.ReminderDate), n.DateUpdated.UTC(), n.ID)
	if err != nil {
		return s.wrap("update note", err)
	}
	return s.expectRow(res, "update note")
}

// DeleteNote removes the note with its tag links and shares.
func (s *Store) DeleteNote(ctx context.Context, id int) error {
	return s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
			return tx.wrap("delete note tags", err)
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM note_shares WHERE note_id = ?`, id); err != nil {
			return tx.wrap("delete note shares", err)
		}
		res, err := tx.q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
		if err != nil {
			return tx.wrap("delete note", err)
		}
		return tx.expectRow(res, "delete note")
	})
}

func (s *Store) expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return s.wrap(op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNotes returns the notes actorID owns or holds a share on, pinned
// first, then newest first.
func (s *Store) ListNotes(ctx context.Context, actorID int, f NoteFilter) ([]NoteRow, error) {
	where := []string{"(n.user_id = ? OR s.id IS NOT NULL)"}
	args := []any{actorID, actorID}

	if f.Search != "" {
		where = append(where, "(LOWER(n.title) LIKE ? ESCAPE '!' OR LOWER(n.content) LIKE ? ESCAPE '!')")
		p := containsPattern(f.Search)
		args = append(args, p, p)
	}

	if f.Tag != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM note_tags nt JOIN tags t ON t.id = nt.tag_id
			WHERE nt.note_id = n.id AND t.name = ?)`)
		args = append(args, f.Tag)
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT `+noteColumns+`, u.username, s.id, s.permission
		FROM notes n
		JOIN users u ON u.id = n.user_id
		LEFT JOIN note_shares s ON s.note_id = n.id AND s.user_id = ?
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY n.is_pinned DESC, n.date_posted DESC, n.id DESC`, args...)
	if err != nil {
		return nil, s.wrap("list notes", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var (
			owner     string
			shareID   sql.NullInt64
			sharePerm sql.NullString
		)
		n, err := scanNote(rows, &owner, &shareID, &sharePerm)
		if err != nil {
			return nil, s.wrap("scan note", err)
		}

		row := NoteRow{Note: *n, OwnerUsername: owner}
		if shareID.Valid {
			row.Share = &models.NoteShare{
				ID:         int(shareID.Int64),
				NoteID:     n.ID,
				UserID:     actorID,
				Permission: models.SharePermission(sharePerm.String),
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("list notes", err)
	}
	return out, nil
}

// TagCounts counts tag usage across the notes visible to actorID.
func (s *Store) TagCounts(ctx context.Context, actorID int) ([]models.TagCount, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT t.name, COUNT(*)
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		JOIN notes n ON n.id = nt.note_id
		LEFT JOIN note_shares s ON s.note_id = n.id AND s.user_id = ?
		WHERE n.user_id = ? OR s.id IS NOT NULL
		GROUP BY t.name
		ORDER BY COUNT(*) DESC, t.name`, actorID, actorID)
	if err != nil {
		return nil, s.wrap("tag counts", err)
	}
	defer rows.Close()

	counts := []models.TagCount{}
	for rows.Next() {
		var c models.TagCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, s.wrap("scan tag count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("tag counts", err)
	}
	return counts, nil
}
