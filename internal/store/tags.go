package store

import (
	"context"

	"github.com/ahsanfayaz52/sharednotes/internal/models"
)

// ResolveTag returns the id of the tag with exactly this name, creating it
// if needed. Concurrent callers with the same name get the same row.
func (s *Store) ResolveTag(ctx context.Context, name string) (int, error) {
	if _, err := s.q.ExecContext(ctx, s.dialect.TagUpsert, name); err != nil {
		return 0, s.wrap("upsert tag", err)
	}

	var id int
	err := s.q.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`+s.lock(), name).Scan(&id)
	if err != nil {
		return 0, s.wrap("select tag", err)
	}
	return id, nil
}

// SetNoteTags replaces the note's tag links with tagIDs.
func (s *Store) SetNoteTags(ctx context.Context, noteID int, tagIDs []int) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return s.wrap("clear note tags", err)
	}
	for _, id := range tagIDs {
		if _, err := s.q.ExecContext(ctx, `INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`, noteID, id); err != nil {
			return s.wrap("link note tag", err)
		}
	}
	return nil
}

// TagsForNotes maps each note id to its tag names, sorted by name.
func (s *Store) TagsForNotes(ctx context.Context, noteIDs []int) (map[int][]string, error) {
	out := make(map[int][]string, len(noteIDs))
	if len(noteIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(noteIDs))
	for i, id := range noteIDs {
		args[i] = id
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT nt.note_id, t.name
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (`+placeholders(len(noteIDs))+`)
		ORDER BY t.name`, args...)
	if err != nil {
		return nil, s.wrap("select note tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID int
			name   string
		)
		if err := rows.Scan(&noteID, &name); err != nil {
			return nil, s.wrap("scan note tag", err)
		}
		out[noteID] = append(out[noteID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("select note tags", err)
	}
	return out, nil
}

// TagsNamed returns every tag row with exactly this name.
func (s *Store) TagsNamed(ctx context.Context, name string) ([]models.Tag, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, name FROM tags WHERE name = ?`, name)
	if err != nil {
		return nil, s.wrap("select tags", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, s.wrap("scan tag", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
