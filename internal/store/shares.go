package store

import (
	"context"

	"github.com/ahsanfayaz52/sharednotes/internal/models"
)

const shareSelect = `
	SELECT s.id, s.note_id, s.user_id, u.username, s.permission
	FROM note_shares s
	JOIN users u ON u.id = s.user_id`

func scanShare(row interface{ Scan(...any) error }) (*models.NoteShare, error) {
	var sh models.NoteShare
	var perm string
	if err := row.Scan(&sh.ID, &sh.NoteID, &sh.UserID, &sh.Username, &perm); err != nil {
		return nil, err
	}
	sh.Permission = models.SharePermission(perm)
	return &sh, nil
}

// ShareFor returns the grant of noteID to userID, or ErrNotFound.
func (s *Store) ShareFor(ctx context.Context, noteID, userID int) (*models.NoteShare, error) {
	sh, err := scanShare(s.q.QueryRowContext(ctx,
		shareSelect+` WHERE s.note_id = ? AND s.user_id = ?`, noteID, userID))
	if err != nil {
		return nil, s.wrap("select share", err)
	}
	return sh, nil
}

// UpsertShare creates the grant or overwrites its permission.
func (s *Store) UpsertShare(ctx context.Context, noteID, userID int, perm models.SharePermission) (*models.NoteShare, error) {
	if _, err := s.q.ExecContext(ctx, s.dialect.ShareUpsert, noteID, userID, string(perm)); err != nil {
		return nil, s.wrap("upsert share", err)
	}
	return s.ShareFor(ctx, noteID, userID)
}

// SharesForNote lists a note's grants ordered by username.
func (s *Store) SharesForNote(ctx context.Context, noteID int) ([]models.NoteShare, error) {
	rows, err := s.q.QueryContext(ctx, shareSelect+` WHERE s.note_id = ? ORDER BY u.username`, noteID)
	if err != nil {
		return nil, s.wrap("select shares", err)
	}
	defer rows.Close()

	shares := []models.NoteShare{}
	for rows.Next() {
		sh, err := scanShare(rows)
		if err != nil {
			return nil, s.wrap("scan share", err)
		}
		shares = append(shares, *sh)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("select shares", err)
	}
	return shares, nil
}
