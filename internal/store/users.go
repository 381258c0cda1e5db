package store

import (
	"context"
	"strings"
	"time"

	"github.com/ahsanfayaz52/sharednotes/internal/models"
)

const userColumns = `id, username, email, password, image_file, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ImageFile, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and sets its ID. A taken username or email yields
// ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ImageFile == "" {
		u.ImageFile = models.DefaultImageFile
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO users (username, email, password, image_file, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, u.ImageFile, u.CreatedAt)
	if err != nil {
		return s.wrap("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return s.wrap("user id", err)
	}
	u.ID = int(id)
	return nil
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, s.wrap("select user", err)
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, s.wrap("select user by email", err)
	}
	return u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return nil, s.wrap("select user by username", err)
	}
	return u, nil
}

// SearchUsernames returns up to limit usernames containing q,
// case-insensitively, skipping the user excludeID.
func (s *Store) SearchUsernames(ctx context.Context, q string, excludeID, limit int) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT username FROM users
		WHERE LOWER(username) LIKE ? ESCAPE '!' AND id <> ?
		ORDER BY username
		LIMIT ?`,
		containsPattern(q), excludeID, limit)
	if err != nil {
		return nil, s.wrap("search users", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.wrap("scan username", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("search users", err)
	}
	return names, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lower-cased LIKE pattern matching q anywhere,
// with wildcards in q escaped by '!'.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
