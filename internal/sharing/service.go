// Package sharing grants other users read or write access to a note.
package sharing

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ahsanfayaz52/sharednotes/internal/access"
	"github.com/ahsanfayaz52/sharednotes/internal/errs"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

type ShareInput struct {
	Username   string `json:"username"`
	Permission string `json:"permission"`
}

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Share grants in.Username access to the note, or overwrites an existing
// grant. Only the note's owner may share it.
func (s *Service) Share(ctx context.Context, actor *models.User, noteID int, in ShareInput) (*models.NoteShare, error) {
	var share *models.NoteShare
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if _, err := ownedNote(ctx, tx, actor, noteID); err != nil {
			return err
		}

		target, err := tx.UserByUsername(ctx, strings.TrimSpace(in.Username))
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFound("User")
		}
		if err != nil {
			return errs.Store("load user", err)
		}
		if target.ID == actor.ID {
			return errs.Validation("Cannot share with yourself")
		}

		perm, ok := models.ParseSharePermission(in.Permission)
		if !ok {
			return errs.Validation("Permission must be read or write")
		}

		share, err = tx.UpsertShare(ctx, noteID, target.ID, perm)
		if err != nil {
			return errs.Store("save share", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("note shared",
		zap.Int("note_id", noteID),
		zap.Int("owner_id", actor.ID),
		zap.Int("target_id", share.UserID),
		zap.String("permission", string(share.Permission)))
	return share, nil
}

// List returns the note's grants. Only the owner may see them.
func (s *Service) List(ctx context.Context, actor *models.User, noteID int) ([]models.NoteShare, error) {
	if _, err := ownedNote(ctx, s.store, actor, noteID); err != nil {
		return nil, err
	}
	shares, err := s.store.SharesForNote(ctx, noteID)
	if err != nil {
		return nil, errs.Store("list shares", err)
	}
	return shares, nil
}

func ownedNote(ctx context.Context, st *store.Store, actor *models.User, noteID int) (*models.Note, error) {
	note, err := st.NoteByID(ctx, noteID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("Note")
	}
	if err != nil {
		return nil, errs.Store("load note", err)
	}
	if err := access.Require(access.Level(note, actor.ID, nil), models.PermissionOwner); err != nil {
		return nil, err
	}
	return note, nil
}
