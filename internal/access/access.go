// Package access resolves an actor's effective permission on a note.
package access

import (
	"context"
	"errors"

	"github.com/ahsanfayaz52/sharednotes/internal/errs"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

// ShareLookup finds the grant of a note to a user. It returns
// store.ErrNotFound when there is none.
type ShareLookup interface {
	ShareFor(ctx context.Context, noteID, userID int) (*models.NoteShare, error)
}

// Level computes the permission from an already loaded share row.
// share may be nil.
func Level(note *models.Note, actorID int, share *models.NoteShare) models.Permission {
	if note.UserID == actorID {
		return models.PermissionOwner
	}
	if share == nil || share.NoteID != note.ID || share.UserID != actorID {
		return models.PermissionNone
	}
	return share.Permission.Level()
}

// Resolve looks up the actor's share on note when the actor is not its owner.
func Resolve(ctx context.Context, shares ShareLookup, note *models.Note, actorID int) (models.Permission, error) {
	if note.UserID == actorID {
		return models.PermissionOwner, nil
	}
	share, err := shares.ShareFor(ctx, note.ID, actorID)
	if errors.Is(err, store.ErrNotFound) {
		return models.PermissionNone, nil
	}
	if err != nil {
		return models.PermissionNone, errs.Store("resolve permission", err)
	}
	return Level(note, actorID, share), nil
}

// Require fails with a Forbidden error unless level grants min.
func Require(level, min models.Permission) error {
	if !level.AtLeast(min) {
		return errs.Forbidden()
	}
	return nil
}
