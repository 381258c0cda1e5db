package sharing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahsanfayaz52/sharednotes/internal/db/dbtest"
	"github.com/ahsanfayaz52/sharednotes/internal/errs"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

type fixture struct {
	svc   *Service
	store *store.Store
	alice *models.User
	bob   *models.User
	carol *models.User
	note  *models.Note
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := dbtest.NewStore(t)
	f := &fixture{svc: NewService(st), store: st}

	newUser := func(name string) *models.User {
		u := &models.User{Username: name, Email: name + "@example.com", Password: "hash"}
		require.NoError(t, st.CreateUser(ctx, u))
		return u
	}
	f.alice, f.bob, f.carol = newUser("alice"), newUser("bob"), newUser("carol")

	now := time.Now().UTC()
	f.note = &models.Note{UserID: f.alice.ID, Title: "plans", Content: "c", DatePosted: now, DateUpdated: now}
	require.NoError(t, st.InsertNote(ctx, f.note))
	return f
}

func TestShareIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sh, err := f.svc.Share(ctx, f.alice, f.note.ID, ShareInput{Username: "bob", Permission: "write"})
		require.NoError(t, err)
		assert.Equal(t, models.ShareWrite, sh.Permission)
		assert.Equal(t, f.bob.ID, sh.UserID)
	}

	shares, err := f.svc.List(ctx, f.alice, f.note.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, models.ShareWrite, shares[0].Permission)
	assert.Equal(t, "bob", shares[0].Username)
}

func TestShareOverwritesPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Share(ctx, f.alice, f.note.ID, ShareInput{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, models.ShareRead, first.Permission, "permission defaults to read")

	second, err := f.svc.Share(ctx, f.alice, f.note.ID, ShareInput{Username: "bob", Permission: "write"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ShareWrite, second.Permission)
}

func TestShareErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  *models.User
		noteID int
		in     ShareInput
		kind   errs.Kind
	}{
		{"missing note", f.alice, f.note.ID + 50, ShareInput{Username: "bob"}, errs.KindNotFound},
		{"not owner", f.bob, f.note.ID, ShareInput{Username: "carol"}, errs.KindForbidden},
		{"unknown user", f.alice, f.note.ID, ShareInput{Username: "mallory"}, errs.KindNotFound},
		{"self share", f.alice, f.note.ID, ShareInput{Username: "alice"}, errs.KindValidation},
		{"bad permission", f.alice, f.note.ID, ShareInput{Username: "bob", Permission: "admin"}, errs.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Share(ctx, tt.actor, tt.noteID, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))
		})
	}

	shares, err := f.store.SharesForNote(ctx, f.note.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)
}

func TestWriteGranteeCannotReshare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Share(ctx, f.alice, f.note.ID, ShareInput{Username: "bob", Permission: "write"})
	require.NoError(t, err)

	_, err = f.svc.Share(ctx, f.bob, f.note.ID, ShareInput{Username: "carol"})
	assert.True(t, errs.Is(err, errs.KindForbidden))

	_, err = f.svc.List(ctx, f.bob, f.note.ID)
	assert.True(t, errs.Is(err, errs.KindForbidden))
}
