package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahsanfayaz52/sharednotes/internal/db/dbtest"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

func createUser(t *testing.T, s *store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createNote(t *testing.T, s *store.Store, owner int, title string, at time.Time) *models.Note {
	t.Helper()
	n := &models.Note{UserID: owner, Title: title, Content: title + " body", DatePosted: at, DateUpdated: at}
	require.NoError(t, s.InsertNote(context.Background(), n))
	return n
}

func TestCreateUserDuplicate(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	assert.NotZero(t, alice.ID)
	assert.Equal(t, models.DefaultImageFile, alice.ImageFile)

	err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = s.CreateUser(ctx, &models.User{Username: "other", Email: "alice@example.com", Password: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSearchUsernames(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()

	me := createUser(t, s, "bobby")
	for _, name := range []string{"Bob", "bobcat", "robert", "BOBO", "abob", "bob_1", "zed"} {
		createUser(t, s, name)
	}

	names, err := s.SearchUsernames(ctx, "bob", me.ID, 5)
	require.NoError(t, err)
	assert.Len(t, names, 5)
	assert.NotContains(t, names, "bobby")
	assert.NotContains(t, names, "zed")

	names, err = s.SearchUsernames(ctx, "_", me.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob_1"}, names, "LIKE wildcards are matched literally")
}

func TestSearchFoldsNonASCIICase(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	me := createUser(t, s, "me")
	createUser(t, s, "Ärger")
	n := createNote(t, s, me.ID, "ÜBER plans", at)

	rows, err := s.ListNotes(ctx, me.ID, store.NoteFilter{Search: "über"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n.ID, rows[0].Note.ID)

	rows, err = s.ListNotes(ctx, me.ID, store.NoteFilter{Search: "ÜBER PLANS BODY"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	names, err := s.SearchUsernames(ctx, "ärg", me.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ärger"}, names)
}

func TestInTxRollsBack(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.ResolveTag(ctx, "half-made"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	tags, err := s.TagsNamed(ctx, "half-made")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestResolveTagIsIdempotent(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()

	var first int
	err := s.InTx(ctx, func(tx *store.Store) error {
		var err error
		first, err = tx.ResolveTag(ctx, "work")
		if err != nil {
			return err
		}
		again, err := tx.ResolveTag(ctx, "work")
		if err != nil {
			return err
		}
		assert.Equal(t, first, again)
		return nil
	})
	require.NoError(t, err)

	other, err := s.ResolveTag(ctx, "Work")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.InTx(ctx, func(tx *store.Store) error {
				_, err := tx.ResolveTag(ctx, "race")
				return err
			})
		}()
	}
	wg.Wait()

	tags, err := s.TagsNamed(ctx, "race")
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestUpsertShare(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	note := createNote(t, s, alice.ID, "plans", time.Now())

	sh, err := s.UpsertShare(ctx, note.ID, bob.ID, models.ShareRead)
	require.NoError(t, err)
	assert.Equal(t, models.ShareRead, sh.Permission)
	assert.Equal(t, "bob", sh.Username)

	sh2, err := s.UpsertShare(ctx, note.ID, bob.ID, models.ShareWrite)
	require.NoError(t, err)
	assert.Equal(t, sh.ID, sh2.ID)
	assert.Equal(t, models.ShareWrite, sh2.Permission)

	shares, err := s.SharesForNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, shares, 1)
}

func TestDeleteNoteRemovesSharesAndTags(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	note := createNote(t, s, alice.ID, "doomed", time.Now())

	tagID, err := s.ResolveTag(ctx, "tmp")
	require.NoError(t, err)
	require.NoError(t, s.SetNoteTags(ctx, note.ID, []int{tagID}))
	_, err = s.UpsertShare(ctx, note.ID, bob.ID, models.ShareWrite)
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(ctx, note.ID))

	_, err = s.NoteByID(ctx, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ShareFor(ctx, note.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	tags, err := s.TagsForNotes(ctx, []int{note.ID})
	require.NoError(t, err)
	assert.Empty(t, tags[note.ID])

	kept, err := s.TagsNamed(ctx, "tmp")
	require.NoError(t, err)
	assert.Len(t, kept, 1, "orphan tags are kept")

	assert.ErrorIs(t, s.DeleteNote(ctx, note.ID), store.ErrNotFound)
}

func TestListNotesOrderingAndFilters(t *testing.T) {
	s := dbtest.NewStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	n1 := createNote(t, s, alice.ID, "Groceries", base)
	n2 := createNote(t, s, alice.ID, "Pinned plan", base.Add(time.Minute))
	n2.IsPinned = true
	n2.DateUpdated = base.Add(time.Hour)
	require.NoError(t, s.UpdateNote(ctx, n2))
	n3 := createNote(t, s, bob.ID, "Shared 100% secret", base.Add(2*time.Minute))
	createNote(t, s, bob.ID, "Private", base.Add(3*time.Minute))
	_, err := s.UpsertShare(ctx, n3.ID, alice.ID, models.ShareRead)
	require.NoError(t, err)

	rows, err := s.ListNotes(ctx, alice.ID, store.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{n2.ID, n3.ID, n1.ID}, []int{rows[0].Note.ID, rows[1].Note.ID, rows[2].Note.ID})
	assert.Nil(t, rows[0].Share)
	require.NotNil(t, rows[1].Share)
	assert.Equal(t, models.ShareRead, rows[1].Share.Permission)
	assert.Equal(t, "bob", rows[1].OwnerUsername)

	rows, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{Search: "GROC"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n1.ID, rows[0].Note.ID)

	rows, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n3.ID, rows[0].Note.ID)

	tagID, err := s.ResolveTag(ctx, "home")
	require.NoError(t, err)
	require.NoError(t, s.SetNoteTags(ctx, n1.ID, []int{tagID}))

	rows, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{Tag: "home"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n1.ID, rows[0].Note.ID)

	rows, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{Tag: "Home"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	counts, err := s.TagCounts(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Name: "home", Count: 1}}, counts)
}
