// Package notes implements note CRUD on behalf of an explicit actor.
package notes

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ahsanfayaz52/sharednotes/internal/access"
	"github.com/ahsanfayaz52/sharednotes/internal/errs"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

const maxTitleLength = 100

type CreateInput struct {
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Tags         models.TagList `json:"tags"`
	IsPinned     bool           `json:"is_pinned"`
	ReminderDate string         `json:"reminder_date"`
}

// UpdateInput fields left unset keep their stored values.
type UpdateInput struct {
	Title        models.Optional[string]         `json:"title"`
	Content      models.Optional[string]         `json:"content"`
	IsPinned     models.Optional[bool]           `json:"is_pinned"`
	ReminderDate models.Optional[string]         `json:"reminder_date"`
	Tags         models.Optional[models.TagList] `json:"tags"`
}

type ListQuery struct {
	Search string
	Tag    string
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithStrictReminders rejects malformed reminder dates instead of ignoring them.
func WithStrictReminders(strict bool) Option {
	return func(s *Service) { s.strictReminders = strict }
}

type Service struct {
	store           *store.Store
	now             func() time.Time
	strictReminders bool
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.NoteRecord, error) {
	if err := validateText(in.Title, in.Content); err != nil {
		return nil, err
	}
	tags := NormalizeTags(in.Tags)
	if err := validateTags(tags); err != nil {
		return nil, err
	}

	now := s.timestamp()
	note := &models.Note{
		UserID:      actor.ID,
		Title:       in.Title,
		Content:     in.Content,
		DatePosted:  now,
		DateUpdated: now,
		IsPinned:    in.IsPinned,
	}
	if in.ReminderDate != "" {
		reminder, err := s.parseReminder(in.ReminderDate)
		if err != nil {
			return nil, err
		}
		note.ReminderDate = reminder
	}

	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.InsertNote(ctx, note); err != nil {
			return errs.Store("save note", err)
		}
		return setTags(ctx, tx, note.ID, tags)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Debug("note created", zap.Int("note_id", note.ID), zap.Int("user_id", actor.ID), zap.Int("tags", len(tags)))
	return &models.NoteRecord{
		Note:          *note,
		Tags:          sortedCopy(tags),
		Permission:    models.PermissionOwner,
		OwnerUsername: actor.Username,
	}, nil
}

func (s *Service) List(ctx context.Context, actor *models.User, q ListQuery) ([]models.NoteRecord, error) {
	rows, err := s.store.ListNotes(ctx, actor.ID, store.NoteFilter{
		Search: strings.TrimSpace(q.Search),
		Tag:    strings.TrimSpace(q.Tag),
	})
	if err != nil {
		return nil, errs.Store("list notes", err)
	}

	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.Note.ID
	}
	tags, err := s.store.TagsForNotes(ctx, ids)
	if err != nil {
		return nil, errs.Store("load tags", err)
	}

	out := make([]models.NoteRecord, 0, len(rows))
	for _, r := range rows {
		note := r.Note
		out = append(out, models.NoteRecord{
			Note:          note,
			Tags:          tags[note.ID],
			Permission:    access.Level(&note, actor.ID, r.Share),
			OwnerUsername: r.OwnerUsername,
		})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor *models.User, id int) (*models.NoteRecord, error) {
	note, level, err := s.authorize(ctx, s.store, actor, id, models.PermissionRead)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, s.store, note, level)
}

func (s *Service) Update(ctx context.Context, actor *models.User, id int, in UpdateInput) (*models.NoteRecord, error) {
	var rec *models.NoteRecord
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		note, level, err := s.authorize(ctx, tx, actor, id, models.PermissionWrite)
		if err != nil {
			return err
		}

		if in.Title.Set {
			note.Title = in.Title.Value
		}
		if in.Content.Set {
			note.Content = in.Content.Value
		}
		if in.Title.Set || in.Content.Set {
			if err := validateText(note.Title, note.Content); err != nil {
				return err
			}
		}
		if in.IsPinned.Set {
			note.IsPinned = in.IsPinned.Value
		}
		if in.ReminderDate.Set {
			if err := s.applyReminder(note, in.ReminderDate); err != nil {
				return err
			}
		}
		if in.Tags.Set {
			tags := NormalizeTags(in.Tags.Value)
			if err := validateTags(tags); err != nil {
				return err
			}
			if err := setTags(ctx, tx, note.ID, tags); err != nil {
				return err
			}
		}

		note.DateUpdated = s.timestamp()
		if err := tx.UpdateNote(ctx, note); err != nil {
			return errs.Store("update note", err)
		}

		rec, err = s.record(ctx, tx, note, level)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, actor *models.User, id int) error {
	return s.store.InTx(ctx, func(tx *store.Store) error {
		if _, _, err := s.authorize(ctx, tx, actor, id, models.PermissionOwner); err != nil {
			return err
		}
		if err := tx.DeleteNote(ctx, id); err != nil {
			return errs.Store("delete note", err)
		}
		zap.L().Debug("note deleted", zap.Int("note_id", id), zap.Int("user_id", actor.ID))
		return nil
	})
}

// Tags counts tag usage across the notes the actor can see.
func (s *Service) Tags(ctx context.Context, actor *models.User) ([]models.TagCount, error) {
	counts, err := s.store.TagCounts(ctx, actor.ID)
	if err != nil {
		return nil, errs.Store("tag counts", err)
	}
	return counts, nil
}

// authorize loads the note and checks the actor holds at least min.
func (s *Service) authorize(ctx context.Context, st *store.Store, actor *models.User, id int, min models.Permission) (*models.Note, models.Permission, error) {
	note, err := st.NoteByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.PermissionNone, errs.NotFound("Note")
	}
	if err != nil {
		return nil, models.PermissionNone, errs.Store("load note", err)
	}

	level, err := access.Resolve(ctx, st, note, actor.ID)
	if err != nil {
		return nil, models.PermissionNone, err
	}
	if err := access.Require(level, min); err != nil {
		return nil, level, err
	}
	return note, level, nil
}

func (s *Service) record(ctx context.Context, st *store.Store, note *models.Note, level models.Permission) (*models.NoteRecord, error) {
	owner, err := st.UserByID(ctx, note.UserID)
	if err != nil {
		return nil, errs.Store("load owner", err)
	}
	tags, err := st.TagsForNotes(ctx, []int{note.ID})
	if err != nil {
		return nil, errs.Store("load tags", err)
	}
	return &models.NoteRecord{
		Note:          *note,
		Tags:          tags[note.ID],
		Permission:    level,
		OwnerUsername: owner.Username,
	}, nil
}

func (s *Service) applyReminder(note *models.Note, in models.Optional[string]) error {
	if in.Null || strings.TrimSpace(in.Value) == "" {
		note.ReminderDate = nil
		return nil
	}
	reminder, err := s.parseReminder(in.Value)
	if err != nil {
		return err
	}
	if reminder != nil {
		note.ReminderDate = reminder
	}
	return nil
}

// parseReminder returns nil, nil for a malformed value unless strict.
func (s *Service) parseReminder(v string) (*time.Time, error) {
	t, err := time.Parse(models.ReminderLayout, strings.TrimSpace(v))
	if err != nil {
		if s.strictReminders {
			return nil, errs.Validation("reminder_date must use the format YYYY-MM-DDTHH:MM")
		}
		zap.L().Warn("ignoring malformed reminder date", zap.String("value", v))
		return nil, nil
	}
	return &t, nil
}

func setTags(ctx context.Context, tx *store.Store, noteID int, names []string) error {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := tx.ResolveTag(ctx, name)
		if err != nil {
			return errs.Store("resolve tag", err)
		}
		ids = append(ids, id)
	}
	if err := tx.SetNoteTags(ctx, noteID, ids); err != nil {
		return errs.Store("link tags", err)
	}
	return nil
}

func validateText(title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return errs.Validation("Title and Content required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return errs.Validation("Title must be at most %d characters", maxTitleLength)
	}
	return nil
}

func sortedCopy(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return out
}
