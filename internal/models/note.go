package models

import "time"

// ReminderLayout is the accepted input format for reminder dates.
const ReminderLayout = "2006-01-02T15:04"

// DisplayLayout is how dates render in note listings.
const DisplayLayout = "2006-01-02 15:04"

type Note struct {
	ID           int
	UserID       int
	Title        string
	Content      string
	DatePosted   time.Time
	DateUpdated  time.Time
	ReminderDate *time.Time
	IsPinned     bool
}

// NoteRecord is a note as seen by one actor.
type NoteRecord struct {
	Note
	Tags          []string
	Permission    Permission
	OwnerUsername string
}

type NoteResponse struct {
	ID                int        `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	DatePosted        time.Time  `json:"date_posted"`
	DatePostedDisplay string     `json:"date_posted_display"`
	DateUpdated       time.Time  `json:"date_updated"`
	ReminderDate      *time.Time `json:"reminder_date"`
	IsPinned          bool       `json:"is_pinned"`
	Tags              []string   `json:"tags"`
	Permission        Permission `json:"permission"`
	Owner             string     `json:"owner"`
	IsOwner           bool       `json:"is_owner"`
}

func (r *NoteRecord) Response() NoteResponse {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:                r.ID,
		Title:             r.Title,
		Content:           r.Content,
		DatePosted:        r.DatePosted,
		DatePostedDisplay: r.DatePosted.Format(DisplayLayout),
		DateUpdated:       r.DateUpdated,
		ReminderDate:      r.ReminderDate,
		IsPinned:          r.IsPinned,
		Tags:              tags,
		Permission:        r.Permission,
		Owner:             r.OwnerUsername,
		IsOwner:           r.Permission == PermissionOwner,
	}
}
