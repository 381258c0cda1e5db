package models

type NoteShare struct {
	ID         int             `json:"id"`
	NoteID     int             `json:"note_id"`
	UserID     int             `json:"user_id"`
	Username   string          `json:"username"`
	Permission SharePermission `json:"permission"`
}
