package models

import (
	"encoding/json"
	"strings"
)

// Permission is an actor's effective access to a note.
// Ordered: PermissionOwner > PermissionWrite > PermissionRead > PermissionNone.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionRead
	PermissionWrite
	PermissionOwner
)

func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	case PermissionOwner:
		return "owner"
	default:
		return "none"
	}
}

func (p Permission) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// AtLeast reports whether p grants everything min grants.
func (p Permission) AtLeast(min Permission) bool {
	return p != PermissionNone && p >= min
}

// SharePermission is the level stored on a NoteShare row.
type SharePermission string

const (
	ShareRead  SharePermission = "read"
	ShareWrite SharePermission = "write"
)

// ParseSharePermission accepts "read" or "write"; empty defaults to read.
func ParseSharePermission(s string) (SharePermission, bool) {
	switch strings.TrimSpace(s) {
	case "", string(ShareRead):
		return ShareRead, true
	case string(ShareWrite):
		return ShareWrite, true
	}
	return "", false
}

func (s SharePermission) Level() Permission {
	switch s {
	case ShareWrite:
		return PermissionWrite
	case ShareRead:
		return PermissionRead
	}
	return PermissionNone
}
