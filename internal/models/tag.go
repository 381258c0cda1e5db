package models

import (
	"encoding/json"
	"errors"
	"strings"
)

type Tag struct {
	ID   int
	Name string
}

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagList decodes either a comma-delimited string or a list of strings.
// Entries are not normalized here.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = strings.Split(s, ",")
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("tags must be a string or a list of strings")
	}
	*t = list
	return nil
}
