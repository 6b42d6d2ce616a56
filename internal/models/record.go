// Package models defines core data structures for records, index entries, queries, and search results.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EntityType is the kind of content a record or index entry represents.
type EntityType string

const (
	// EntityPage is a CMS page.
	EntityPage EntityType = "Page"
	// EntityPost is a blog post.
	EntityPost EntityType = "Post"
	// EntityMedia is an uploaded media item.
	EntityMedia EntityType = "Media"
)

// Lower returns the lowercased type name used by type filters ("page", "post", "media").
func (t EntityType) Lower() string {
	return strings.ToLower(string(t))
}

// RawRecord is an untyped key/value document supplied by the record store.
// Accessors never fail: missing or wrong-typed values read as empty.
type RawRecord map[string]any

// String returns the value at key when it is a string, otherwise "".
func (r RawRecord) String(key string) string {
	if r == nil {
		return ""
	}
	s, ok := r[key].(string)
	if !ok {
		return ""
	}
	return s
}

// FirstString returns the first non-empty string among keys.
func (r RawRecord) FirstString(keys ...string) string {
	for _, k := range keys {
		if s := r.String(k); s != "" {
			return s
		}
	}
	return ""
}

// ID returns the record identifier. Numeric ids are formatted without exponent.
func (r RawRecord) ID() string {
	if r == nil {
		return ""
	}
	switch v := r["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Tags returns the tag list at key. A comma-separated string and a list of strings
// are both accepted; entries are trimmed and empties dropped. Anything else yields nil.
func (r RawRecord) Tags(key string) []string {
	if r == nil {
		return nil
	}
	var raw []string
	switch v := r[key].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// RecordSet is what the record store hands to the index builder.
type RecordSet struct {
	Pages []RawRecord `json:"pages"`
	Posts []RawRecord `json:"posts"`
	Media []RawRecord `json:"media"`
}

// Len returns the total number of records.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Pages) + len(s.Posts) + len(s.Media)
}
