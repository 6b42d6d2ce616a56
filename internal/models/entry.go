package models

// Field is a named, weighted text slice of an entry. Lower weight means a match ranks better.
type Field struct {
	Name   string  `json:"name"`
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
	// Words are the entry words first seen in this field; fuzzy matches are attributed here.
	Words []string `json:"-"`
}

// Suggestion is an autocomplete candidate taken from an entry's title, slug, or tags.
type Suggestion struct {
	Value string     `json:"value"`
	Type  EntityType `json:"type"`
	Label string     `json:"label"`
}

// IndexEntry is one indexed unit derived from a page, post, or media record.
type IndexEntry struct {
	ID          string       `json:"id"`
	Type        EntityType   `json:"type"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Fields      []Field      `json:"fields"`
	Words       []string     `json:"words"`
	PlainText   string       `json:"plain_text"`
	Record      RawRecord    `json:"record"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Index is the flat, ordered list of entries: pages, then posts, then media.
type Index []*IndexEntry

// CountByType tallies entries per entity type.
func (idx Index) CountByType() TypeCounts {
	var c TypeCounts
	for _, e := range idx {
		c.Add(e.Type)
	}
	return c
}
