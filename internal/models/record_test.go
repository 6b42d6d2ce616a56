package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRawRecord_String(t *testing.T) {
	r := RawRecord{"title": "Hello", "count": 3.0, "tags": []any{"a"}}
	if got := r.String("title"); got != "Hello" {
		t.Errorf("String(title) = %q", got)
	}
	if got := r.String("count"); got != "" {
		t.Errorf("non-string should coerce to empty, got %q", got)
	}
	if got := r.String("missing"); got != "" {
		t.Errorf("missing key should be empty, got %q", got)
	}
	var nilRec RawRecord
	if got := nilRec.String("title"); got != "" {
		t.Errorf("nil record: got %q", got)
	}
}

func TestRawRecord_ID(t *testing.T) {
	tests := []struct {
		name string
		rec  RawRecord
		want string
	}{
		{"string", RawRecord{"id": "abc"}, "abc"},
		{"float", RawRecord{"id": 42.0}, "42"},
		{"json number", RawRecord{"id": json.Number("7")}, "7"},
		{"int", RawRecord{"id": 9}, "9"},
		{"missing", RawRecord{}, ""},
		{"bool", RawRecord{"id": true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawRecord_Tags(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want []string
	}{
		{"comma string", " news, events ,,sale ", []string{"news", "events", "sale"}},
		{"any list", []any{" a ", 3.0, "", "b"}, []string{"a", "b"}},
		{"string list", []string{"x", " y"}, []string{"x", "y"}},
		{"number", 12.0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RawRecord{"tags": tt.val}.Tags("tags")
			if tt.want == nil {
				if got != nil {
					t.Errorf("Tags() = %v, want nil", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchQuery_Normalize(t *testing.T) {
	q := &SearchQuery{Query: "  shoes  ", Types: []string{" Media", "", "PAGE"}, Limit: -3}
	q.Normalize()
	if q.Query != "shoes" {
		t.Errorf("query = %q", q.Query)
	}
	if !reflect.DeepEqual(q.Types, []string{"media", "page"}) {
		t.Errorf("types = %v", q.Types)
	}
	if q.Limit != 0 {
		t.Errorf("negative limit should reset to 0, got %d", q.Limit)
	}
	if !q.AllowsType(EntityMedia) || !q.AllowsType(EntityPage) || q.AllowsType(EntityPost) {
		t.Error("AllowsType does not follow the filter")
	}

	all := &SearchQuery{Query: "x"}
	all.Normalize()
	if !all.AllowsType(EntityPost) {
		t.Error("empty filter should allow every type")
	}
}

func TestTypeCounts(t *testing.T) {
	var c TypeCounts
	c.Add(EntityPage)
	c.Add(EntityMedia)
	c.Add(EntityMedia)
	c.Add(EntityType("page"))
	if c.Page != 1 || c.Post != 0 || c.Media != 2 {
		t.Errorf("counts = %+v", c)
	}
	if c.Total() != 3 {
		t.Errorf("total = %d", c.Total())
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"Page":1,"Post":0,"Media":2}` {
		t.Errorf("json = %s", b)
	}
}
