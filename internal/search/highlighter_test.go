package search

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildSnippet(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		terms  []string
		length int
		want   string
	}{
		{"empty", "   ", []string{"x"}, 0, ""},
		{"no match keeps start", "Plain   text\nhere", []string{"zzz"}, 0, "Plain text here"},
		{"case preserved", "Hello World", []string{"hello"}, 0, "<mark>Hello</mark> World"},
		{"every occurrence", "go go gone", []string{"go"}, 0, "<mark>go</mark> <mark>go</mark> <mark>go</mark>ne"},
		{"earlier term claims overlap", "red shoes", []string{"shoe", "shoes"}, 0, "red <mark>shoe</mark>s"},
		{"longer term first", "red shoes", []string{"shoes", "shoe"}, 0, "red <mark>shoes</mark>"},
		{"two terms", "red shoes", []string{"shoes", "red"}, 0, "<mark>red</mark> <mark>shoes</mark>"},
		{"escaped", "Tom & Jerry <3", []string{"jerry"}, 0, "Tom &amp; <mark>Jerry</mark> &lt;3"},
		{"window from start", "abcdefghij", nil, 4, "abcd…"},
		{"window at end", "abcdefghij", []string{"j"}, 4, "…hi<mark>j</mark>"},
		{"window in middle", "abcdefghij", []string{"e"}, 4, "…cd<mark>e</mark>f…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildSnippet(tt.text, tt.terms, tt.length); got != tt.want {
				t.Errorf("BuildSnippet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildSnippet_EllipsisIffCut(t *testing.T) {
	text := strings.Repeat("x ", 100) + "target" + strings.Repeat(" y", 100)
	got := BuildSnippet(text, []string{"missing", "target"}, 40)
	if !strings.HasPrefix(got, ellipsis) || !strings.HasSuffix(got, ellipsis) {
		t.Errorf("expected both ellipses, got %q", got)
	}
	if !strings.Contains(got, "<mark>target</mark>") {
		t.Errorf("expected highlighted term, got %q", got)
	}
	plain := strings.NewReplacer(markOpen, "", markClose, "", ellipsis, "").Replace(got)
	if n := utf8.RuneCountInString(plain); n != 40 {
		t.Errorf("window = %d runes, want 40", n)
	}

	short := BuildSnippet("short text", []string{"text"}, 40)
	if strings.Contains(short, ellipsis) {
		t.Errorf("uncut snippet should have no ellipsis: %q", short)
	}
}

func TestBuildSnippet_DefaultLength(t *testing.T) {
	text := strings.Repeat("a", 500)
	got := BuildSnippet(text, nil, 0)
	if want := strings.Repeat("a", DefaultSnippetLength) + ellipsis; got != want {
		t.Errorf("len = %d runes", utf8.RuneCountInString(got))
	}
}

func TestBuildSnippet_Multibyte(t *testing.T) {
	got := BuildSnippet("café crème brûlée", []string{"crème"}, 0)
	if got != "café <mark>crème</mark> brûlée" {
		t.Errorf("got %q", got)
	}
}
