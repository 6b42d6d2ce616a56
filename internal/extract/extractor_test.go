package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no markup", "Just text", "Just text"},
		{"paragraphs", "<p>Hello</p><p>World</p>", " Hello  World "},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"script dropped", "<p>a</p><script>var x = 1;</script><p>b</p>", " a    b "},
		{"malformed", "<div><p>open <b>bold", "  open  bold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageContext(t *testing.T) {
	e := NewExtractor()
	doc := `<section>
		<figure><img src="/uploads/LOGO.png" alt=" Our Logo " title="Brand mark">
		<figcaption>The   company
		logo</figcaption></figure>
		<p><img src="/uploads/other.png" alt="Other"></p>
		<p>Footer <img src="logo.png" alt=""></p>
	</section>`
	got, err := e.ImageContext(doc, "logo.png")
	if err != nil {
		t.Fatalf("ImageContext: %v", err)
	}
	want := []string{"Our Logo", "Brand mark", "The company logo", "Footer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ImageContext = %#v, want %#v", got, want)
	}
}

func TestImageContext_SkipsDocumentsWithoutFilename(t *testing.T) {
	e := NewExtractor()
	got, err := e.ImageContext(`<img src="a.png" alt="A">`, "b.png")
	if err != nil || got != nil {
		t.Errorf("got %v, %v; want nil, nil", got, err)
	}
	got, err = e.ImageContext(`<img src="a.png" alt="A">`, "")
	if err != nil || got != nil {
		t.Errorf("empty filename: got %v, %v", got, err)
	}
}

func TestImageContext_FilenameOnlyInText(t *testing.T) {
	e := NewExtractor()
	got, err := e.ImageContext(`<p>Download logo.png here</p><img src="x.png" alt="X">`, "logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("no img references the file, got %v", got)
	}
}

func TestImageContext_Malformed(t *testing.T) {
	e := NewExtractor()
	got, err := e.ImageContext(`<p><img src="logo.png" alt="Unclosed`, "logo.png")
	if err != nil {
		t.Fatalf("malformed markup should not fail: %v", err)
	}
	for _, s := range got {
		if strings.Contains(s, "<") {
			t.Errorf("unexpected markup in context: %q", s)
		}
	}
}
