// Package extract pulls searchable text out of the HTML bodies of pages and posts.
package extract

import (
	"fmt"
	"strings"

	"github.com/hyperjump/sitesearch/pkg/utils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extractor extracts plain text and image context from HTML documents.
// It tolerates malformed markup.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// PlainText returns the text of doc with tags removed and entities decoded.
// Tag boundaries become spaces so adjacent blocks do not run together;
// script and style bodies are dropped.
func (e *Extractor) PlainText(doc string) string {
	if doc == "" {
		return ""
	}
	if !strings.ContainsAny(doc, "<&") {
		return doc
	}
	z := html.NewTokenizer(strings.NewReader(doc))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error: either way we keep what we have.
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if isRawTextTag(z) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if isRawTextTag(z) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	a := atom.Lookup(name)
	return a == atom.Script || a == atom.Style
}

// ImageContext finds every img element in doc whose src contains filename
// (case-insensitive) and returns, per image and in document order, its trimmed
// alt text, trimmed title, and the whitespace-collapsed text of its parent element.
// Empty values are skipped. Documents that do not mention filename are not parsed.
func (e *Extractor) ImageContext(doc, filename string) ([]string, error) {
	if filename == "" || doc == "" {
		return nil, nil
	}
	needle := strings.ToLower(filename)
	if !strings.Contains(strings.ToLower(doc), needle) {
		return nil, nil
	}
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var out []string
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Img {
			return
		}
		if !strings.Contains(strings.ToLower(attr(n, "src")), needle) {
			return
		}
		if alt := strings.TrimSpace(attr(n, "alt")); alt != "" {
			out = append(out, alt)
		}
		if title := strings.TrimSpace(attr(n, "title")); title != "" {
			out = append(out, title)
		}
		if n.Parent != nil {
			if text := utils.CollapseWhitespace(textContent(n.Parent)); text != "" {
				out = append(out, text)
			}
		}
	})
	return out, nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
