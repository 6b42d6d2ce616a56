package indexer

import (
	"path"
	"strings"

	"github.com/hyperjump/sitesearch/internal/keyword"
	"github.com/hyperjump/sitesearch/internal/models"
)

// Field weights. Lower is more important; every type uses the same table
// so scores are comparable across pages, posts, and media.
const (
	WeightTitle    = 1.0
	WeightSlug     = 1.5
	WeightMetadata = 2.0
	WeightTags     = 2.0
	WeightContext  = 2.5
	WeightContent  = 3.0
)

// entryBuilder assembles one IndexEntry. Fields must be added in ascending
// weight order so each word is attributed to the most important field it appears in.
type entryBuilder struct {
	entry *models.IndexEntry
	words *keyword.WordSet
}

func newEntryBuilder(typ models.EntityType, rec models.RawRecord, title, slug string, maxWords int) *entryBuilder {
	return &entryBuilder{
		entry: &models.IndexEntry{
			ID:     rec.ID(),
			Type:   typ,
			Title:  title,
			Slug:   slug,
			Record: rec,
		},
		words: keyword.NewWordSet(maxWords),
	}
}

func (b *entryBuilder) addField(name, value string, weight float64) {
	lower := strings.ToLower(value)
	b.entry.Fields = append(b.entry.Fields, models.Field{
		Name:   name,
		Value:  lower,
		Weight: weight,
		Words:  b.words.Add(lower),
	})
}

func (b *entryBuilder) suggest(value, label string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.entry.Suggestions = append(b.entry.Suggestions, models.Suggestion{
		Value: value,
		Type:  b.entry.Type,
		Label: label,
	})
}

func (b *entryBuilder) suggestTags(tags []string) {
	for _, t := range tags {
		b.suggest(t, "tag")
	}
}

func (b *entryBuilder) build(plainText string) *models.IndexEntry {
	b.entry.Words = b.words.Words()
	b.entry.PlainText = plainText
	return b.entry
}

// BuildPage turns a page record into an index entry.
func (idx *Indexer) BuildPage(rec models.RawRecord) *models.IndexEntry {
	title := rec.String("title")
	slug := rec.String("slug")
	content := Preprocess(idx.extractor, rec.String("content"))
	metadata := joinNonEmpty(
		rec.String("meta_title"),
		rec.String("meta_description"),
		rec.String("og_title"),
		rec.String("og_description"),
		rec.String("canonical_url"),
	)

	b := newEntryBuilder(models.EntityPage, rec, title, slug, idx.maxWords)
	b.addField("title", title, WeightTitle)
	b.addField("slug", slug, WeightSlug)
	b.addField("metadata", metadata, WeightMetadata)
	b.addField("content", content, WeightContent)
	b.suggest(title, "title")
	b.suggest(slug, "slug")
	b.suggestTags(rec.Tags("tags"))
	return b.build(content)
}

// BuildPost turns a post record into an index entry.
func (idx *Indexer) BuildPost(rec models.RawRecord) *models.IndexEntry {
	title := rec.String("title")
	slug := rec.String("slug")
	tags := rec.Tags("tags")
	content := joinNonEmpty(
		Preprocess(idx.extractor, rec.String("content")),
		Preprocess(idx.extractor, rec.String("excerpt")),
	)
	metadata := joinNonEmpty(
		rec.String("category"),
		rec.String("author"),
		strings.Join(tags, " "),
	)

	b := newEntryBuilder(models.EntityPost, rec, title, slug, idx.maxWords)
	b.addField("title", title, WeightTitle)
	b.addField("slug", slug, WeightSlug)
	b.addField("metadata", metadata, WeightMetadata)
	b.addField("content", content, WeightContent)
	b.suggest(title, "title")
	b.suggest(slug, "slug")
	b.suggestTags(tags)
	return b.build(content)
}

// BuildMedia turns a media record into an index entry. Pages and posts are
// scanned for images referencing the media file to harvest extra context.
func (idx *Indexer) BuildMedia(rec models.RawRecord, bodies []*Body) *models.IndexEntry {
	file := rec.FirstString("file", "slug")
	name := rec.FirstString("title", "name")
	if name == "" && file != "" {
		name = path.Base(file)
	}
	tags := rec.Tags("tags")

	var parts []string
	if file != "" {
		parts = append(parts, idx.imageContext(rec.ID(), path.Base(file), bodies)...)
	}
	parts = append(parts, rec.String("alt"), rec.String("description"))
	contextText := joinNonEmpty(parts...)

	b := newEntryBuilder(models.EntityMedia, rec, name, file, idx.maxWords)
	b.addField("name", name, WeightTitle)
	b.addField("file", file, WeightSlug)
	b.addField("tags", strings.Join(tags, " "), WeightTags)
	b.addField("context", contextText, WeightContext)
	b.suggest(name, "name")
	b.suggest(file, "file")
	b.suggestTags(tags)
	return b.build(contextText)
}
