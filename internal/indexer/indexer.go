// Package indexer builds the flat, weighted search index from page, post, and media records.
package indexer

import (
	"strings"
	"time"

	"github.com/hyperjump/sitesearch/internal/extract"
	"github.com/hyperjump/sitesearch/internal/models"
	"go.uber.org/zap"
)

// DefaultMaxWords caps the per-entry word list used for fuzzy matching.
const DefaultMaxWords = 2000

// Indexer turns raw records into index entries. It holds no index state:
// Build is a pure function of its input.
type Indexer struct {
	extractor *extract.Extractor
	maxWords  int
	logger    *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (build summaries, skipped documents).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithMaxWords overrides the per-entry word cap. Values <= 0 are ignored.
func WithMaxWords(n int) IndexerOption {
	return func(idx *Indexer) {
		if n > 0 {
			idx.maxWords = n
		}
	}
}

// NewIndexer creates an indexer. extractor may be nil; a default one is used.
func NewIndexer(extractor *extract.Extractor, opts ...IndexerOption) *Indexer {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	idx := &Indexer{
		extractor: extractor,
		maxWords:  DefaultMaxWords,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Body is an HTML document scanned for media references, with its lowercased
// form cached so the cheap filename check is not repeated per media item.
type Body struct {
	HTML  string
	lower string
}

func newBody(html string) *Body {
	return &Body{HTML: html, lower: strings.ToLower(html)}
}

// Bodies collects, in scan order, every page body, then every post body and excerpt.
func Bodies(pages, posts []models.RawRecord) []*Body {
	bodies := make([]*Body, 0, len(pages)+2*len(posts))
	for _, p := range pages {
		if c := p.String("content"); c != "" {
			bodies = append(bodies, newBody(c))
		}
	}
	for _, p := range posts {
		if c := p.String("content"); c != "" {
			bodies = append(bodies, newBody(c))
		}
		if e := p.String("excerpt"); e != "" {
			bodies = append(bodies, newBody(e))
		}
	}
	return bodies
}

// Build maps every page, post, and media record to an entry and returns them
// as one index: pages, then posts, then media, each in input order.
func (idx *Indexer) Build(set *models.RecordSet) models.Index {
	if set == nil {
		return models.Index{}
	}
	start := time.Now()
	index := make(models.Index, 0, set.Len())
	for _, rec := range set.Pages {
		index = append(index, idx.BuildPage(rec))
	}
	for _, rec := range set.Posts {
		index = append(index, idx.BuildPost(rec))
	}
	if len(set.Media) > 0 {
		bodies := Bodies(set.Pages, set.Posts)
		for _, rec := range set.Media {
			index = append(index, idx.BuildMedia(rec, bodies))
		}
	}
	if idx.logger != nil {
		idx.logger.Debug("index built",
			zap.Int("pages", len(set.Pages)),
			zap.Int("posts", len(set.Posts)),
			zap.Int("media", len(set.Media)),
			zap.Duration("took", time.Since(start)),
		)
	}
	return index
}

// imageContext gathers alt/title/parent text for images referencing filename
// across all bodies, in scan order. Unparseable bodies contribute nothing.
func (idx *Indexer) imageContext(mediaID, filename string, bodies []*Body) []string {
	if filename == "" {
		return nil
	}
	needle := strings.ToLower(filename)
	var out []string
	for _, b := range bodies {
		if !strings.Contains(b.lower, needle) {
			continue
		}
		found, err := idx.extractor.ImageContext(b.HTML, filename)
		if err != nil {
			if idx.logger != nil {
				idx.logger.Debug("image context skipped", zap.String("media_id", mediaID), zap.Error(err))
			}
			continue
		}
		out = append(out, found...)
	}
	return out
}
