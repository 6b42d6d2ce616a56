// Package search runs weighted, fuzzy, conjunctive queries over the cached site index.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/sitesearch/internal/config"
	"github.com/hyperjump/sitesearch/internal/indexer"
	"github.com/hyperjump/sitesearch/internal/keyword"
	"github.com/hyperjump/sitesearch/internal/metrics"
	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/internal/storage"
	"go.uber.org/zap"
)

// Engine answers searches and suggestion requests from an index built on demand
// from its record source and kept in an IndexCache.
type Engine struct {
	source  storage.RecordSource
	indexer *indexer.Indexer
	cache   *IndexCache
	config  *config.SearchConfig
	logger  *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for debug output (index builds, query summaries).
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithCache shares an existing cache between engines. A nil cache is ignored.
func WithCache(c *IndexCache) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// NewEngine creates a search engine. idx may be nil for a default indexer; cfg
// may be nil for default settings.
func NewEngine(source storage.RecordSource, idx *indexer.Indexer, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	if idx == nil {
		idx = indexer.NewIndexer(nil)
	}
	if cfg == nil {
		cfg = &config.Default().Search
	}
	e := &Engine{
		source:  source,
		indexer: idx,
		cache:   NewIndexCache(),
		config:  cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the engine's index cache.
func (e *Engine) Cache() *IndexCache {
	return e.cache
}

// Index returns the cached index, building it from the record source on a miss.
func (e *Engine) Index(ctx context.Context) (models.Index, error) {
	if idx, ok := e.cache.Get(); ok {
		return idx, nil
	}
	return e.Rebuild(ctx)
}

// Rebuild loads all records, builds a fresh index, and stores it in the cache.
func (e *Engine) Rebuild(ctx context.Context) (models.Index, error) {
	start := time.Now()
	set, err := e.source.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	idx := e.indexer.Build(set)
	e.cache.Set(idx)

	counts := idx.CountByType()
	metrics.ObserveIndexBuild(counts)
	e.logger.Info("index built",
		zap.Int("pages", counts.Page),
		zap.Int("posts", counts.Post),
		zap.Int("media", counts.Media),
		zap.Duration("took", time.Since(start)),
	)
	return idx, nil
}

// Invalidate drops the cached index; the next query rebuilds it.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
	e.logger.Debug("index invalidated")
}

// Search runs query against the index. An empty query or one with no usable terms
// returns an empty response, not an error. Errors come only from loading records.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	query.Normalize()
	resp := &models.SearchResponse{
		Results: []*models.SearchResult{},
		Query:   query.Query,
		Terms:   keyword.ParseTerms(query.Query),
	}
	if len(resp.Terms) == 0 {
		metrics.ObserveSearch(metrics.OutcomeEmpty, time.Since(start))
		return resp, nil
	}

	index, err := e.Index(ctx)
	if err != nil {
		metrics.ObserveSearch(metrics.OutcomeError, time.Since(start))
		return nil, err
	}

	for _, entry := range index {
		if !query.AllowsType(entry.Type) {
			continue
		}
		score, ok := ScoreEntry(entry, resp.Terms)
		if !ok {
			continue
		}
		resp.Counts.Add(entry.Type)
		resp.Results = append(resp.Results, &models.SearchResult{
			ID:      entry.ID,
			Type:    entry.Type,
			Title:   entry.Title,
			Slug:    entry.Slug,
			Score:   score,
			Snippet: BuildSnippet(entry.PlainText, resp.Terms, e.config.SnippetLength),
			Record:  entry.Record,
		})
	}
	SortResults(resp.Results)
	resp.Total = len(resp.Results)

	limit := query.Limit
	if limit == 0 {
		limit = e.config.DefaultLimit
	}
	if limit > 0 && len(resp.Results) > limit {
		resp.Results = resp.Results[:limit]
	}
	resp.QueryTime = time.Since(start).Milliseconds()

	outcome := metrics.OutcomeHit
	if resp.Total == 0 {
		outcome = metrics.OutcomeMiss
	}
	metrics.ObserveSearch(outcome, time.Since(start))
	e.logger.Debug("search",
		zap.String("query", query.Query),
		zap.Strings("terms", resp.Terms),
		zap.Int("total", resp.Total),
		zap.Int64("took_ms", resp.QueryTime),
	)
	return resp, nil
}

// SortResults orders by score ascending, then case-insensitive title, then id.
func SortResults(results []*models.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if ta != tb {
			return ta < tb
		}
		return a.ID < b.ID
	})
}

// Suggestions returns up to limit distinct autocomplete candidates.
// limit <= 0 uses the configured suggestion limit.
func (e *Engine) Suggestions(ctx context.Context, limit int) ([]models.Suggestion, error) {
	if limit <= 0 {
		limit = e.config.SuggestionLimit
	}
	index, err := e.Index(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateSuggestions(index, limit), nil
}

// Stats describes the cached index.
type Stats struct {
	Built   bool              `json:"built"`
	BuiltAt time.Time         `json:"built_at,omitempty"`
	Counts  models.TypeCounts `json:"counts"`
	Entries int               `json:"entries"`
}

// Stats reports on the cached index without triggering a build.
func (e *Engine) Stats() Stats {
	idx, ok := e.cache.Get()
	if !ok {
		return Stats{}
	}
	counts := idx.CountByType()
	return Stats{
		Built:   true,
		BuiltAt: e.cache.BuiltAt(),
		Counts:  counts,
		Entries: len(idx),
	}
}
