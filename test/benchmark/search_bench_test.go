package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/sitesearch/internal/config"
	"github.com/hyperjump/sitesearch/internal/history"
	"github.com/hyperjump/sitesearch/internal/indexer"
	"github.com/hyperjump/sitesearch/internal/keyword"
	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/internal/search"
)

type staticSource struct{ set *models.RecordSet }

func (s staticSource) LoadRecords(context.Context) (*models.RecordSet, error) {
	return s.set, nil
}

func benchRecords(n int) *models.RecordSet {
	set := &models.RecordSet{}
	body := strings.Repeat("Lightweight trail shoes with grippy outsoles for muddy paths. ", 20)
	for i := 0; i < n; i++ {
		set.Pages = append(set.Pages, models.RawRecord{
			"id": fmt.Sprintf("page-%d", i), "title": fmt.Sprintf("Landing %d", i), "content": "<p>" + body + "</p>",
		})
		set.Posts = append(set.Posts, models.RawRecord{
			"id": fmt.Sprintf("post-%d", i), "title": fmt.Sprintf("Review %d", i), "tags": "shoes, trail",
			"content": fmt.Sprintf(`<p>%s</p><img src="/uploads/img-%d.jpg" alt="Trail shoe %d">`, body, i, i),
		})
		set.Media = append(set.Media, models.RawRecord{"id": fmt.Sprintf("media-%d", i), "file": fmt.Sprintf("/uploads/img-%d.jpg", i)})
	}
	return set
}

func BenchmarkIndexBuild(b *testing.B) {
	set := benchRecords(100)
	idx := indexer.NewIndexer(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Build(set)
	}
}

func BenchmarkEngineSearch_Cached(b *testing.B) {
	engine := search.NewEngine(staticSource{benchRecords(100)}, nil, &config.Default().Search)
	ctx := context.Background()
	if _, err := engine.Rebuild(ctx); err != nil {
		b.Fatal(err)
	}
	q := &models.SearchQuery{Query: "trail shoez", Limit: 10}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Search(ctx, q)
	}
}

func BenchmarkBuildSnippet(b *testing.B) {
	text := strings.Repeat("Lightweight trail shoes with grippy outsoles for muddy paths. ", 50)
	terms := []string{"grippy", "muddy"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = search.BuildSnippet(text, terms, search.DefaultSnippetLength)
	}
}

func BenchmarkFuzzyMatch(b *testing.B) {
	words := keyword.Tokenize(strings.Repeat("lightweight trail shoes with grippy outsoles for muddy paths ", 40))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = keyword.FuzzyMatch("outsols", words)
	}
}

func BenchmarkHistoryPush(b *testing.B) {
	t := history.New()
	for i := 0; i < b.N; i++ {
		t.Push(fmt.Sprintf("term %d", i%40))
	}
}
