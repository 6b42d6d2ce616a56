package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hyperjump/sitesearch/internal/config"
	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/internal/search"
	"github.com/hyperjump/sitesearch/internal/storage"
	"go.uber.org/zap"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	dir := t.TempDir()
	if err := storage.WriteRecords(dir, storage.PagesFile, []models.RawRecord{
		{"id": 1, "title": "Hello World Events", "slug": "events", "content": `<p>Join us <img src="logo.png" alt="Our Logo"></p>`},
	}); err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteRecords(dir, storage.MediaFile, []models.RawRecord{
		{"id": 9, "file": "uploads/logo.png", "tags": "brand"},
	}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Storage.DataDir = dir
	cfg.Storage.SessionDBPath = config.MemorySessionDB
	engine := search.NewEngine(storage.NewJSONRecordStore(dir), nil, &cfg.Search, search.WithLogger(zap.NewNop()))
	srv := NewServer(engine, storage.NewMemorySessionStore(), cfg, zap.NewNop())
	return srv, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}, session string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestHandleSearch_Post(t *testing.T) {
	_, h := testServer(t)
	rr := do(t, h, http.MethodPost, "/api/v1/search", map[string]interface{}{"query": `"hello world"`}, "s1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.SearchResponse
	decode(t, rr, &resp)
	if len(resp.Results) != 1 || resp.Results[0].ID != "1" || resp.Results[0].Score != 1 {
		t.Errorf("results = %+v", resp.Results)
	}
	if resp.Counts.Page != 1 || resp.Total != 1 {
		t.Errorf("counts = %+v total = %d", resp.Counts, resp.Total)
	}
}

func TestHandleSearch_GetWithTypeFilter(t *testing.T) {
	_, h := testServer(t)
	rr := do(t, h, http.MethodGet, "/api/v1/search?q=logo&type=media", nil, "s1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp models.SearchResponse
	decode(t, rr, &resp)
	if len(resp.Results) != 1 || resp.Results[0].Type != models.EntityMedia {
		t.Errorf("results = %+v", resp.Results)
	}
	if resp.Counts.Page != 0 {
		t.Errorf("counts = %+v", resp.Counts)
	}
}

func TestHandleSearch_BadInput(t *testing.T) {
	_, h := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid body status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/search?q=x&limit=abc", nil, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d", rr.Code)
	}
}

func TestSearch_MintsSessionCookie(t *testing.T) {
	_, h := testServer(t)
	rr := do(t, h, http.MethodGet, "/api/v1/search?q=hello", nil, "")
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected a session cookie to be set")
	}

	rr = do(t, h, http.MethodGet, "/api/v1/search?q=hello", nil, "existing")
	if len(rr.Result().Cookies()) != 0 {
		t.Error("no cookie should be set when the request has a session")
	}
}

func TestHistory_RecordedPerSession(t *testing.T) {
	_, h := testServer(t)
	do(t, h, http.MethodGet, "/api/v1/search?q=Logo", nil, "a")
	do(t, h, http.MethodGet, "/api/v1/search?q=logo", nil, "a")
	do(t, h, http.MethodGet, "/api/v1/search?q=events", nil, "a")
	do(t, h, http.MethodGet, "/api/v1/search?q=%20%20", nil, "a")
	do(t, h, http.MethodGet, "/api/v1/search?q=other", nil, "b")

	rr := do(t, h, http.MethodGet, "/api/v1/history", nil, "a")
	var out struct {
		History []models.HistoryEntry `json:"history"`
	}
	decode(t, rr, &out)
	if len(out.History) != 2 {
		t.Fatalf("history = %+v", out.History)
	}
	if out.History[0].Term != "logo" || out.History[0].Count != 2 {
		t.Errorf("top entry = %+v", out.History[0])
	}

	rr = do(t, h, http.MethodGet, "/api/v1/history?terms_only=true&limit=1", nil, "b")
	var terms struct {
		Terms []string `json:"terms"`
	}
	decode(t, rr, &terms)
	if len(terms.Terms) != 1 || terms.Terms[0] != "other" {
		t.Errorf("terms = %v", terms.Terms)
	}
}

func TestHistory_PushAndDelete(t *testing.T) {
	_, h := testServer(t)
	if rr := do(t, h, http.MethodPost, "/api/v1/history", map[string]string{"term": "  "}, "a"); rr.Code != http.StatusBadRequest {
		t.Errorf("blank term status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/v1/history", map[string]string{"term": "Shoes"}, "a"); rr.Code != http.StatusCreated {
		t.Fatalf("push status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodDelete, "/api/v1/history", nil, "a"); rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/api/v1/history?terms_only=1", nil, "a")
	var terms struct {
		Terms []string `json:"terms"`
	}
	decode(t, rr, &terms)
	if len(terms.Terms) != 0 {
		t.Errorf("terms after delete = %v", terms.Terms)
	}
}

func TestHistory_ConcurrentPushesAreSerialized(t *testing.T) {
	_, h := testServer(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, h, http.MethodPost, "/api/v1/history", map[string]string{"term": "same"}, "c")
		}()
	}
	wg.Wait()
	rr := do(t, h, http.MethodGet, "/api/v1/history", nil, "c")
	var out struct {
		History []models.HistoryEntry `json:"history"`
	}
	decode(t, rr, &out)
	if len(out.History) != 1 || out.History[0].Count != 20 {
		t.Errorf("history = %+v, want one entry with count 20", out.History)
	}
}

func TestHandleSuggestions(t *testing.T) {
	_, h := testServer(t)
	rr := do(t, h, http.MethodGet, "/api/v1/suggestions?limit=2", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var out struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	decode(t, rr, &out)
	if len(out.Suggestions) != 2 || out.Suggestions[0].Value != "Hello World Events" {
		t.Errorf("suggestions = %+v", out.Suggestions)
	}
}

func TestIndexEndpoints(t *testing.T) {
	srv, h := testServer(t)
	rr := do(t, h, http.MethodPost, "/api/v1/index/rebuild", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d", rr.Code)
	}
	var stats search.Stats
	decode(t, rr, &stats)
	if !stats.Built || stats.Counts.Page != 1 || stats.Counts.Media != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if rr := do(t, h, http.MethodDelete, "/api/v1/index", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("invalidate status = %d", rr.Code)
	}
	if srv.engine.Stats().Built {
		t.Error("index should be invalidated")
	}
}

func TestHandleStatusAndHealth(t *testing.T) {
	_, h := testServer(t)
	if rr := do(t, h, http.MethodGet, "/health", nil, ""); rr.Code != http.StatusOK {
		t.Errorf("health status = %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/api/v1/status", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var out map[string]interface{}
	decode(t, rr, &out)
	if _, ok := out["disk_usage_bytes"]; !ok {
		t.Errorf("status missing disk usage: %v", out)
	}
	if _, ok := out["index"]; !ok {
		t.Errorf("status missing index stats: %v", out)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := testServer(t)
	do(t, h, http.MethodGet, "/api/v1/search?q=hello", nil, "")
	rr := do(t, h, http.MethodGet, "/metrics", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "sitesearch_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestSessionLocks_Cleanup(t *testing.T) {
	l := newSessionLocks()
	unlock := l.lock("x")
	unlock()
	if len(l.locks) != 0 {
		t.Errorf("locks not released: %v", l.locks)
	}
}
