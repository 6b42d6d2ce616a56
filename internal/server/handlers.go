package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.search(w, r, &query)
}

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(r, "limit")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var types []string
	for _, v := range q["type"] {
		types = append(types, strings.Split(v, ",")...)
	}
	s.search(w, r, &models.SearchQuery{Query: q.Get("q"), Types: types, Limit: limit})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, query *models.SearchQuery) {
	session := sessionID(w, r)
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Strings("types", query.Types), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.pushHistory(r.Context(), session, response.Query); err != nil {
		s.logger.Warn("failed to record search history", zap.String("session", session), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	suggestions, err := s.engine.Suggestions(r.Context(), limit)
	if err != nil {
		s.logger.Error("suggestions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	limit, err := intParam(r, "limit")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 {
		limit = s.config.Search.HistoryLimit
	}
	t, err := s.loadHistory(r.Context(), session)
	if err != nil {
		s.logger.Error("load history failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if termsOnly, _ := strconv.ParseBool(r.URL.Query().Get("terms_only")); termsOnly {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"terms": t.Terms(limit)})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"history": t.History(limit)})
}

type historyPushRequest struct {
	Term string `json:"term"`
}

func (s *Server) handleHistoryPush(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	var req historyPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		s.respondError(w, http.StatusBadRequest, "term is required")
		return
	}
	if err := s.pushHistory(r.Context(), session, req.Term); err != nil {
		s.logger.Error("push history failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"term": req.Term, "status": "recorded"})
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	unlock := s.locks.lock(session)
	err := s.sessions.DeleteHistory(r.Context(), session)
	unlock()
	if err != nil {
		s.logger.Error("delete history failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleIndexRebuild(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("index rebuild request")
	if _, err := s.engine.Rebuild(r.Context()); err != nil {
		s.logger.Error("index rebuild failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, s.engine.Stats())
}

func (s *Server) handleIndexInvalidate(w http.ResponseWriter, r *http.Request) {
	s.engine.Invalidate()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"index": s.engine.Stats(),
	}

	configInfo := map[string]interface{}{
		"data_dir":            s.config.Storage.DataDir,
		"session_db_path":     s.config.Storage.SessionDBPath,
		"snippet_length":      s.config.Search.SnippetLength,
		"suggestion_limit":    s.config.Search.SuggestionLimit,
		"history_max_entries": s.config.Search.HistoryMaxEntries,
		"max_words":           s.config.Search.MaxWords,
	}
	paths := append([]string{s.config.Storage.DataDir}, storage.SessionDBFiles(s.config.Storage.SessionDBPath)...)
	if diskBytes, err := storage.DiskUsageBytes(paths...); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	} else {
		s.logger.Debug("status: disk usage failed", zap.Error(err))
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

var errInvalidLimit = errors.New("limit must be a non-negative integer")

// intParam parses an optional non-negative integer query parameter; absent means 0.
func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errInvalidLimit
	}
	return n, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
