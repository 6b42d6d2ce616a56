// Package main is the sitesearch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/sitesearch/internal/cli"
	"github.com/hyperjump/sitesearch/internal/config"
	"github.com/hyperjump/sitesearch/internal/extract"
	"github.com/hyperjump/sitesearch/internal/history"
	"github.com/hyperjump/sitesearch/internal/indexer"
	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/internal/search"
	"github.com/hyperjump/sitesearch/internal/server"
	"github.com/hyperjump/sitesearch/internal/storage"
	"github.com/hyperjump/sitesearch/internal/watcher"
	"github.com/hyperjump/sitesearch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/sitesearch/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if it exists, and a missing default file yields the built-in
// defaults. Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "history":
		runHistory()
	case "rebuild":
		runRebuild()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("sitesearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config, creates the logger, and initializes components. It exits on failure.
func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger, *Components) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger, components
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (index builds, watcher events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("data_dir", cfg.Storage.DataDir),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	engine := components.Engine
	if _, err := engine.Rebuild(context.Background()); err != nil {
		logger.Warn("initial index build failed; will retry on first search", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.EnabledOrDefault() {
		watchOpts := []watcher.WatcherOption{
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond),
		}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			cfg.Storage.DataDir,
			[]string{".json"},
			func(path string) {
				logger.Info("records changed, rebuilding index", zap.String("path", path))
				if _, err := engine.Rebuild(watchCtx); err != nil {
					engine.Invalidate()
					logger.Warn("index rebuild failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(engine, components.Sessions, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: sitesearch search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Every term must match; wrap a phrase in quotes to match it as one term.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  sitesearch search summer sale
  sitesearch search '"summer sale"'              # one phrase term
  sitesearch search --type post,media logo
  sitesearch search --output json --limit 5 shoes
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// parseTypes splits a comma-separated type filter.
func parseTypes(s string) []string {
	var types []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = build the index locally from the data dir)")
	limit := fs.Int("limit", 0, "maximum results to print (0 = server default)")
	types := fs.String("type", "", "comma-separated entity types to include: page, post, media")
	session := fs.String("session", "", "session ID to record the query under (server mode only)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	searchQuery := &models.SearchQuery{
		Query: queryStr,
		Types: parseTypes(*types),
		Limit: *limit,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		res, err := searchViaHTTP(*serverURL, *session, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		response = res
	} else {
		_, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		res, err := components.Engine.Search(context.Background(), searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		response = res
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL, session string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(server.SessionHeader, session)
	}
	var response models.SearchResponse
	if err := doJSON(req, http.StatusOK, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// doJSON sends req and decodes a JSON body when the status matches want.
func doJSON(req *http.Request, want int, out interface{}) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = build the index locally)")
	limit := fs.Int("limit", 0, "maximum suggestions (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*outputFormat)

	var suggestions []models.Suggestion
	if *serverURL != "" {
		u := *serverURL + "/api/v1/suggestions"
		if *limit > 0 {
			u += "?limit=" + strconv.Itoa(*limit)
		}
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Suggest failed: %v\n", err)
			os.Exit(1)
		}
		var out struct {
			Suggestions []models.Suggestion `json:"suggestions"`
		}
		if err := doJSON(req, http.StatusOK, &out); err != nil {
			fmt.Fprintf(os.Stderr, "Suggest failed: %v\n", err)
			os.Exit(1)
		}
		suggestions = out.Suggestions
	} else {
		cfg, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		n := *limit
		if n <= 0 {
			n = cfg.Search.SuggestionLimit
		}
		res, err := components.Engine.Suggestions(context.Background(), n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Suggest failed: %v\n", err)
			os.Exit(1)
		}
		suggestions = res
	}
	if err := cli.WriteSuggestions(os.Stdout, suggestions, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func printHistoryUsage() {
	fmt.Println("Usage: sitesearch history <list|push|clear> --session <id> [flags] [term]")
	fmt.Println("  sitesearch history list --session abc       Show recent searches")
	fmt.Println("  sitesearch history push --session abc shoes Record a search term")
	fmt.Println("  sitesearch history clear --session abc      Forget the session's history")
}

// runHistory works directly on the session store, so it can inspect history
// while the server is stopped.
func runHistory() {
	if len(os.Args) < 3 {
		printHistoryUsage()
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	session := fs.String("session", "", "session ID (required)")
	limit := fs.Int("limit", 0, "maximum entries to list (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(searchArgsReorder(os.Args[3:]))
	if *session == "" {
		printHistoryUsage()
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	cfg, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()
	ctx := context.Background()
	store := components.Sessions

	entries, err := store.LoadHistory(ctx, *session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load history failed: %v\n", err)
		os.Exit(1)
	}
	tracker := history.FromEntries(entries, history.WithMaxEntries(cfg.Search.HistoryMaxEntries))

	switch sub {
	case "list":
		n := *limit
		if n <= 0 {
			n = cfg.Search.HistoryLimit
		}
		if err := cli.WriteHistory(os.Stdout, tracker.History(n), format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "push":
		term := buildSearchQuery(fs.Args())
		if term == "" {
			printHistoryUsage()
			os.Exit(1)
		}
		tracker.Push(term)
		if err := store.SaveHistory(ctx, *session, tracker.Entries()); err != nil {
			fmt.Fprintf(os.Stderr, "Save history failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Recorded: %s\n", term)
	case "clear":
		if err := store.DeleteHistory(ctx, *session); err != nil {
			fmt.Fprintf(os.Stderr, "Clear history failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared history for session %s\n", *session)
	default:
		fmt.Printf("Unknown history subcommand: %s\n", sub)
		printHistoryUsage()
		os.Exit(1)
	}
}

func runRebuild() {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = build locally and report)")
	_ = fs.Parse(os.Args[2:])

	var stats search.Stats
	if *serverURL != "" {
		req, err := http.NewRequest(http.MethodPost, *serverURL+"/api/v1/index/rebuild", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		if err := doJSON(req, http.StatusOK, &stats); err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		_, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		if _, err := components.Engine.Rebuild(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		stats = components.Engine.Stats()
	}
	c := stats.Counts
	fmt.Printf("Indexed %d entries (%d pages, %d posts, %d media)\n", stats.Entries, c.Page, c.Post, c.Media)
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DataDir           string `json:"data_dir"`
	SessionDBPath     string `json:"session_db_path"`
	SnippetLength     int    `json:"snippet_length"`
	SuggestionLimit   int    `json:"suggestion_limit"`
	HistoryMaxEntries int    `json:"history_max_entries"`
	MaxWords          int    `json:"max_words"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Index          search.Stats          `json:"index"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = build locally)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		req, err := http.NewRequest(http.MethodGet, *serverURL+"/api/v1/status", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		if err := doJSON(req, http.StatusOK, &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		if _, err := components.Engine.Index(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Index build failed: %v\n", err)
			os.Exit(1)
		}
		status = localStatus(cfg, components.Engine)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, &status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func localStatus(cfg *config.Config, engine *search.Engine) statusResponse {
	status := statusResponse{
		Index: engine.Stats(),
		Config: &statusConfigResponse{
			DataDir:           cfg.Storage.DataDir,
			SessionDBPath:     cfg.Storage.SessionDBPath,
			SnippetLength:     cfg.Search.SnippetLength,
			SuggestionLimit:   cfg.Search.SuggestionLimit,
			HistoryMaxEntries: cfg.Search.HistoryMaxEntries,
			MaxWords:          cfg.Search.MaxWords,
		},
	}
	paths := append([]string{cfg.Storage.DataDir}, storage.SessionDBFiles(cfg.Storage.SessionDBPath)...)
	if diskBytes, err := storage.DiskUsageBytes(paths...); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	return status
}

func writeStatusText(w io.Writer, status *statusResponse) {
	idx := status.Index
	fmt.Fprintf(w, "index_built:        %t\n", idx.Built)
	if idx.Built {
		fmt.Fprintf(w, "built_at:           %s\n", idx.BuiltAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "entries:            %d   # pages %d, posts %d, media %d\n", idx.Entries, idx.Counts.Page, idx.Counts.Post, idx.Counts.Media)
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # records + session db on disk\n", *status.DiskUsageBytes)
	}
	if c := status.Config; c != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		fmt.Fprintf(w, "data_dir:           %s\n", c.DataDir)
		fmt.Fprintf(w, "session_db_path:    %s\n", c.SessionDBPath)
		fmt.Fprintf(w, "snippet_length:     %d\n", c.SnippetLength)
		fmt.Fprintf(w, "suggestion_limit:   %d\n", c.SuggestionLimit)
		fmt.Fprintf(w, "history_max:        %d\n", c.HistoryMaxEntries)
		fmt.Fprintf(w, "max_words:          %d\n", c.MaxWords)
	}
}

// Components holds initialized services.
type Components struct {
	Records  *storage.JSONRecordStore
	Sessions storage.SessionStore
	Indexer  *indexer.Indexer
	Engine   *search.Engine
}

func (c *Components) Close() {
	if c.Sessions != nil {
		_ = c.Sessions.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	sessions, err := storage.NewSessionStore(cfg.Storage.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	records := storage.NewJSONRecordStore(cfg.Storage.DataDir)

	idxOpts := []indexer.IndexerOption{indexer.WithMaxWords(cfg.Search.MaxWords)}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(extract.NewExtractor(), idxOpts...)

	var engineOpts []search.EngineOption
	if logger != nil {
		engineOpts = append(engineOpts, search.WithLogger(logger))
	}
	engine := search.NewEngine(records, idx, &cfg.Search, engineOpts...)

	return &Components{
		Records:  records,
		Sessions: sessions,
		Indexer:  idx,
		Engine:   engine,
	}, nil
}

func printUsage() {
	fmt.Println(`sitesearch - Search index and query engine for CMS pages, posts, and media

Usage:
  sitesearch server [flags]                  Start the HTTP server
  sitesearch search [flags] <query>          Search pages, posts, and media
  sitesearch suggest [flags]                 List autocomplete suggestions
  sitesearch history <list|push|clear>       Manage a session's search history
  sitesearch rebuild [flags]                 Rebuild the index from the data dir
  sitesearch status [flags]                  Show index and storage status
  sitesearch version                         Show version
  sitesearch help                            Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/sitesearch/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to build the index locally.
  --limit int        Maximum results (default: server default)
  --type string      Comma-separated types: page, post, media
  --session string   Session ID to record the query under
  --output string    Output format: text, compact, or json (default: text)

History Flags:
  --session string   Session ID (required)
  --limit int        Entries to list (default from config)

Examples:
  sitesearch server
  sitesearch search summer sale
  sitesearch search --type media logo
  sitesearch search --output json "shoes"
  sitesearch suggest --limit 10
  sitesearch history list --session abc
  sitesearch rebuild
  sitesearch status --output json`)
}
