package config

// MemorySessionDB keeps session history in process memory instead of SQLite.
const MemorySessionDB = ":memory:"

// Defaults used by ApplyDefaults.
const (
	DefaultSnippetLength     = 180
	DefaultSuggestionLimit   = 60
	DefaultHistoryLimit      = 10
	DefaultHistoryMaxEntries = 15
	DefaultMaxWords          = 2000
	DefaultDebounceMS        = 500
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "/usr/local/var/sitesearch/data/records"
	}
	if cfg.Storage.SessionDBPath == "" {
		cfg.Storage.SessionDBPath = "/usr/local/var/sitesearch/data/db/sessions.db"
	}
	if cfg.Search.SnippetLength <= 0 {
		cfg.Search.SnippetLength = DefaultSnippetLength
	}
	if cfg.Search.SuggestionLimit <= 0 {
		cfg.Search.SuggestionLimit = DefaultSuggestionLimit
	}
	if cfg.Search.HistoryLimit <= 0 {
		cfg.Search.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Search.HistoryMaxEntries <= 0 {
		cfg.Search.HistoryMaxEntries = DefaultHistoryMaxEntries
	}
	if cfg.Search.MaxWords <= 0 {
		cfg.Search.MaxWords = DefaultMaxWords
	}
	if cfg.Search.DefaultLimit < 0 {
		cfg.Search.DefaultLimit = 0
	}
	if cfg.Watch.DebounceMS <= 0 {
		cfg.Watch.DebounceMS = DefaultDebounceMS
	}
}

// Default returns a config with every default applied, for running without a config file.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
