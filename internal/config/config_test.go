package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "rundll32",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "xdg-open" {
		t.Errorf("getDefaultOpener() = %s, want 'xdg-open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.PerPage != 20 {
		t.Errorf("API.PerPage = %d, want 20", cfg.API.PerPage)
	}
	if cfg.API.StatsInterval != 60*time.Second {
		t.Errorf("API.StatsInterval = %v, want 1m", cfg.API.StatsInterval)
	}
	if cfg.API.SearchDebounce != 500*time.Millisecond {
		t.Errorf("API.SearchDebounce = %v, want 500ms", cfg.API.SearchDebounce)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Errorf("API.BaseURL = %s, want http://localhost:5000", cfg.API.BaseURL)
	}

	if cfg.Server.FetchInterval != 15*time.Minute {
		t.Errorf("Server.FetchInterval = %v, want 15m", cfg.Server.FetchInterval)
	}
	if cfg.Server.SearchBackend != "bleve" {
		t.Errorf("Server.SearchBackend = %s, want bleve", cfg.Server.SearchBackend)
	}
	if len(cfg.Server.Feeds) != 8 {
		t.Errorf("Server.Feeds has %d entries, want 8", len(cfg.Server.Feeds))
	}
	for _, f := range cfg.Server.Feeds {
		if f.Name == "" || f.URL == "" || f.Category == "" {
			t.Errorf("incomplete default feed: %+v", f)
		}
	}

	if cfg.Browser.DefaultOpener == "" {
		t.Error("Browser.DefaultOpener should not be empty")
	}
	if len(cfg.Browser.Openers()) == 0 {
		t.Error("Browser.Openers() should not be empty")
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.API.StatsInterval != 60*time.Second {
		t.Errorf("API.StatsInterval = %v, want 1m", cfg.API.StatsInterval)
	}
	if cfg.API.PerPage != 20 {
		t.Errorf("API.PerPage = %d, want 20", cfg.API.PerPage)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[api]
base_url = "http://news.example.com:8080"
http_timeout = "3s"
per_page = 10
stats_interval = "2m"
search_debounce = "250ms"

[server]
db_path = "/tmp/test.db"
fetch_interval = "1h"

[[server.feeds]]
name = "Example"
url = "https://example.com/rss"
category = "tech"

[ui.colors]
primary = "#FF0000"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://news.example.com:8080" {
		t.Errorf("API.BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.HTTPTimeout != 3*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 3s", cfg.API.HTTPTimeout)
	}
	if cfg.API.PerPage != 10 {
		t.Errorf("API.PerPage = %d, want 10", cfg.API.PerPage)
	}
	if cfg.API.StatsInterval != 2*time.Minute {
		t.Errorf("API.StatsInterval = %v, want 2m", cfg.API.StatsInterval)
	}
	if cfg.API.SearchDebounce != 250*time.Millisecond {
		t.Errorf("API.SearchDebounce = %v, want 250ms", cfg.API.SearchDebounce)
	}
	if cfg.Server.DBPath != "/tmp/test.db" {
		t.Errorf("Server.DBPath = %s, want '/tmp/test.db'", cfg.Server.DBPath)
	}
	if cfg.Server.FetchInterval != time.Hour {
		t.Errorf("Server.FetchInterval = %v, want 1h", cfg.Server.FetchInterval)
	}
	if len(cfg.Server.Feeds) != 1 || cfg.Server.Feeds[0].Category != "tech" {
		t.Errorf("Server.Feeds = %+v", cfg.Server.Feeds)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
}

func TestLoad_PartialFileKeepsUsableValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.toml")
	if err := os.WriteFile(configPath, []byte("[api]\nbase_url = \"http://x.test\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.PerPage <= 0 {
		t.Errorf("API.PerPage = %d, want positive", cfg.API.PerPage)
	}
	if cfg.API.StatsInterval <= 0 || cfg.API.SearchDebounce <= 0 {
		t.Errorf("intervals not floored: %+v", cfg.API)
	}
	if len(cfg.Server.Feeds) == 0 {
		t.Error("Server.Feeds should fall back to defaults")
	}
	if cfg.Server.SearchBackend == "" {
		t.Error("Server.SearchBackend should fall back to the default")
	}
}

func TestLoad_EnvBaseURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NYHET_API_BASE_URL", "http://env.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://env.example.com" {
		t.Errorf("API.BaseURL = %s, want env override", cfg.API.BaseURL)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.API.BaseURL = "http://saved.example.com"
	cfg.API.UserAgent = "test-save-agent"
	cfg.Server.DBPath = "/test/path.db"
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(tmpDir, "nested", "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("Loaded API.BaseURL = %s, want %s", loaded.API.BaseURL, cfg.API.BaseURL)
	}
	if loaded.API.UserAgent != cfg.API.UserAgent {
		t.Errorf("Loaded API.UserAgent = %s, want %s", loaded.API.UserAgent, cfg.API.UserAgent)
	}
	if loaded.Server.DBPath != cfg.Server.DBPath {
		t.Errorf("Loaded Server.DBPath = %s, want %s", loaded.Server.DBPath, cfg.Server.DBPath)
	}
	if loaded.API.StatsInterval != cfg.API.StatsInterval {
		t.Errorf("Loaded API.StatsInterval = %v, want %v", loaded.API.StatsInterval, cfg.API.StatsInterval)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestMarshal_SpellsOutDurations(t *testing.T) {
	data, err := Marshal(defaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"stats_interval", "1m0s", "search_debounce", "500ms", "SVT Nyheter"} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.API.PerPage != 20 {
		t.Errorf("Generated config has API.PerPage = %d, want 20", cfg.API.PerPage)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.API.UserAgent != "nyhet-test/1.0" {
		t.Errorf("TestConfig API.UserAgent = %s, want 'nyhet-test/1.0'", cfg.API.UserAgent)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("TestConfig Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}
