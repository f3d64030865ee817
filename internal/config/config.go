package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api" toml:"api"`
	Server  ServerConfig  `mapstructure:"server" toml:"server"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
	Browser BrowserConfig `mapstructure:"browser" toml:"browser"`
	Keys    KeyConfig     `mapstructure:"keys" toml:"keys"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url" toml:"base_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout" toml:"http_timeout"`
	PerPage        int           `mapstructure:"per_page" toml:"per_page"`
	StatsInterval  time.Duration `mapstructure:"stats_interval" toml:"stats_interval"`
	SearchDebounce time.Duration `mapstructure:"search_debounce" toml:"search_debounce"`
	UserAgent      string        `mapstructure:"user_agent" toml:"user_agent"`
}

type ServerConfig struct {
	Addr          string        `mapstructure:"addr" toml:"addr"`
	DBPath        string        `mapstructure:"db_path" toml:"db_path"`
	FetchInterval time.Duration `mapstructure:"fetch_interval" toml:"fetch_interval"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout" toml:"http_timeout"`
	UserAgent     string        `mapstructure:"user_agent" toml:"user_agent"`
	// SearchBackend is "bleve" (in-memory index) or "scan".
	SearchBackend string       `mapstructure:"search_backend" toml:"search_backend"`
	Feeds         []FeedSource `mapstructure:"feeds" toml:"feeds"`
}

// FeedSource is one RSS feed collected by the server.
type FeedSource struct {
	Name     string `mapstructure:"name" toml:"name"`
	URL      string `mapstructure:"url" toml:"url"`
	Category string `mapstructure:"category" toml:"category"`
}

type UIConfig struct {
	Colors            UIColors `mapstructure:"colors" toml:"colors"`
	DescriptionLength int      `mapstructure:"description_length" toml:"description_length"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary" toml:"primary"`
	Secondary string `mapstructure:"secondary" toml:"secondary"`
	Accent    string `mapstructure:"accent" toml:"accent"`
	Surface   string `mapstructure:"surface" toml:"surface"`
	Text      string `mapstructure:"text" toml:"text"`
	Muted     string `mapstructure:"muted" toml:"muted"`
	Error     string `mapstructure:"error" toml:"error"`
}

type BrowserConfig struct {
	Darwin        []string `mapstructure:"darwin" toml:"darwin"`
	Linux         []string `mapstructure:"linux" toml:"linux"`
	Windows       []string `mapstructure:"windows" toml:"windows"`
	DefaultOpener string   `mapstructure:"default_opener" toml:"default_opener"`
}

// Openers returns the opener candidates for the running OS.
func (b BrowserConfig) Openers() []string {
	switch runtime.GOOS {
	case "darwin":
		return b.Darwin
	case "windows":
		return b.Windows
	default:
		return b.Linux
	}
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier" toml:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings" toml:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit" toml:"quit"`
	Search   string `mapstructure:"search" toml:"search"`
	Category string `mapstructure:"category" toml:"category"`
	Source   string `mapstructure:"source" toml:"source"`
	NextPage string `mapstructure:"next_page" toml:"next_page"`
	PrevPage string `mapstructure:"prev_page" toml:"prev_page"`
	Open     string `mapstructure:"open" toml:"open"`
	Preview  string `mapstructure:"preview" toml:"preview"`
	Back     string `mapstructure:"back" toml:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

// DefaultFeeds are the Swedish news feeds the server collects out of the box.
func DefaultFeeds() []FeedSource {
	return []FeedSource{
		{Name: "SVT Nyheter", URL: "https://www.svt.se/nyheter/rss.xml", Category: "allmänt"},
		{Name: "Aftonbladet", URL: "https://rss.aftonbladet.se/rss2/small/pages/sections/senastenytt/", Category: "allmänt"},
		{Name: "Expressen", URL: "https://feeds.expressen.se/nyheter/", Category: "allmänt"},
		{Name: "Dagens Nyheter", URL: "https://www.dn.se/rss/", Category: "allmänt"},
		{Name: "Svenska Dagbladet", URL: "https://www.svd.se/?service=rss", Category: "allmänt"},
		{Name: "Omni", URL: "https://omni.se/rss/nyheter", Category: "allmänt"},
		{Name: "Breakit", URL: "https://www.breakit.se/feed/artiklar", Category: "tech"},
		{Name: "Computer Sweden", URL: "https://www.idg.se/rss/csweden", Category: "tech"},
	}
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			HTTPTimeout:    10 * time.Second,
			PerPage:        20,
			StatsInterval:  60 * time.Second,
			SearchDebounce: 500 * time.Millisecond,
			UserAgent:      "nyhet/1.0 (https://github.com/pders01/nyhet)",
		},
		Server: ServerConfig{
			Addr:          ":5000",
			DBPath:        filepath.Join(homeDir, ".nyhet", "nyhet.db"),
			FetchInterval: 15 * time.Minute,
			HTTPTimeout:   30 * time.Second,
			UserAgent:     "nyhet/1.0 (RSS collector; github.com/pders01/nyhet)",
			SearchBackend: "bleve",
			Feeds:         DefaultFeeds(),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Surface:   "#16213E",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
			},
			DescriptionLength: 240,
		},
		Browser: BrowserConfig{
			Darwin:        []string{"open"},
			Linux:         []string{"xdg-open", "sensible-browser", "firefox"},
			Windows:       []string{"rundll32"},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Search:   "/",
				Category: "c",
				Source:   "s",
				NextPage: "right",
				PrevPage: "left",
				Open:     "enter",
				Preview:  "p",
				Back:     "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".nyhet", "nyhet.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "rundll32"
	default:
		return "xdg-open"
	}
}

// DefaultPath is where Load looks first when no explicit path is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "nyhet", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("server", cfg.Server)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("browser", cfg.Browser)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NYHET")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// viper only exposes flat keys to the environment; the base URL is the
	// one most often overridden that way.
	if env := os.Getenv("NYHET_API_BASE_URL"); env != "" {
		config.API.BaseURL = env
	}

	applyFloors(&config)
	expandPaths(&config)

	return &config, nil
}

// applyFloors replaces unusable zero values left by partial config files.
func applyFloors(cfg *Config) {
	def := defaultConfig()
	if cfg.API.PerPage <= 0 {
		cfg.API.PerPage = def.API.PerPage
	}
	if cfg.API.StatsInterval <= 0 {
		cfg.API.StatsInterval = def.API.StatsInterval
	}
	if cfg.API.SearchDebounce <= 0 {
		cfg.API.SearchDebounce = def.API.SearchDebounce
	}
	if cfg.API.HTTPTimeout <= 0 {
		cfg.API.HTTPTimeout = def.API.HTTPTimeout
	}
	if cfg.Server.FetchInterval <= 0 {
		cfg.Server.FetchInterval = def.Server.FetchInterval
	}
	if cfg.Server.SearchBackend == "" {
		cfg.Server.SearchBackend = def.Server.SearchBackend
	}
	if len(cfg.Server.Feeds) == 0 {
		cfg.Server.Feeds = def.Server.Feeds
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Server.DBPath = expandPath(cfg.Server.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// Marshal renders the config as TOML with durations spelled out.
func Marshal(config *Config) ([]byte, error) {
	doc := map[string]any{
		"api": map[string]any{
			"base_url":        config.API.BaseURL,
			"http_timeout":    config.API.HTTPTimeout.String(),
			"per_page":        config.API.PerPage,
			"stats_interval":  config.API.StatsInterval.String(),
			"search_debounce": config.API.SearchDebounce.String(),
			"user_agent":      config.API.UserAgent,
		},
		"server": map[string]any{
			"addr":           config.Server.Addr,
			"db_path":        config.Server.DBPath,
			"fetch_interval": config.Server.FetchInterval.String(),
			"http_timeout":   config.Server.HTTPTimeout.String(),
			"user_agent":     config.Server.UserAgent,
			"search_backend": config.Server.SearchBackend,
			"feeds":          config.Server.Feeds,
		},
		"ui":      config.UI,
		"browser": config.Browser,
		"keys":    config.Keys,
		"log":     config.Log,
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

func Save(config *Config, path string) error {
	data, err := Marshal(config)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
