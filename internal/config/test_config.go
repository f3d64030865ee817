package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:0",
			HTTPTimeout:    2 * time.Second,
			PerPage:        20,
			StatsInterval:  60 * time.Second,
			SearchDebounce: 500 * time.Millisecond,
			UserAgent:      "nyhet-test/1.0",
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:0",
			DBPath:        "",
			FetchInterval: time.Minute,
			HTTPTimeout:   5 * time.Second,
			UserAgent:     "nyhet-test/1.0",
			SearchBackend: "bleve",
			Feeds:         nil,
		},
		UI:      def.UI,
		Browser: def.Browser,
		Keys:    def.Keys,
		Log:     LogConfig{Level: "off"},
	}
}
