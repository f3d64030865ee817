package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/nyhet/internal/api"
	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/tui"
	"github.com/pders01/nyhet/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig   string
	flagAPI      string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "nyhet",
	Short:         "Browse Swedish news in the terminal",
	Long:          "nyhet browses articles collected from Swedish news feeds, with category and source filters and full-text search.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowse,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nyhet %s\n", Version)
		fmt.Println("Swedish news browser")
		fmt.Println("github.com/pders01/nyhet")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: off, error, warn, info, debug (overrides config)")
	rootCmd.Flags().StringVar(&flagAPI, "api", "", "news API base URL (overrides config)")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "skip startup banner")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the persistent flag
// overrides shared by every command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagAPI != "" {
		base, err := validation.NormalizeBaseURL(flagAPI)
		if err != nil {
			return fmt.Errorf("invalid --api: %w", err)
		}
		cfg.API.BaseURL = base
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return err
	}
	defer debuglog.Close()

	client, err := api.NewClient(cfg)
	if err != nil {
		return err
	}

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	tui.ApplyTheme(cfg.UI.Colors)
	debuglog.Infof("browsing %s", client.BaseURL())

	app := tui.NewApp(client, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
