package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/nyhet/internal/config"
)

const AppName = "nyhet"

// ASCII art logo lines for nyhet
var LogoLines = []string{
	"▄▄   ▄ ▄   ▄ ▄   ▄ ▄▄▄▄▄ ▄▄▄▄▄",
	"███▄ █  █▄█  █   █ █       █  ",
	"█ ▀███   █   █▀▀▀█ █▀▀▀    █  ",
	"█   ██   █   █   █ █       █  ",
	"▀    ▀   ▀   ▀   ▀ ▀▀▀▀▀   ▀  ",
}

const CompactLogo = `nyhet ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

// Brand colors. ApplyTheme replaces them from the ui.colors config section.
var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	SurfaceColor    = lipgloss.Color("#16213E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	HighlightColor = lipgloss.Color("#FFE66D")
	DisabledColor  = lipgloss.Color("#64748B")
	ErrorColor     = lipgloss.Color("#F87171")
	SuccessColor   = lipgloss.Color("#10B981")
)

// Styled components
var (
	LogoStyle              lipgloss.Style
	TitleStyle             lipgloss.Style
	HeaderStyle            lipgloss.Style
	StatusBarStyle         lipgloss.Style
	HelpStyle              lipgloss.Style
	TimeStyle              lipgloss.Style
	ErrorMessageStyle      lipgloss.Style
	SeparatorStyle         lipgloss.Style
	StatusInfoStyle        lipgloss.Style
	StatusSuccessStyle     lipgloss.Style
	StatusWarnStyle        lipgloss.Style
	StatusErrorStyle       lipgloss.Style
	CardStyle              lipgloss.Style
	CardSelectedStyle      lipgloss.Style
	CardTitleStyle         lipgloss.Style
	CardTitleSelectedStyle lipgloss.Style
	CardTextStyle          lipgloss.Style
	ControlStyle           lipgloss.Style
	DisabledControlStyle   lipgloss.Style
	SpinnerStyle           lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme swaps the brand colors for the configured ones. Empty values
// keep the built-in color.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	TimeStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Faint(true)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(HighlightColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(SurfaceColor).
		PaddingLeft(1)

	CardSelectedStyle = CardStyle.
		BorderForeground(AccentColor)

	CardTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	CardTitleSelectedStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	CardTextStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	ControlStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	DisabledControlStyle = lipgloss.NewStyle().
		Foreground(DisabledColor)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height)
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Ansluter till nyhetsservern…")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the boxed logo with a version tagline.
func Banner(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Svenska nyheter i terminalen %s", versionTag))
	} else {
		lines = append(lines, "    Svenska nyheter i terminalen")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	boxed := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("◆ ◇ ◆ ◇ ◆")

	center := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(boxed),
		center.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
}
