package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/nyhet/internal/render"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderCard draws one article card. The returned block always ends without
// a trailing newline.
func renderCard(c render.Card, selected bool, width, descLimit int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	title := c.Title
	if title == "" {
		title = "Ingen titel"
	}
	titleStyle := CardTitleStyle
	if selected {
		titleStyle = CardTitleSelectedStyle
	}

	meta := make([]string, 0, 3)
	for _, part := range []string{c.Source, render.OptionLabel(c.Category), c.TimeAgo} {
		if part != "" {
			meta = append(meta, part)
		}
	}

	rows := []string{
		titleStyle.Render(truncateEnd(singleLine(title), inner)),
		TimeStyle.Render(truncateEnd(strings.Join(meta, " · "), inner)),
	}
	if desc := singleLine(c.Description); desc != "" {
		rows = append(rows, CardTextStyle.Width(inner).Render(truncateEnd(desc, descLimit)))
	}
	rows = append(rows, renderMuted(truncateMiddle(c.Image, inner)))

	border := CardStyle
	if selected {
		border = CardSelectedStyle
	}
	return border.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderPagination lays out the page controls on one line, or returns "" when
// there is nothing to page through.
func renderPagination(p render.Pagination, prevKey, nextKey string) string {
	if !p.Visible {
		return ""
	}
	control := func(c render.Control, key string) string {
		if !c.Enabled {
			return DisabledControlStyle.Render(c.Label)
		}
		return ControlStyle.Render(c.Label) + renderMuted(" ("+key+")")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		control(p.Prev, prevKey),
		"   ",
		DisabledControlStyle.Render(p.Indicator.Label),
		"   ",
		control(p.Next, nextKey),
	)
}
