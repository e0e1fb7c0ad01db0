package render

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/diogo/sierrachat/internal/models"
)

// SourcesHeader introduces the list of source links under an answer
const SourcesHeader = "Sources:"

const sourceBullet = "↗ "

// SourceLabel returns the text shown for a source link: the URL path, or
// "Link" when the URL has no path or is not an absolute URL.
func SourceLabel(source string) string {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || !u.IsAbs() || u.Path == "" {
		return models.FallbackSourceLabel
	}
	return u.Path
}

// TruncateLabel shortens label to at most width terminal cells
func TruncateLabel(label string, width int) string {
	if width <= 0 {
		return label
	}
	return runewidth.Truncate(label, width, "…")
}

// SourceOptions controls how a Sources block is drawn
type SourceOptions struct {
	// Width is the available width in cells, including the bullet
	Width int
	// Hyperlinks wraps each label in an OSC 8 hyperlink to its URL
	Hyperlinks bool

	HeaderStyle lipgloss.Style
	LinkStyle   lipgloss.Style
}

// Sources renders the "Sources:" block for an assistant message, one line
// per source in order. It returns "" when there are no sources.
func Sources(sources []string, opts SourceOptions) string {
	if len(sources) == 0 {
		return ""
	}

	labelWidth := opts.Width - runewidth.StringWidth(sourceBullet)

	var sb strings.Builder
	sb.WriteString(opts.HeaderStyle.Render(SourcesHeader))
	for _, source := range sources {
		label := opts.LinkStyle.Render(TruncateLabel(SourceLabel(source), labelWidth))
		if opts.Hyperlinks {
			label = termenv.Hyperlink(source, label)
		}
		sb.WriteString("\n")
		sb.WriteString(sourceBullet)
		sb.WriteString(label)
	}
	return sb.String()
}

// PlainSources renders sources for non-interactive output: label and full URL
func PlainSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(SourcesHeader)
	for _, source := range sources {
		sb.WriteString("\n- ")
		sb.WriteString(SourceLabel(source))
		sb.WriteString(" <")
		sb.WriteString(source)
		sb.WriteString(">")
	}
	return sb.String()
}
