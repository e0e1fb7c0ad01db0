// Package tui provides the terminal user interface for sierrachat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	healthReadyStyle   lipgloss.Style
	healthPendingStyle lipgloss.Style
	healthDownStyle    lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	// Sources block under an answer
	sourcesHeaderStyle lipgloss.Style
	sourceLinkStyle    lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	noticeStyle     lipgloss.Style

	errorStyle lipgloss.Style

	welcomeStyle         lipgloss.Style
	welcomeTitleStyle    lipgloss.Style
	welcomeIconStyle     lipgloss.Style
	suggestionStyle      lipgloss.Style
	suggestionIndexStyle lipgloss.Style

	// Settings menu
	configHeaderStyle       lipgloss.Style
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configSectionTitleStyle lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configPathStyle         lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configFeedbackStyle     lipgloss.Style
	configStatusOkStyle     lipgloss.Style
	configStatusBarStyle    lipgloss.Style
)

// gradientColors drive the loading animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#005c3c"),
	lipgloss.Color("#007a4e"),
	lipgloss.Color("#009960"),
	lipgloss.Color("#00b872"),
	lipgloss.Color("#00D084"),
	lipgloss.Color("#33ffc7"),
	lipgloss.Color("#66ffd5"),
	lipgloss.Color("#99ffe3"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	healthReadyStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	healthPendingStyle = lipgloss.NewStyle().Foreground(colorWarning)
	healthDownStyle = lipgloss.NewStyle().Foreground(colorError)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	sourcesHeaderStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	sourceLinkStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Underline(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)

	suggestionStyle = lipgloss.NewStyle().
		Foreground(colorText).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	suggestionIndexStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configHeaderStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 2).
		Align(lipgloss.Center)
	configTitleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		MarginTop(1)
	configSectionTitleStyle = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
	configMenuItemStyle = lipgloss.NewStyle().Foreground(colorText)
	configMenuSelectedStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	configCursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	configValueStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	configPathStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)
	configEnabledStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	configDisabledStyle = lipgloss.NewStyle().Foreground(colorTextMute)
	configFeedbackStyle = lipgloss.NewStyle().Foreground(colorPrimary).MarginTop(1).PaddingLeft(2)
	configStatusOkStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	configStatusBarStyle = lipgloss.NewStyle().Foreground(colorTextMute).MarginTop(1)
}

// errorHint returns a short hint for the kind of failure, or ""
func errorHint(err error) string {
	switch {
	case errors.IsCancelled(err):
		return ""
	case errors.IsTimeoutError(err):
		return "Request timed out. Try again or raise timeout_seconds"
	case errors.IsNetworkError(err):
		return "Check that the backend is running and base_url is correct"
	case errors.IsParseError(err):
		return "The backend answered with an unexpected body"
	case errors.IsAPIError(err):
		if errors.GetHTTPStatus(err) >= 500 {
			return "The backend failed to answer. Try again in a moment"
		}
		return "The backend rejected the request"
	default:
		return ""
	}
}

// FormatError returns a styled error banner with status, endpoint and a hint
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)
	tipStyle := lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render("⚠ Error: " + errors.UserMessage(err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("Endpoint: " + endpoint))
	}

	if hint := errorHint(err); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("💡 " + hint))
	}

	return sb.String()
}
