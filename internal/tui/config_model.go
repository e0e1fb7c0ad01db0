package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/sierrachat/internal/config"
	"github.com/diogo/sierrachat/internal/models"
	"github.com/diogo/sierrachat/internal/render"
)

// settingKind selects how a menu entry is edited
type settingKind int

const (
	settingChoice settingKind = iota // opens a sub-menu of options
	settingToggle                    // flips a boolean in place
	settingExit
)

// settingOption is one entry of a choice sub-menu
type settingOption struct {
	Value       string
	Description string
}

// setting is one row of the settings menu, bound to a config key
type setting struct {
	Key     string
	Label   string
	Kind    settingKind
	Options func() []settingOption
}

func settingsMenu() []setting {
	return []setting{
		{Key: "transport", Label: "Transport", Kind: settingChoice, Options: transportOptions},
		{Key: "markdown.style", Label: "Markdown Theme", Kind: settingChoice, Options: markdownThemeOptions},
		{Key: "tui_theme", Label: "TUI Theme", Kind: settingChoice, Options: tuiThemeOptions},
		{Key: "hyperlinks", Label: "Source Hyperlinks", Kind: settingToggle},
		{Key: "copy_to_clipboard", Label: "Copy to Clipboard", Kind: settingToggle},
		{Key: "verbose", Label: "Verbose Logging", Kind: settingToggle},
		{Label: "Exit", Kind: settingExit},
	}
}

func transportOptions() []settingOption {
	return []settingOption{
		{Value: string(models.TransportHeader), Description: "GET, message in a header"},
		{Value: string(models.TransportBody), Description: "POST, message in a JSON body"},
	}
}

func markdownThemeOptions() []settingOption {
	themes := render.AvailableThemes()
	opts := make([]settingOption, len(themes))
	for i, t := range themes {
		opts[i] = settingOption{Value: t.Name, Description: t.Description}
	}
	return opts
}

func tuiThemeOptions() []settingOption {
	themes := render.AvailableTUIThemes()
	opts := make([]settingOption, len(themes))
	for i, t := range themes {
		opts[i] = settingOption{Value: t.Name, Description: t.Description}
	}
	return opts
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(key, value string) error
	items      []setting

	// editing is the index of the setting whose options are shown, or -1
	editing      int
	cursor       int
	optionCursor int

	feedback        string
	feedbackIsError bool
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings menu for cfg. Changes are persisted
// with save, normally config.SetValue.
func NewConfigModel(cfg config.Config, configPath string, save func(key, value string) error) ConfigModel {
	if save == nil {
		save = config.SetValue
	}
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		items:           settingsMenu(),
		editing:         -1,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackIsError = false

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.editing >= 0 {
				m.editing = -1
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move steps the active cursor by delta, wrapping around
func (m *ConfigModel) move(delta int) {
	if m.editing >= 0 {
		n := len(m.items[m.editing].Options())
		m.optionCursor = (m.optionCursor + delta + n) % n
		return
	}
	n := len(m.items)
	m.cursor = (m.cursor + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.editing >= 0 {
		item := m.items[m.editing]
		choice := item.Options()[m.optionCursor]
		m.editing = -1
		return m, m.persist(item, choice.Value)
	}

	item := m.items[m.cursor]
	switch item.Kind {
	case settingExit:
		return m, tea.Quit

	case settingToggle:
		current, _ := strconv.ParseBool(m.value(item.Key))
		return m, m.persist(item, strconv.FormatBool(!current))

	case settingChoice:
		m.editing = m.cursor
		m.optionCursor = 0
		for i, opt := range item.Options() {
			if opt.Value == m.value(item.Key) {
				m.optionCursor = i
				break
			}
		}
	}
	return m, nil
}

// persist saves a value and mirrors it into the in-memory config
func (m *ConfigModel) persist(item setting, value string) tea.Cmd {
	if err := m.save(item.Key, value); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackIsError = true
		return clearFeedback(m.feedbackTimeout)
	}

	m.apply(item.Key, value)
	if item.Key == "tui_theme" && render.SetTUITheme(value) {
		UpdateTheme()
	}

	m.feedbackIsError = false
	if item.Kind == settingToggle {
		state := "disabled"
		if value == "true" {
			state = "enabled"
		}
		m.feedback = fmt.Sprintf("%s %s", item.Label, state)
	} else {
		m.feedback = fmt.Sprintf("%s set to %s", item.Label, value)
	}
	return clearFeedback(m.feedbackTimeout)
}

// value returns the current value of a menu key as text
func (m ConfigModel) value(key string) string {
	switch key {
	case "transport":
		return string(m.config.TransportMode())
	case "markdown.style":
		if m.config.Markdown.Style == "" {
			return render.ThemeDark
		}
		return m.config.Markdown.Style
	case "tui_theme":
		if m.config.TUITheme == "" {
			return render.SierraTheme.Name
		}
		return m.config.TUITheme
	case "hyperlinks":
		return strconv.FormatBool(m.config.Hyperlinks)
	case "copy_to_clipboard":
		return strconv.FormatBool(m.config.CopyToClipboard)
	case "verbose":
		return strconv.FormatBool(m.config.Verbose)
	}
	return ""
}

func (m *ConfigModel) apply(key, value string) {
	enabled := value == "true"
	switch key {
	case "transport":
		m.config.Transport = value
	case "markdown.style":
		m.config.Markdown.Style = value
	case "tui_theme":
		m.config.TUITheme = value
	case "hyperlinks":
		m.config.Hyperlinks = enabled
	case "copy_to_clipboard":
		m.config.CopyToClipboard = enabled
	case "verbose":
		m.config.Verbose = enabled
	}
}

// Config returns the configuration as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration")),
		configPanelStyle.Width(contentWidth).Render(m.renderPaths()),
	}

	if m.editing >= 0 {
		sections = append(sections, configPanelStyle.Width(contentWidth).Render(m.renderOptions()))
	} else {
		sections = append(sections, configPanelStyle.Width(contentWidth).Render(m.renderMainMenu()))
	}

	if m.feedback != "" {
		if m.feedbackIsError {
			sections = append(sections, configFeedbackStyle.Foreground(colorError).Render("✗ "+m.feedback))
		} else {
			sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderPaths() string {
	path := m.configPath
	if path == "" {
		path = "(unknown)"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Backend"),
		fmt.Sprintf("   Base URL: %s", configValueStyle.Render(m.config.BaseURL)),
		fmt.Sprintf("   Config:   %s", configPathStyle.Render(path)),
	)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	labelWidth := 0
	for _, item := range m.items {
		if w := lipgloss.Width(item.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}
	for i, item := range m.items {
		cursor, style := "  ", configMenuItemStyle
		if m.cursor == i {
			cursor, style = configCursorStyle.Render("▸ "), configMenuSelectedStyle
		}

		if item.Kind == settingExit {
			lines = append(lines, "", cursor+style.Render(item.Label))
			continue
		}

		var value string
		if item.Kind == settingToggle {
			value = renderBoolValue(m.value(item.Key) == "true")
		} else {
			value = configValueStyle.Render(m.value(item.Key))
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(item.Label)+3)
		lines = append(lines, cursor+style.Render(item.Label)+pad+value)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderOptions renders the sub-menu of the setting being edited
func (m ConfigModel) renderOptions() string {
	item := m.items[m.editing]
	current := m.value(item.Key)

	lines := []string{configSectionTitleStyle.Render("🎨 Select " + item.Label), ""}
	for i, opt := range item.Options() {
		cursor, style := "  ", configMenuItemStyle
		if m.optionCursor == i {
			cursor, style = configCursorStyle.Render("▸ "), configMenuSelectedStyle
		}

		marker := ""
		if opt.Value == current {
			marker = configStatusOkStyle.Render(" (current)")
		}
		lines = append(lines, cursor+style.Render(fmt.Sprintf("%s - %s", opt.Value, opt.Description))+marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.editing >= 0 {
		back = "Back"
	}

	shortcuts := [][2]string{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", back}}
	items := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		items[i] = statusKeyStyle.Render(s[0]) + statusDescStyle.Render(" "+s[1])
	}

	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the settings menu
func RunConfig(cfg config.Config, configPath string) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, configPath, config.SetValue),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
