package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/sierrachat/internal/api"
	"github.com/diogo/sierrachat/internal/config"
	"github.com/diogo/sierrachat/internal/conversation"
	apierrors "github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/models"
	"github.com/diogo/sierrachat/internal/render"
)

// AppTitle is shown in the header and on the welcome screen
const AppTitle = "Sierra AI Assistant"

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	chatResultMsg struct {
		result conversation.Result
	}
	healthMsg struct {
		status *models.HealthStatus
		err    error
	}
	configChangedMsg struct {
		cfg config.Config
		err error
	}
	copiedMsg struct {
		err error
	}
)

// Model represents the TUI state. Conversation state lives in the
// controller; the model only holds view state.
type Model struct {
	client     api.ClientInterface
	controller *conversation.Controller
	cfg        config.Config
	keys       KeyMap
	logger     *slog.Logger
	cancelMgr  *cancelManager
	copyFn     func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	suggestionIdx  int
	notice         string

	health    *models.HealthStatus
	healthErr error

	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.ClientInterface, cfg config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = config.DiscardLogger()
	}

	keys := DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Ask about Sierra..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:     client,
		controller: conversation.NewController(client, conversation.WithLogger(logger)),
		cfg:        cfg,
		keys:       keys,
		logger:     logger,
		cancelMgr:  newCancelManager(),
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.checkHealth(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.viewport.KeyMap = viewportKeyMap(m.keys)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelMgr.cancel()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Cancel):
			if m.controller.Loading() {
				if m.cancelMgr.cancel() {
					m.notice = "Cancelling..."
				}
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Send):
			return m.submit()

		case key.Matches(msg, m.keys.Suggest):
			if !m.controller.Loading() {
				m.cycleSuggestion()
			}
			return m, nil

		case key.Matches(msg, m.keys.Copy):
			if last, ok := m.controller.LastAssistant(); ok {
				return m, m.copyToClipboard(last.Content)
			}
			return m, nil

		case key.Matches(msg, m.keys.Health):
			return m, m.checkHealth()
		}

	case chatResultMsg:
		if _, ok := m.controller.Complete(msg.result); ok {
			m.cancelMgr.cancel()
			m.notice = ""
			m.updateViewport()
			m.viewport.GotoBottom()
		}

	case healthMsg:
		m.health = msg.status
		m.healthErr = msg.err
		if msg.err != nil {
			m.logger.Debug("health check failed", "error", msg.err)
		}

	case configChangedMsg:
		m.applyConfig(msg.cfg, msg.err)

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied answer to clipboard"
		}

	case spinner.TickMsg:
		if m.controller.Loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.controller.Loading() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.controller.Loading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit hands the input to the controller and starts the network call
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
		return m, tea.Quit
	}

	pending, err := m.controller.Begin(m.textarea.Value())
	switch {
	case stderrors.Is(err, apierrors.ErrEmptyMessage):
		return m, nil
	case stderrors.Is(err, apierrors.ErrBusy):
		m.notice = "Still waiting for the previous answer"
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}

	m.textarea.Reset()
	m.notice = ""
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	return m, tea.Batch(
		sendMessage(ctx, pending),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendMessage runs the network call of an accepted submission
func sendMessage(ctx context.Context, pending *conversation.Pending) tea.Cmd {
	return func() tea.Msg {
		return chatResultMsg{result: pending.Send(ctx)}
	}
}

// checkHealth queries the backend health endpoint
func (m Model) checkHealth() tea.Cmd {
	client := m.client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		status, err := client.CheckHealth(ctx)
		return healthMsg{status: status, err: err}
	}
}

// copyToClipboard copies text in the background
func (m Model) copyToClipboard(text string) tea.Cmd {
	copyFn := m.copyFn
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

// cycleSuggestion fills the input with the next suggested question. It only
// replaces empty input or a previous suggestion.
func (m *Model) cycleSuggestion() {
	suggestions := m.suggestions()
	if len(suggestions) == 0 {
		return
	}

	current := strings.TrimSpace(m.textarea.Value())
	if current != "" && !contains(suggestions, current) {
		return
	}

	m.textarea.SetValue(suggestions[m.suggestionIdx%len(suggestions)])
	m.suggestionIdx++
}

func (m Model) suggestions() []string {
	if len(m.cfg.Suggestions) > 0 {
		return m.cfg.Suggestions
	}
	return models.DefaultSuggestions()
}

// applyConfig takes display settings from a reloaded config file
func (m *Model) applyConfig(cfg config.Config, err error) {
	if err != nil {
		m.logger.Warn("config reload failed", "error", err)
		m.notice = "Config reload failed: " + err.Error()
		return
	}

	if cfg.TUITheme != m.cfg.TUITheme {
		if render.SetTUITheme(cfg.TUITheme) {
			UpdateTheme()
			m.spinner.Style = loadingStyle
		} else {
			m.logger.Warn("unknown tui theme", "theme", cfg.TUITheme)
		}
	}

	m.cfg.TUITheme = cfg.TUITheme
	m.cfg.Markdown = cfg.Markdown
	m.cfg.Hyperlinks = cfg.Hyperlinks
	m.cfg.Suggestions = cfg.Suggestions
	render.ClearCache()

	m.logger.Info("config reloaded", "theme", cfg.TUITheme, "markdown_style", cfg.Markdown.Style)
	m.notice = "Config reloaded"
	m.updateViewport()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	state := m.controller.Snapshot()
	contentWidth := m.width - 4
	var sections []string

	// Header
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ "+AppTitle),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.baseURL()),
		hintStyle.Render(m.transportLabel()+"  •  "),
		m.renderHealth(),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if len(state.Messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if state.Loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth, state))

	if state.LastError != nil {
		sections = append(sections, FormatError(state.LastError))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) baseURL() string {
	if m.client == nil {
		return ""
	}
	return m.client.BaseURL()
}

// transportLabel names the chat transport next to the base URL
func (m Model) transportLabel() string {
	if m.client == nil {
		return ""
	}
	return " (" + string(m.client.Transport()) + ")"
}

// renderHealth renders the backend status dot
func (m Model) renderHealth() string {
	switch {
	case m.healthErr != nil:
		return healthDownStyle.Render("● offline")
	case m.health == nil:
		return hintStyle.Render("○ checking")
	case m.health.Ready():
		return healthReadyStyle.Render("● ready")
	case m.health.Status != "":
		return healthPendingStyle.Render("● " + m.health.Status)
	default:
		return healthPendingStyle.Render(fmt.Sprintf("● HTTP %d", m.health.StatusCode))
	}
}

// renderWelcome renders the welcome screen with suggested questions
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	lines := []string{
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to " + AppTitle),
		welcomeStyle.Width(width).Render("Ask me anything about Sierra. Press Tab for a suggestion."),
		"",
	}

	for i, s := range m.suggestions() {
		item := suggestionIndexStyle.Render(fmt.Sprintf("%d ", i+1)) + s
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, suggestionStyle.Render(item)))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the animated "thinking" indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Sierra is thinking ")
	cancel := hintStyle.Render("  esc to cancel")

	return fmt.Sprintf("%s %s %s %s%s", spin, bar.String(), text, dots.String(), cancel)
}

// renderStatusBar renders key hints, token usage and the last notice
func (m Model) renderStatusBar(width int, state conversation.State) string {
	bindings := m.keys.ShortHelp()
	if state.Loading {
		bindings = m.keys.LoadingHelp()
	}

	var items []string
	for _, b := range bindings {
		h := b.Help()
		items = append(items, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}
	if state.LastUsage != nil {
		items = append(items, statusDescStyle.Render("tokens "+state.LastUsage.String()))
	}
	if m.notice != "" {
		items = append(items, noticeStyle.Render(m.notice))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.controller.Snapshot().Messages))
}

// renderMessages renders the conversation in order
func (m Model) renderMessages(messages []models.Message) string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	innerWidth := bubbleWidth - 4

	mdOpts := render.OptionsFromConfig(m.cfg.Markdown).WithWidth(innerWidth)
	srcOpts := render.SourceOptions{
		Width:       innerWidth,
		Hyperlinks:  m.cfg.Hyperlinks,
		HeaderStyle: sourcesHeaderStyle,
		LinkStyle:   sourceLinkStyle,
	}

	for i, msg := range messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("● You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
		} else {
			body := render.Answer(msg.Content, mdOpts)
			if msg.HasSources() {
				body += "\n\n" + render.Sources(msg.Sources, srcOpts)
			}
			content.WriteString(assistantLabelStyle.Render("✦ Sierra"))
			content.WriteString("\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(body))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// viewportKeyMap limits viewport scrolling to keys that never reach the
// textarea, so typing j or k does not scroll.
func viewportKeyMap(keys KeyMap) viewport.KeyMap {
	return viewport.KeyMap{
		PageUp:   keys.PageUp,
		PageDown: keys.PageDown,
		Up:       key.NewBinding(key.WithKeys("ctrl+up")),
		Down:     key.NewBinding(key.WithKeys("ctrl+down")),
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// RunChat starts the chat TUI. When configPath is set, edits to that file
// update the theme, markdown and suggestion settings of the running program.
func RunChat(client api.ClientInterface, cfg config.Config, logger *slog.Logger, configPath string) error {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	m := NewChatModel(client, cfg, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, config.LoadConfig, func(c config.Config, err error) {
			p.Send(configChangedMsg{cfg: c, err: err})
		})
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			logger.Warn("config watcher disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	logger.Info("chat started", "base_url", client.BaseURL())
	_, err := p.Run()
	m.cancelMgr.cancel()
	return err
}
