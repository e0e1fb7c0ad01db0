package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/sierrachat/internal/config"
	"github.com/diogo/sierrachat/internal/render"
)

type savedValue struct {
	key, value string
}

func newTestConfigModel(t *testing.T, saveErr error) (ConfigModel, *[]savedValue) {
	t.Helper()
	t.Cleanup(func() {
		render.SetTUITheme(render.SierraTheme.Name)
		UpdateTheme()
	})

	var saved []savedValue
	save := func(key, value string) error {
		if saveErr != nil {
			return saveErr
		}
		saved = append(saved, savedValue{key, value})
		return nil
	}

	m := NewConfigModel(config.DefaultConfig(), "/home/test/.sierrachat/config.json", save)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(ConfigModel), &saved
}

func sendKey(t *testing.T, m ConfigModel, key string) (ConfigModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(ConfigModel), cmd
}

// cursorTo moves the main cursor onto the setting with key
func cursorTo(t *testing.T, m ConfigModel, key string) ConfigModel {
	t.Helper()
	for i := range m.items {
		if m.items[i].Key == key {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("no setting %q", key)
	return m
}

func TestNewConfigModel(t *testing.T) {
	m, _ := newTestConfigModel(t, nil)

	if m.editing != -1 {
		t.Errorf("editing = %d, want -1", m.editing)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	if m.feedbackTimeout != 2*time.Second {
		t.Errorf("feedbackTimeout = %v", m.feedbackTimeout)
	}
	if m.Init() != nil {
		t.Error("Init should return nil command")
	}
	if !m.ready || m.width != 100 {
		t.Error("model should be ready after WindowSizeMsg")
	}
}

func TestConfigModel_NilSaveDefaultsToSetValue(t *testing.T) {
	m := NewConfigModel(config.DefaultConfig(), "", nil)
	if m.save == nil {
		t.Fatal("save should default to config.SetValue")
	}
}

func TestConfigModel_Navigation(t *testing.T) {
	m, _ := newTestConfigModel(t, nil)
	n := len(m.items)

	m, _ = sendKey(t, m, "up")
	if m.cursor != n-1 {
		t.Errorf("up from top should wrap to %d, got %d", n-1, m.cursor)
	}
	m, _ = sendKey(t, m, "down")
	if m.cursor != 0 {
		t.Errorf("down from bottom should wrap to 0, got %d", m.cursor)
	}
	m, _ = sendKey(t, m, "j")
	if m.cursor != 1 {
		t.Errorf("j should move down, got %d", m.cursor)
	}
	m, _ = sendKey(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("k should move up, got %d", m.cursor)
	}
}

func TestConfigModel_Toggle(t *testing.T) {
	tests := []struct {
		key   string
		want  string
		check func(config.Config) bool
	}{
		{"hyperlinks", "false", func(c config.Config) bool { return !c.Hyperlinks }},
		{"copy_to_clipboard", "true", func(c config.Config) bool { return c.CopyToClipboard }},
		{"verbose", "true", func(c config.Config) bool { return c.Verbose }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, saved := newTestConfigModel(t, nil)
			m = cursorTo(t, m, tt.key)

			m, cmd := sendKey(t, m, "enter")
			if cmd == nil {
				t.Error("expected feedback clear command")
			}
			if len(*saved) != 1 || (*saved)[0] != (savedValue{tt.key, tt.want}) {
				t.Fatalf("saved = %v", *saved)
			}
			if !tt.check(m.Config()) {
				t.Error("in-memory config not updated")
			}
			if !strings.Contains(m.feedback, "enabled") && !strings.Contains(m.feedback, "disabled") {
				t.Errorf("feedback = %q", m.feedback)
			}
		})
	}
}

func TestConfigModel_ChoiceTransport(t *testing.T) {
	m, saved := newTestConfigModel(t, nil)
	m = cursorTo(t, m, "transport")

	m, _ = sendKey(t, m, "enter")
	if m.editing != m.cursor {
		t.Fatalf("expected options sub-menu, editing = %d", m.editing)
	}
	if m.optionCursor != 0 {
		t.Errorf("option cursor should start on the current value (header), got %d", m.optionCursor)
	}
	if !strings.Contains(m.View(), "Select Transport") {
		t.Error("sub-menu not rendered")
	}

	m, _ = sendKey(t, m, "down")
	m, _ = sendKey(t, m, "enter")

	if m.editing != -1 {
		t.Error("selecting an option should return to the main menu")
	}
	if len(*saved) != 1 || (*saved)[0] != (savedValue{"transport", "body"}) {
		t.Fatalf("saved = %v", *saved)
	}
	if m.Config().Transport != "body" {
		t.Errorf("Transport = %q", m.Config().Transport)
	}
	if !strings.Contains(m.feedback, "Transport set to body") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_ChoiceTUIThemeApplies(t *testing.T) {
	m, saved := newTestConfigModel(t, nil)
	m = cursorTo(t, m, "tui_theme")

	m, _ = sendKey(t, m, "enter")
	names := render.TUIThemeNames()
	for m.items[m.editing].Options()[m.optionCursor].Value != "nord" {
		m, _ = sendKey(t, m, "down")
		if len(*saved) > 0 {
			t.Fatal("moving must not save")
		}
		if m.optionCursor >= len(names) {
			t.Fatal("nord theme not found")
		}
	}
	m, _ = sendKey(t, m, "enter")

	if render.GetTUITheme().Name != "nord" {
		t.Errorf("active theme = %q, want nord", render.GetTUITheme().Name)
	}
	if m.Config().TUITheme != "nord" {
		t.Errorf("TUITheme = %q", m.Config().TUITheme)
	}
}

func TestConfigModel_EscBacksOutThenQuits(t *testing.T) {
	m, saved := newTestConfigModel(t, nil)
	m = cursorTo(t, m, "markdown.style")

	m, _ = sendKey(t, m, "enter")
	m, cmd := sendKey(t, m, "esc")
	if m.editing != -1 {
		t.Error("esc should close the sub-menu")
	}
	if cmd != nil {
		t.Error("esc in a sub-menu should not quit")
	}
	if len(*saved) != 0 {
		t.Error("esc must not save")
	}

	_, cmd = sendKey(t, m, "esc")
	if !isQuit(cmd) {
		t.Error("esc on the main menu should quit")
	}
}

func TestConfigModel_ExitAndCtrlC(t *testing.T) {
	m, _ := newTestConfigModel(t, nil)

	if _, cmd := sendKey(t, m, "ctrl+c"); !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}

	m.cursor = len(m.items) - 1
	if _, cmd := sendKey(t, m, "enter"); !isQuit(cmd) {
		t.Error("Exit entry should quit")
	}
}

func TestConfigModel_SaveError(t *testing.T) {
	m, _ := newTestConfigModel(t, errors.New("disk full"))
	m = cursorTo(t, m, "verbose")

	m, _ = sendKey(t, m, "enter")
	if !m.feedbackIsError || !strings.Contains(m.feedback, "disk full") {
		t.Errorf("feedback = %q (error %v)", m.feedback, m.feedbackIsError)
	}
	if m.Config().Verbose {
		t.Error("config must not change when saving fails")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("error feedback not rendered")
	}

	updated, _ := m.Update(feedbackClearMsg{})
	if cleared := updated.(ConfigModel); cleared.feedback != "" || cleared.feedbackIsError {
		t.Error("feedbackClearMsg should clear feedback")
	}
}

func TestConfigModel_View(t *testing.T) {
	m := NewConfigModel(config.DefaultConfig(), "/tmp/config.json", func(string, string) error { return nil })
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view before the first WindowSizeMsg should show a placeholder")
	}

	m, _ = newTestConfigModel(t, nil)
	view := m.View()
	for _, want := range []string{"Configuration", "Transport", "header", "Markdown Theme", "TUI Theme", "sierra", "enabled", "Exit", "config.json", "http://localhost:3000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestClearFeedback(t *testing.T) {
	if clearFeedback(time.Millisecond) == nil {
		t.Error("clearFeedback should return a command")
	}
}
