package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/sierrachat/internal/conversation"
	apierrors "github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/models"
	"github.com/diogo/sierrachat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#00D084"),
	lipgloss.Color("#00B372"),
	lipgloss.Color("#009660"),
	lipgloss.Color("#33DA9D"),
	lipgloss.Color("#66E3B5"),
	lipgloss.Color("#99ECCE"),
}

var (
	colorText     = lipgloss.Color("#E6EDF3")
	colorTextDim  = lipgloss.Color("#7D8590")
	colorTextMute = lipgloss.Color("#30363D")
	colorSuccess  = lipgloss.Color("#00D084")
	colorPrimary  = lipgloss.Color("#00B372")
	colorError    = lipgloss.Color("#F85149")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	sourcesHeaderStyle = lipgloss.NewStyle().Foreground(colorTextDim).Bold(true)
	sourceLinkStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Underline(true)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner drawing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single question and prints the answer with its sources.
// With --raw only the plain answer and source URLs are printed.
func (a *app) runQuery(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := a.deps.NewClient(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	a.logger.Debug("one-shot query", "base_url", client.BaseURL(), "transport", client.Transport(), "chars", len(prompt))

	controller := conversation.NewController(client, conversation.WithLogger(a.logger))

	var spin *spinner
	if !a.rawFlag && isTerminal(a.deps.Stderr) {
		spin = newSpinner(a.deps.Stderr, "Asking Sierra")
		spin.start()
	}

	startTime := time.Now()
	msg, err := controller.Submit(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		if msg.Content != "" {
			fmt.Fprintln(a.deps.Stdout, msg.Content)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}
	a.logger.Debug("one-shot query finished", "took", time.Since(startTime).Round(time.Millisecond))

	if a.rawFlag {
		text := plainAnswer(msg)
		if a.outputFlag != "" {
			if err := os.WriteFile(a.outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Fprintln(a.deps.Stdout, text)
		return nil
	}

	if a.cfg.CopyToClipboard {
		if err := a.deps.Copy(msg.Content); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(a.deps.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(a.deps.Stderr, clipMsg)
		}
	}

	if a.outputFlag != "" {
		if err := os.WriteFile(a.outputFlag, []byte(plainAnswer(msg)), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", a.outputFlag),
		)
		fmt.Fprintln(a.deps.Stderr, successMsg)
		return nil
	}

	fmt.Fprintln(a.deps.Stdout, a.renderAnswer(msg, getTerminalWidth(a.deps.Stdout)))
	return nil
}

// plainAnswer joins the answer and its sources as plain text
func plainAnswer(msg models.Message) string {
	if !msg.HasSources() {
		return msg.Content
	}
	return msg.Content + "\n\n" + render.PlainSources(msg.Sources)
}

// renderAnswer draws the assistant bubble for termWidth columns
func (a *app) renderAnswer(msg models.Message, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	body := render.Answer(msg.Content, render.OptionsFromConfig(a.cfg.Markdown).WithWidth(contentWidth))
	if msg.HasSources() {
		body += "\n\n" + render.Sources(msg.Sources, render.SourceOptions{
			Width:       contentWidth,
			Hyperlinks:  a.cfg.Hyperlinks && isTerminal(a.deps.Stdout),
			HeaderStyle: sourcesHeaderStyle,
			LinkStyle:   sourceLinkStyle,
		})
	}

	return assistantLabelStyle.Render("✦ Sierra") + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(body)
}

// getTerminalWidth returns the terminal width of w or a default value
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isTerminal returns true if w is connected to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsCancelled(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The request was cancelled before the backend answered"))
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Raise timeout_seconds or check the backend"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check that the backend is running at the configured base_url"))
		case apierrors.IsParseError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The backend answered with an unexpected body. Try 'sierrachat health'"))
		}
	}

	return sb.String()
}
