// Package conversation owns the in-memory chat state and drives the backend
// client for each user submission.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/diogo/sierrachat/internal/config"
	apierrors "github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/models"
)

// Sender sends one user message to the backend
type Sender interface {
	SendChatMessage(ctx context.Context, text string) (*models.ChatResponse, error)
}

// State is a snapshot of the conversation for rendering
type State struct {
	Messages  []models.Message
	Loading   bool
	LastError error
	LastUsage *models.Usage
}

// Controller holds the ordered message list and the loading flag.
// Messages are only ever appended. At most one submission is in flight.
type Controller struct {
	sender Sender
	logger *slog.Logger

	mu        sync.Mutex
	messages  []models.Message
	loading   bool
	lastErr   error
	lastUsage *models.Usage
	seq       uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller with an empty conversation
func NewController(sender Sender, opts ...Option) *Controller {
	c := &Controller{
		sender: sender,
		logger: config.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pending is an accepted submission waiting for its network call
type Pending struct {
	seq    uint64
	text   string
	sender Sender
}

// Text returns the trimmed user text
func (p *Pending) Text() string {
	return p.text
}

// Result is the outcome of a Pending send
type Result struct {
	Seq      uint64
	Response *models.ChatResponse
	Err      error
}

// Send performs the network call. It does not touch conversation state and
// is safe to run off the UI goroutine.
func (p *Pending) Send(ctx context.Context) Result {
	resp, err := p.sender.SendChatMessage(ctx, p.text)
	if err == nil && resp == nil {
		err = apierrors.NewParseError("empty response", "")
	}
	if err != nil {
		if ctxErr := apierrors.FromContext(err); ctxErr != nil {
			err = ctxErr
		}
		return Result{Seq: p.seq, Err: err}
	}
	return Result{Seq: p.seq, Response: resp}
}

// Begin accepts a submission: it appends the user message, clears the last
// error and sets the loading flag. Whitespace-only text is rejected with
// ErrEmptyMessage and a submission while another is in flight with ErrBusy;
// neither changes state.
func (c *Controller) Begin(text string) (*Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return nil, apierrors.ErrBusy
	}

	c.seq++
	c.messages = append(c.messages, models.NewUserMessage(text))
	c.lastErr = nil
	c.loading = true

	c.logger.Debug("submission started", "seq", c.seq, "chars", len(text))

	return &Pending{seq: c.seq, text: text, sender: c.sender}, nil
}

// Complete reconciles a Result into the conversation and returns the
// assistant message it appended. Results that do not belong to the current
// submission are ignored and ok is false.
func (c *Controller) Complete(res Result) (msg models.Message, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loading || res.Seq != c.seq {
		c.logger.Debug("ignoring stale result", "seq", res.Seq, "current", c.seq)
		return models.Message{}, false
	}

	// loading ends on both paths
	c.loading = false

	if res.Err != nil {
		c.lastErr = res.Err
		msg = models.NewAssistantMessage(models.ErrorReplyPrefix+apierrors.UserMessage(res.Err), nil)
		c.logger.Warn("chat request failed",
			"seq", res.Seq,
			"error", res.Err,
			"status", apierrors.GetHTTPStatus(res.Err),
		)
	} else {
		msg = models.NewAssistantMessage(res.Response.Answer, res.Response.Sources)
		if res.Response.Usage != nil {
			c.lastUsage = res.Response.Usage
		}
		c.logger.Debug("chat request succeeded", "seq", res.Seq, "sources", len(res.Response.Sources))
	}

	c.messages = append(c.messages, msg)
	return msg, true
}

// Submit runs a whole submission synchronously
func (c *Controller) Submit(ctx context.Context, text string) (models.Message, error) {
	pending, err := c.Begin(text)
	if err != nil {
		return models.Message{}, err
	}

	res := pending.Send(ctx)
	msg, _ := c.Complete(res)
	return msg, res.Err
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]models.Message, len(c.messages))
	copy(messages, c.messages)

	return State{
		Messages:  messages,
		Loading:   c.loading,
		LastError: c.lastErr,
		LastUsage: c.lastUsage,
	}
}

// Loading reports whether a submission is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastAssistant returns the most recent assistant message
func (c *Controller) LastAssistant() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}
