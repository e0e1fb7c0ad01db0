package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/models"
)

// chatPayload is the JSON body used by the body transport
type chatPayload struct {
	Message string `json:"message"`
	TopK    int    `json:"top_k,omitempty"`
}

// SendChatMessage sends the user's text to the chat endpoint and returns the
// parsed answer. Non-2xx responses become an APIError carrying the server's
// error text or a fallback.
func (c *Client) SendChatMessage(ctx context.Context, text string) (*models.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.buildChatRequest(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.newRequestID()
	req.Header.Set(models.HeaderRequestID, requestID)

	c.logger.Debug("sending chat message",
		"request_id", requestID,
		"method", req.Method,
		"endpoint", c.chatPath,
		"transport", c.transport,
		"chars", len(text),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("chat request failed", "request_id", requestID, "error", err)
		return nil, c.transportError(ctx, "send chat message", c.chatPath, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, "read chat response", c.chatPath, err)
	}

	c.logger.Debug("chat response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"body", truncate(string(body), maxLoggedBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp.StatusCode, c.chatPath, body)
	}

	return parseChatResponse(body)
}

// buildChatRequest creates the request for the configured transport
func (c *Client) buildChatRequest(ctx context.Context, text string) (*http.Request, error) {
	endpoint := c.endpointURL(c.chatPath)

	var req *http.Request
	var err error

	switch c.transport {
	case models.TransportBody:
		payload, marshalErr := json.Marshal(chatPayload{Message: text, TopK: c.topK})
		if marshalErr != nil {
			return nil, marshalErr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	default:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err == nil {
			req.Header.Set(models.HeaderMessage, sanitizeHeaderValue(text))
		}
	}
	if err != nil {
		return nil, err
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	return req, nil
}

// sanitizeHeaderValue folds line breaks and drops control characters that
// are not allowed in an HTTP header value
func sanitizeHeaderValue(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\r' || r == '\n':
			return ' '
		case r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, s)
}

// parseChatResponse parses a 2xx chat body
func parseChatResponse(body []byte) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	answer := parsed.Get(PathAnswer)
	if !answer.Exists() || answer.Type == gjson.Null {
		return nil, apierrors.NewParseError("response has no answer", PathAnswer)
	}
	if strings.TrimSpace(answer.String()) == "" {
		return nil, apierrors.NewParseError("response has an empty answer", PathAnswer)
	}

	out := &models.ChatResponse{
		Answer: answer.String(),
		Raw:    string(body),
	}

	parsed.Get(PathSources).ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.String {
			if src := strings.TrimSpace(value.String()); src != "" {
				out.Sources = append(out.Sources, src)
			}
		}
		return true
	})

	if usage := parsed.Get(PathUsage); usage.IsObject() {
		out.Usage = &models.Usage{
			InputTokens:  usage.Get(PathInputTokens).Int(),
			OutputTokens: usage.Get(PathOutputTokens).Int(),
		}
	}

	return out, nil
}

// parseErrorResponse builds the APIError for a non-2xx response
func parseErrorResponse(statusCode int, endpoint string, body []byte) error {
	message := models.UnparsableErrorMessage
	if gjson.ValidBytes(body) {
		message = models.FallbackErrorMessage
		if errField := gjson.GetBytes(body, PathError); errField.Exists() && errField.Type != gjson.Null {
			if s := strings.TrimSpace(errField.String()); s != "" {
				message = s
			}
		}
	}

	return apierrors.NewAPIErrorWithBody(statusCode, endpoint, message, truncate(string(body), maxErrorBody))
}
