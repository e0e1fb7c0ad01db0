package api

import (
	"context"
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/models"
)

// CheckHealth fetches the health endpoint and returns its parsed body.
// The body is arbitrary JSON; a non-2xx status is reported through
// HealthStatus.StatusCode rather than as an error.
func (c *Client) CheckHealth(ctx context.Context) (*models.HealthStatus, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(c.healthPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", models.ContentTypeJSON)
	req.Header.Set(models.HeaderRequestID, c.newRequestID())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "check health", c.healthPath, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, "read health response", c.healthPath, err)
	}

	c.logger.Debug("health response",
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"body", truncate(string(body), maxLoggedBody),
	)

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("health response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	return &models.HealthStatus{
		Status:     parsed.Get(PathHealthStatus).String(),
		Message:    parsed.Get(PathHealthMessage).String(),
		StatusCode: resp.StatusCode,
		Raw:        string(body),
	}, nil
}

// PrettyJSON indents a raw JSON document for display
func PrettyJSON(raw string) string {
	if !gjson.Valid(raw) {
		return raw
	}
	return gjson.Get(raw, PathPretty).String()
}
