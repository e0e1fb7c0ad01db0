package api

import (
	"context"

	"github.com/diogo/sierrachat/internal/models"
)

// ClientInterface defines the backend operations used by the TUI and commands
type ClientInterface interface {
	SendChatMessage(ctx context.Context, text string) (*models.ChatResponse, error)
	CheckHealth(ctx context.Context) (*models.HealthStatus, error)
	BaseURL() string
	Transport() models.Transport
	Close()
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)
