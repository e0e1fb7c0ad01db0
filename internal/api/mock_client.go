package api

import (
	"context"
	"sync"

	"github.com/diogo/sierrachat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	Response  *models.ChatResponse
	SendErr   error
	Health    *models.HealthStatus
	HealthErr error
	URL       string
	Mode      models.Transport

	// Block, when set, makes SendChatMessage wait until it is closed or the
	// context ends
	Block chan struct{}

	// Call counters/recorders
	mu          sync.Mutex
	SendCalls   int
	HealthCalls int
	LastText    string
	CloseCalled bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) SendChatMessage(ctx context.Context, text string) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.SendCalls++
	m.LastText = text
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return m.Response, m.SendErr
}

func (m *MockClient) CheckHealth(ctx context.Context) (*models.HealthStatus, error) {
	m.mu.Lock()
	m.HealthCalls++
	m.mu.Unlock()
	return m.Health, m.HealthErr
}

func (m *MockClient) BaseURL() string {
	if m.URL == "" {
		return models.DefaultBaseURL
	}
	return m.URL
}

func (m *MockClient) Transport() models.Transport {
	if m.Mode == "" {
		return models.TransportHeader
	}
	return m.Mode
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// Calls returns the number of SendChatMessage calls so far
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SendCalls
}
