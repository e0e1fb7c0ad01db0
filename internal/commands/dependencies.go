package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/sierrachat/internal/api"
	"github.com/diogo/sierrachat/internal/config"
	"github.com/diogo/sierrachat/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client from the effective configuration
	NewClient func(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error)

	// RunChat runs the interactive TUI
	RunChat func(client api.ClientInterface, cfg config.Config, logger *slog.Logger, configPath string) error

	// RunConfig runs the interactive settings menu
	RunConfig func(cfg config.Config, configPath string) error

	// Copy writes text to the system clipboard
	Copy func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: func(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error) {
			return api.NewClientFromConfig(cfg, logger)
		},
		RunChat:   tui.RunChat,
		RunConfig: tui.RunConfig,
		Copy:      clipboard.WriteAll,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}
