package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/sierrachat/internal/config"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the Sierra AI Assistant.

Enter sends, Alt+Enter inserts a newline, Tab fills in a suggested question,
Esc cancels a pending answer. Type 'exit', 'quit', or press Ctrl+C to end the session.

Logs are written to ~/.sierrachat/sierrachat.log while the chat is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat()
		},
	}
}

func (a *app) runChat() error {
	logger := config.DiscardLogger()
	if logFile, err := a.cfg.OpenLogFile(); err != nil {
		a.logger.Warn("chat log disabled", "error", err)
	} else {
		defer logFile.Close()
		logger = a.cfg.NewLogger(logFile)
	}

	client, err := a.deps.NewClient(a.cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	configPath, err := config.GetConfigPath()
	if err != nil {
		// Hot reload only; the chat works without it
		logger.Warn("config path unavailable", "error", err)
		configPath = ""
	}

	return a.deps.RunChat(client, a.cfg, logger, configPath)
}
