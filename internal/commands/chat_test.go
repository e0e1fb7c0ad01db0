package commands

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/sierrachat/internal/api"
	"github.com/diogo/sierrachat/internal/config"
)

func TestChatCommand(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("chat"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if env.chatCalls != 1 {
		t.Fatalf("RunChat called %d times, want 1", env.chatCalls)
	}
	if !strings.HasSuffix(env.configPath, filepath.Join(".sierrachat", "config.json")) {
		t.Errorf("configPath = %q", env.configPath)
	}
	if !env.client.CloseCalled {
		t.Error("client should be closed when the chat ends")
	}
	if env.client.Calls() != 0 {
		t.Error("chat must not send anything by itself")
	}

	logPath, err := env.gotCfg.GetLogPath()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("chat log file not created: %v", err)
	}
}

func TestChatCommand_RejectsArgs(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("chat", "hello"); err == nil {
		t.Fatal("expected error for positional args")
	}
	if env.chatCalls != 0 {
		t.Error("RunChat should not be called")
	}
}

func TestChatCommand_Errors(t *testing.T) {
	t.Run("client creation", func(t *testing.T) {
		env := newTestEnv(t)
		env.deps.NewClient = func(config.Config, *slog.Logger) (api.ClientInterface, error) {
			return nil, errors.New("bad base url")
		}
		err := env.run("chat")
		if err == nil || !strings.Contains(err.Error(), "failed to create client") {
			t.Fatalf("expected client error, got %v", err)
		}
		if env.chatCalls != 0 {
			t.Error("RunChat should not be called")
		}
	})

	t.Run("tui failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.deps.RunChat = func(api.ClientInterface, config.Config, *slog.Logger, string) error {
			return errors.New("no tty")
		}
		if err := env.run("chat"); err == nil || err.Error() != "no tty" {
			t.Fatalf("expected TUI error, got %v", err)
		}
	})
}
