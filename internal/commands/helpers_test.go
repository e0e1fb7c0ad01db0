package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/diogo/sierrachat/internal/api"
	"github.com/diogo/sierrachat/internal/config"
	"github.com/diogo/sierrachat/internal/models"
)

// testEnv bundles fake dependencies and captured output
type testEnv struct {
	deps   *Dependencies
	client *api.MockClient
	stdout *bytes.Buffer
	stderr *bytes.Buffer

	gotCfg      config.Config
	chatCalls   int
	configCalls int
	configPath  string
	copied      []string
}

// newTestEnv isolates HOME so no real config or log file is touched
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "")

	env := &testEnv{
		client: &api.MockClient{
			Response: &models.ChatResponse{Answer: "Hello", Sources: []string{"https://a/b"}},
			Health:   &models.HealthStatus{Status: "ready", StatusCode: 200, Raw: `{"status":"ready"}`},
		},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error) {
			env.gotCfg = cfg
			return env.client, nil
		},
		RunChat: func(client api.ClientInterface, cfg config.Config, logger *slog.Logger, configPath string) error {
			env.chatCalls++
			env.gotCfg = cfg
			env.configPath = configPath
			return nil
		},
		RunConfig: func(cfg config.Config, configPath string) error {
			env.configCalls++
			env.gotCfg = cfg
			env.configPath = configPath
			return nil
		},
		Copy: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		Stdin:  &bytes.Buffer{},
		Stdout: env.stdout,
		Stderr: env.stderr,
	}
	return env
}

// run executes a fresh command tree with args
func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
