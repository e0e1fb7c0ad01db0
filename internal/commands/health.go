package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/sierrachat/internal/api"
)

const healthTimeout = 10 * time.Second

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend health",
		Long: `Query the backend health endpoint and print its JSON body.

Exits non-zero when the backend is unreachable or not ready.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHealth(cmd.Context())
		},
	}
}

func (a *app) runHealth(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := a.deps.NewClient(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status, err := client.CheckHealth(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if status == nil {
		return fmt.Errorf("health check failed: empty response")
	}

	fmt.Fprintln(a.deps.Stdout, api.PrettyJSON(status.Raw))

	label := status.Status
	if label == "" {
		label = fmt.Sprintf("HTTP %d", status.StatusCode)
	}
	line := fmt.Sprintf("%s: %s", client.BaseURL(), label)
	if status.Message != "" {
		line += " (" + status.Message + ")"
	}

	if !status.Ready() {
		fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render("✗ "+line))
		return fmt.Errorf("backend not ready: %s", label)
	}
	fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ "+line))
	return nil
}
