// Package commands provides CLI commands for sierrachat.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/diogo/sierrachat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// app carries the state shared by all commands of one invocation
type app struct {
	deps   *Dependencies
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger

	outputFlag string
	fileFlag   string
	rawFlag    bool
}

// NewRootCmd creates the sierrachat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	a := &app{deps: deps, logger: config.DiscardLogger()}

	rootCmd := &cobra.Command{
		Use:   "sierrachat [prompt]",
		Short: "Terminal client for the Sierra AI Assistant",
		Long: `sierrachat sends questions to a Sierra AI Assistant backend and shows the
answers with their sources.

Examples:
  sierrachat chat                          Start interactive chat
  sierrachat "What is Sierra AI?"          Ask a single question
  sierrachat -f question.md                Read the question from a file
  echo "Who founded Sierra?" | sierrachat  Read the question from stdin
  sierrachat "Hello" -o answer.md          Save the answer to a file
  sierrachat health                        Show backend health
  sierrachat config set base_url https://chat.example.com`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "sierrachat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if a.fileFlag != "" {
				data, err := os.ReadFile(a.fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return a.runQuery(cmd.Context(), string(data))
			}

			if data, ok, err := readStdin(deps.Stdin); err != nil {
				return err
			} else if ok {
				return a.runQuery(cmd.Context(), data)
			}

			if len(args) > 0 {
				return a.runQuery(cmd.Context(), args[0])
			}

			return cmd.Help()
		},
	}

	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.PersistentFlags().String("base-url", "", "Backend base URL (default "+config.DefaultConfig().BaseURL+")")
	rootCmd.PersistentFlags().String("transport", "", `How the message is sent: "header" (GET) or "body" (POST JSON)`)
	rootCmd.PersistentFlags().Bool("verbose", false, "Log requests to stderr")
	rootCmd.Flags().StringVarP(&a.outputFlag, "output", "o", "", "Save the answer to a file")
	rootCmd.Flags().StringVarP(&a.fileFlag, "file", "f", "", "Read the question from a file")
	rootCmd.Flags().BoolVar(&a.rawFlag, "raw", false, "Print the plain answer without styling")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(newChatCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// loadConfig merges .env, the config file, SIERRACHAT_* variables and flags
func (a *app) loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	v, err := config.NewViper()
	if err != nil {
		return err
	}

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"base_url":  "base-url",
		"transport": "transport",
		"verbose":   "verbose",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil && !isConfigCommand(cmd) {
		return err
	}

	a.v = v
	a.cfg = cfg
	if cfg.Verbose {
		a.logger = cfg.NewLogger(a.deps.Stderr)
	}
	return nil
}

// isConfigCommand reports whether cmd is under "config", which must keep
// working when the stored configuration is invalid
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// readStdin returns piped input. A terminal or a nil reader yields ok=false.
func readStdin(r io.Reader) (string, bool, error) {
	if r == nil {
		return "", false, nil
	}
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		stop()
		os.Exit(1)
	}
}
