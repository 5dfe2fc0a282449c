package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "healthchat/pkg/ai/providers"
	"healthchat/pkg/credential"
	"healthchat/pkg/images"
	"healthchat/pkg/recipes"
	"healthchat/pkg/ui"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(submain())
}

func submain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "healthchat: %v\n", err)
		slog.Error("command_failed", "error", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "healthchat",
		Short:         "Healthy-diet chat assistant for the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default ~/.healthchat/config.json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (trace, debug, info, warn, error)")

	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newRecipesCmd(opts))
	root.AddCommand(newCatCmd(opts))
	root.AddCommand(newKeyCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func runTUI(ctx context.Context, opts *rootOptions, errOut io.Writer) error {
	env, err := loadEnv(opts, errOut)
	if err != nil {
		return err
	}
	env.key.Load()

	model := ui.NewModel(ui.Options{
		Config:       env.cfg,
		ConfigPath:   env.cfgPath,
		Credential:   env.key,
		NewCompleter: newCompleter,
		Recipes:      recipes.New(env.cfg),
		Images:       images.New(env.cfg),
		Context:      ctx,
	})

	slog.Info("tui_start", "config_path", env.cfgPath, "key_source", keySource(env.key))
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func keySource(s *credential.Setting) string {
	switch {
	case s.Value() == "":
		return "none"
	case s.FromEnv():
		return "env"
	case s.Remember():
		return "stored"
	default:
		return "session"
	}
}
