package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"healthchat/pkg/conversation"
	"healthchat/pkg/credential"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoAPIKey = fmt.Errorf("no API key: run `healthchat key set` or set %s", credential.EnvAPIKey)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant one question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			env.key.Load()
			if env.key.Value() == "" {
				return errNoAPIKey
			}

			completer, err := newCompleter(env.cfg, env.key.Value())
			if err != nil {
				return err
			}
			convo := conversation.New(completer, conversation.Options{
				Welcome:           env.cfg.Assistant.WelcomeMessage,
				Model:             env.cfg.ActiveModel(),
				SystemInstruction: env.cfg.Assistant.SystemPrompt,
				RevealInterval:    time.Duration(env.cfg.Assistant.RevealIntervalMs) * time.Millisecond,
			})

			out := cmd.OutOrStdout()
			typewriter := !plain && isTerminal(out)
			w := &suffixWriter{out: out}

			var onPartial func(string)
			if typewriter {
				onPartial = w.write
			}
			reply, err := convo.Play(cmd.Context(), strings.Join(args, " "), onPartial)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), conversation.ErrorReply)
				return err
			}
			w.write(reply)
			_, err = fmt.Fprintln(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the reply at once instead of typing it out")
	return cmd
}

// suffixWriter prints only the part of each prefix not written yet.
type suffixWriter struct {
	out     io.Writer
	written int
}

func (w *suffixWriter) write(prefix string) {
	runes := []rune(prefix)
	if len(runes) <= w.written {
		return
	}
	fmt.Fprint(w.out, string(runes[w.written:]))
	w.written = len(runes)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
