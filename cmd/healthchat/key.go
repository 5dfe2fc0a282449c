package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"healthchat/pkg/logging"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newKeyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored completion API key",
	}
	cmd.AddCommand(newKeySetCmd(opts))
	cmd.AddCommand(newKeyClearCmd(opts))
	cmd.AddCommand(newKeyStatusCmd(opts))
	return cmd
}

func newKeySetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Store an API key on this machine",
		Long:  "Store an API key on this machine. Without an argument the key is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var value string
			if len(args) == 1 {
				value = args[0]
			} else {
				value, err = readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			value = strings.TrimSpace(value)
			if value == "" {
				return errors.New("empty API key")
			}

			if err := env.key.SetRemember(true); err != nil {
				return err
			}
			if err := env.key.Set(value); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s to %s\n", env.key.Name(), env.store.Path())
			return err
		},
	}
}

func newKeyClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := env.store.Delete(env.key.Name()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", env.key.Name())
			return err
		},
	}
}

func newKeyStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			env.key.Load()

			out := cmd.OutOrStdout()
			source := keySource(env.key)
			if source == "none" {
				_, err = fmt.Fprintf(out, "%s: not set\n", env.key.Name())
				return err
			}
			_, err = fmt.Fprintf(out, "%s: %s (%s)\n", env.key.Name(), logging.MaskSecret(env.key.Value()), source)
			return err
		},
	}
}

// readSecret reads one line, without echo when in is a terminal.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	return line, nil
}
