package main

import (
	"fmt"

	"healthchat/pkg/images"

	"github.com/spf13/cobra"
)

func newCatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat",
		Short: "Print the URL of a random cat picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			img, err := images.New(env.cfg).Random(cmd.Context())
			if err != nil {
				return fmt.Errorf("取得貓咪圖片失敗: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), img.URL)
			return err
		},
	}
}
