package main

import (
	"fmt"
	"strconv"
	"strings"

	"healthchat/pkg/recipes"

	"github.com/spf13/cobra"
)

const noRecipesText = "抱歉，找不到符合的食譜，請試試其他關鍵字。"

func newRecipesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Search Spoonacular recipes",
	}
	cmd.AddCommand(newRecipesSearchCmd(opts))
	cmd.AddCommand(newRecipesShowCmd(opts))
	return cmd
}

func newRecipesSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List recipes matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			results, err := recipes.New(env.cfg).Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				_, err = fmt.Fprintln(out, noRecipesText)
				return err
			}
			for _, r := range results {
				if _, err := fmt.Fprintf(out, "%d\t%s\t%d 分鐘\n", r.ID, r.Title, r.ReadyInMinutes); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default from config)")
	return cmd
}

func newRecipesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}
			env, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d, err := recipes.New(env.cfg).Details(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, d.Title)
			if summary := d.SummaryText(); summary != "" {
				fmt.Fprintf(out, "\n%s\n", summary)
			}
			fmt.Fprintf(out, "\n份量：%d • 時間：%d 分鐘\n", d.Servings, d.ReadyInMinutes)
			if d.SourceURL != "" {
				fmt.Fprintf(out, "前往原始食譜：%s\n", d.SourceURL)
			}
			return nil
		},
	}
}
