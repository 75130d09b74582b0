package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

var mangaCmd = &cobra.Command{
	Use:   "manga <id|url>",
	Short: "Show the details of a manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args[0], mcreader.MangaIDFromURL)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, 0)
		if err != nil {
			return err
		}
		defer a.Close()

		return showManga(cmd.Context(), a, id)
	},
}

func showManga(ctx context.Context, a *app, id string) error {
	var m providers.Manga
	err := a.do(ctx, func() error {
		var err error
		m, err = a.src.MangaDetails(ctx, a.sess, id)
		return err
	})
	if err != nil {
		return err
	}

	tags := make([]string, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = t.Label
	}

	ui.PrintTitle(a.out, m.Title)
	ui.PrintField(a.out, "Also known as", strings.Join(m.AltTitles, "; "))
	ui.PrintField(a.out, "Authors", strings.Join(m.Authors, ", "))
	ui.PrintField(a.out, "Status", string(m.Status))
	if m.Rating > 0 {
		ui.PrintField(a.out, "Rating", fmt.Sprintf("%.1f", m.Rating))
	}
	ui.PrintField(a.out, "Genres", strings.Join(tags, ", "))
	ui.PrintField(a.out, "Cover", m.Cover)
	ui.PrintField(a.out, "Link", a.src.ShareURL(m.ID))
	if m.Description != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, m.Description)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(mangaCmd)
}
