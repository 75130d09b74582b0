package cmd

import (
	"context"
	"fmt"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

var (
	// selection
	flagChapter string
	flagRange   string
	flagList    string
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters <manga-id|url>",
	Short: "List the chapters of a manga in reading order",
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

		selected, err := selectChapters(cmd.Context(), a, id)
		if err != nil {
			return err
		}

		rows := make([][]string, len(selected))
		for i, c := range selected {
			date := ""
			if !c.Published.IsZero() {
				date = c.Published.Format("2006-01-02")
			}
			rows[i] = []string{c.Label, c.Title, date, c.ID}
		}

		return ui.PrintTable(a.out, []string{"No.", "Title", "Published", "ID"}, rows)
	},
}

func selectChapters(ctx context.Context, a *app, mangaID string) ([]providers.Chapter, error) {
	var all []providers.Chapter
	err := a.do(ctx, func() error {
		var err error
		all, err = a.src.Chapters(ctx, a.sess, mangaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	selected := providers.Select(all, flagChapter, flagRange, flagList)
	if selected == nil {
		return nil, fmt.Errorf("invalid range %q, expected e.g. 5-12.5", flagRange)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no chapters selected (%d available)", len(all))
	}

	return selected, nil
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagChapter, "chapter", "", "single chapter by label (e.g. 5 or 28.5)")
	cmd.Flags().StringVar(&flagRange, "range", "", "chapters by number range (e.g. 5-12)")
	cmd.Flags().StringVar(&flagList, "list", "", "specific chapter labels (e.g. 1,3,5)")
}

func init() {
	addSelectionFlags(chaptersCmd)
	rootCmd.AddCommand(chaptersCmd)
}
