package cmd

import (
	"fmt"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagDiscoverPage  int
	flagDiscoverPages int
)

var discoverCmd = &cobra.Command{
	Use:   "discover [section]",
	Short: "Show a discover section (most_viewed, new, latest_updates)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, 0)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			rows := [][]string{}
			for _, s := range a.rt.Sections() {
				rows = append(rows, []string{s.ID, s.Title})
			}
			return ui.PrintTable(a.out, []string{"ID", "Title"}, rows)
		}

		sec, ok := a.rt.Section(args[0])
		if !ok {
			return fmt.Errorf("unknown section %q", args[0])
		}

		ctx := cmd.Context()
		token := &providers.Token{Page: max(1, flagDiscoverPage)}
		var items []providers.Item

		for range max(1, flagDiscoverPages) {
			var page providers.ListingPage[providers.Item]
			err := a.do(ctx, func() error {
				var err error
				page, err = sec.Fetch(ctx, sec.DiscoverSection, token)
				return err
			})
			if err != nil {
				return err
			}

			items = append(items, page.Items...)
			if page.Exhausted() {
				token = nil
				break
			}
			token = page.Next
		}

		ui.PrintTitle(a.out, sec.Title)
		if err := ui.PrintTable(a.out, []string{"ID", "Title", "Latest"}, itemRows(items)); err != nil {
			return err
		}
		if token != nil {
			ui.PrintHint(a.out, "more: --page %d\n", token.Page)
		}

		return nil
	},
}

func init() {
	discoverCmd.Flags().IntVar(&flagDiscoverPage, "page", 1, "first page to show")
	discoverCmd.Flags().IntVar(&flagDiscoverPages, "pages", 1, "number of pages to fetch")

	rootCmd.AddCommand(discoverCmd)
}
