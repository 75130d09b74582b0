package cmd

import (
	"fmt"
	"strings"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	flagGenres    []string
	flagExclude   bool
	flagSort      string
	flagPage      int
	flagAllPages  bool
	flagPick      bool
	flagSectionID string
)

var searchCmd = &cobra.Command{
	Use:   "search [title...]",
	Short: "Search by title, or browse by genre when no title is given",
	Long: `Search by title, or browse by genre when no title is given.

A title and --genre cannot be combined: with a title the genre, sort and
exclude flags are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, 0)
		if err != nil {
			return err
		}
		defer a.Close()

		q := buildQuery(strings.Join(args, " "))
		if q.HasTitle() && len(flagGenres) > 0 {
			a.log.Warnf("--genre is ignored when a title is given\n")
		}

		ctx := cmd.Context()
		token := &providers.Token{Page: max(1, flagPage)}
		var items []providers.Item

		for token != nil {
			var page providers.ListingPage[providers.Item]
			err := a.do(ctx, func() error {
				var err error
				page, err = a.src.Search(ctx, a.sess, q, token)
				return err
			})
			if err != nil {
				return err
			}

			items = append(items, page.Items...)
			token = page.Next
			if !flagAllPages {
				break
			}
		}

		if len(items) == 0 {
			fmt.Fprintln(a.out, "No results.")
			return nil
		}

		if flagPick {
			return pickAndShow(cmd, a, items)
		}

		if err := ui.PrintTable(a.out, []string{"ID", "Title", "Latest"}, itemRows(items)); err != nil {
			return err
		}
		if token != nil {
			ui.PrintHint(a.out, "more: --page %d\n", token.Page)
		}

		return nil
	},
}

func buildQuery(title string) providers.SearchQuery {
	q := providers.SearchQuery{
		Title:   strings.TrimSpace(title),
		Filters: map[string]string{},
	}

	if flagSort != "" {
		q.Filters[mcreader.FilterSortBy] = flagSort
	}
	if flagExclude {
		q.Filters[mcreader.FilterGenreMode] = "false"
	}

	if len(flagGenres) > 0 {
		sel := map[string]providers.Inclusion{}
		for _, g := range flagGenres {
			if g = strings.TrimSpace(g); g != "" {
				sel[g] = providers.Included
			}
		}
		q.Selections = map[string]map[string]providers.Inclusion{
			mcreader.TagFilterID(flagSectionID): sel,
		}
	}

	return q
}

func pickAndShow(cmd *cobra.Command, a *app, items []providers.Item) error {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Title
	}

	prompt := promptui.Select{
		Label: "Select manga",
		Items: labels,
		Size:  12,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("selection cancelled")
	}

	return showManga(cmd.Context(), a, items[idx].MangaID)
}

func init() {
	searchCmd.Flags().StringSliceVar(&flagGenres, "genre", nil, "genre tag ID, repeatable (see `mcreader tags`)")
	searchCmd.Flags().StringVar(&flagSectionID, "genre-section", "genres", "tag section the --genre values belong to")
	searchCmd.Flags().BoolVar(&flagExclude, "exclude", false, "exclude the given genres instead of requiring them")
	searchCmd.Flags().StringVar(&flagSort, "sort", "", "sort order: "+strings.Join(mcreader.SortOptions, ", "))
	searchCmd.Flags().IntVar(&flagPage, "page", 1, "result page")
	searchCmd.Flags().BoolVar(&flagAllPages, "all", false, "follow pagination to the last page")
	searchCmd.Flags().BoolVar(&flagPick, "pick", false, "pick a result interactively and show its details")

	rootCmd.AddCommand(searchCmd)
}
