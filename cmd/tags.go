package cmd

import (
	"fmt"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the genre tags usable with `search --genre`",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, 0)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var sections []providers.TagSection
		err = a.do(ctx, func() error {
			var err error
			sections, err = a.src.SearchTags(ctx, a.sess)
			return err
		})
		if err != nil {
			return err
		}

		for _, sec := range sections {
			ui.PrintTitle(a.out, fmt.Sprintf("%s (--genre-section %s)", sec.Title, sec.ID))

			rows := make([][]string, len(sec.Tags))
			for i, t := range sec.Tags {
				rows[i] = []string{t.ID, t.Label}
			}
			if err := ui.PrintTable(a.out, []string{"ID", "Label"}, rows); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
