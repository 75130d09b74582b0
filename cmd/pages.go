package cmd

import (
	"fmt"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages <chapter-id|url>",
	Short: "Print the page image URLs of a chapter in reading order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args[0], mcreader.ChapterIDFromURL)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, 0)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var set providers.PageSet
		err = a.do(ctx, func() error {
			var err error
			set, err = a.src.ChapterPages(ctx, a.sess, id)
			return err
		})
		if err != nil {
			return err
		}

		for _, p := range set.Pages {
			fmt.Fprintln(a.out, p)
		}
		a.log.Debugf("%d pages\n", len(set.Pages))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
