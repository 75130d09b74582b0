package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brogergvhs/mcreader/internal/crawler"
	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

var (
	// runtime
	flagWorkers int
	flagProbe   bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <manga-id|url>",
	Short: "Resolve the pages of the selected chapters, optionally checking every image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args[0], mcreader.MangaIDFromURL)
		if err != nil {
			return err
		}

		workers := 0
		if cmd.Flags().Changed("workers") {
			workers = flagWorkers
		}

		a, err := newApp(cmd, workers)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		selected, err := selectChapters(ctx, a, id)
		if err != nil {
			return err
		}

		fetch := func(ctx context.Context, chapterID string) (providers.PageSet, error) {
			return a.src.ChapterPages(ctx, a.sess, chapterID)
		}

		// The session must be through the challenge before workers share it.
		var first providers.PageSet
		err = a.do(ctx, func() error {
			var err error
			first, err = fetch(ctx, selected[0].ID)
			return err
		})
		if err != nil {
			return err
		}

		pages := seededPages(first, fetch)

		c := crawler.New(pages, a.rt, crawler.Options{
			Workers: a.cfg.Workers,
			Probe:   flagProbe,
			StopOn: func(err error) bool {
				return errors.Is(err, mcreader.ErrCloudflareChallenge)
			},
		})

		pm := ui.NewProgressManager(cmd.ErrOrStderr())
		stats := &ui.Stats{}
		start := time.Now()

		results := c.Run(ctx, selected, pm, stats)
		pm.Close()

		for _, r := range results {
			if r.Err != nil {
				a.log.Errorf("chapter %s: %v\n", r.Chapter.Label, r.Err)
			}
		}

		stats.Print(a.out, time.Since(start))

		if n := stats.FailedChaps.Load(); n > 0 {
			return fmt.Errorf("%d of %d chapters failed", n, len(selected))
		}

		return nil
	},
}

// seededPages answers the chapter in set from memory and fetches every
// other chapter.
func seededPages(set providers.PageSet, fetch crawler.PageFunc) crawler.PageFunc {
	return func(ctx context.Context, chapterID string) (providers.PageSet, error) {
		if chapterID == set.ChapterID {
			return set, nil
		}
		return fetch(ctx, chapterID)
	}
}

func init() {
	addSelectionFlags(crawlCmd)
	crawlCmd.Flags().IntVar(&flagWorkers, "workers", 2, "parallel chapters")
	crawlCmd.Flags().BoolVar(&flagProbe, "probe", false, "fetch every page image and report unreachable ones")

	rootCmd.AddCommand(crawlCmd)
}
