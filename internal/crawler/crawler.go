// Package crawler resolves the page lists of many chapters at once and can
// probe every page image. Nothing is written to disk.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/ui"
)

type PageFunc func(ctx context.Context, chapterID string) (providers.PageSet, error)

type Options struct {
	Workers int
	// Probe fetches every page image through the host and counts its bytes.
	Probe bool
	// StopOn cancels the remaining chapters when it reports true for an
	// error, e.g. a challenge page that every following request would hit.
	StopOn func(error) bool
}

type Crawler struct {
	pages PageFunc
	host  providers.Host
	opts  Options
}

func New(pages PageFunc, host providers.Host, opts Options) *Crawler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Crawler{pages: pages, host: host, opts: opts}
}

type Result struct {
	Chapter providers.Chapter
	Pages   []string
	Bytes   int64
	Broken  int
	Err     error
}

// Run crawls the chapters and returns one result per chapter, in input
// order.
func (c *Crawler) Run(ctx context.Context, chapters []providers.Chapter, pm *ui.MPBProgressManager, stats *ui.Stats) []Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(chapters))
	workers := min(c.opts.Workers, max(1, len(chapters)))

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			ch := chapters[i]
			res := c.crawl(ctx, ch, pm.Register("Ch."+label(ch)))
			results[i] = res

			if res.Err != nil {
				stats.FailedChaps.Add(1)
				if c.opts.StopOn != nil && c.opts.StopOn(res.Err) {
					cancel()
				}
				continue
			}

			stats.TotalChapters.Add(1)
			stats.TotalPages.Add(int64(len(res.Pages)))
			stats.TotalBytes.Add(res.Bytes)
		}
	}

	wg.Add(workers)
	for range workers {
		go worker()
	}

	for i := range chapters {
		if ctx.Err() != nil {
			results[i] = Result{Chapter: chapters[i], Err: ctx.Err()}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = Result{Chapter: chapters[i], Err: ctx.Err()}
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()

	return results
}

func (c *Crawler) crawl(ctx context.Context, ch providers.Chapter, ph *ui.ProgressHandle) Result {
	res := Result{Chapter: ch}

	set, err := c.pages(ctx, ch.ID)
	if err != nil {
		ph.Abort()
		res.Err = err
		return res
	}

	res.Pages = set.Pages
	ph.SetTotal(len(set.Pages))

	if !c.opts.Probe || c.host == nil {
		ph.MarkDone()
		return res
	}

	for i, u := range set.Pages {
		n, err := c.probe(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				ph.Abort()
				res.Err = ctx.Err()
				return res
			}
			res.Broken++
		}
		res.Bytes += n
		ph.Update(i+1, res.Bytes)
	}

	ph.MarkDone()
	if res.Broken > 0 {
		res.Err = fmt.Errorf("%d/%d images unreachable", res.Broken, len(set.Pages))
	}

	return res
}

func (c *Crawler) probe(ctx context.Context, u string) (int64, error) {
	resp, err := c.host.ScheduleRequest(ctx, &providers.Request{
		URL:     u,
		Method:  http.MethodGet,
		Headers: http.Header{"Accept": {"image/avif,image/webp,image/apng,image/*,*/*;q=0.8"}},
	})
	if err != nil {
		return 0, err
	}
	if resp.Status != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d", resp.Status)
	}

	return int64(len(resp.Body)), nil
}

func label(ch providers.Chapter) string {
	if ch.Label != "" {
		return ch.Label
	}
	return ch.ID
}
