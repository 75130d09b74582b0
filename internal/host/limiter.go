package host

import (
	"context"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"
)

// window admits up to n requests per period. The bucket starts full and is
// topped up to n once per period.
type window struct {
	id           string
	ignoreImages bool

	ch   chan struct{}
	stop chan struct{}
	once sync.Once
}

func newWindow(id string, n int, period time.Duration, ignoreImages bool) *window {
	if n <= 0 {
		n = 1
	}
	if period <= 0 {
		period = time.Second
	}

	w := &window{
		id:           id,
		ignoreImages: ignoreImages,
		ch:           make(chan struct{}, n),
		stop:         make(chan struct{}),
	}
	for range n {
		w.ch <- struct{}{}
	}

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				for range n {
					select {
					case w.ch <- struct{}{}:
					default:
						// bucket full
					}
				}
			}
		}
	}()

	return w
}

func (w *window) Take(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ch:
		return nil
	}
}

func (w *window) applies(rawURL string) bool {
	return !w.ignoreImages || !isImage(rawURL)
}

func (w *window) Close() {
	w.once.Do(func() { close(w.stop) })
}

var imageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".avif": true,
}

func isImage(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return imageExt[strings.ToLower(path.Ext(u.Path))]
}
