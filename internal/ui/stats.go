package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/mcreader/internal/util"
)

type Stats struct {
	TotalChapters atomic.Int64
	FailedChaps   atomic.Int64
	TotalPages    atomic.Int64
	TotalBytes    atomic.Int64
}

func (s *Stats) Print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Crawl Summary:")
	fmt.Fprintf(w, "Chapters: %d\n", s.TotalChapters.Load())
	if n := s.FailedChaps.Load(); n > 0 {
		fmt.Fprintf(w, "Failed:   %d\n", n)
	}
	fmt.Fprintf(w, "Pages:    %d\n", s.TotalPages.Load())
	if b := s.TotalBytes.Load(); b > 0 {
		fmt.Fprintf(w, "Data:     %s\n", util.Human(b))
	}
	fmt.Fprintf(w, "Time:     %s\n", elapsed.Round(time.Second))
}
