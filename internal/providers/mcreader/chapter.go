package mcreader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/brogergvhs/mcreader/internal/providers"
)

var (
	chapRe      = regexp.MustCompile(`(?i)\b(?:chapter|ch\.?)[_\-\s]*0*([0-9]+)(?:[.\-]([0-9]+))?`)
	chapterDash = regexp.MustCompile(`(?i)chapter[_\-]0*([0-9]+)(?:[_\-]([0-9]+))?(?:[_\-]|$)`)
	firstNumber = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)`)
)

// chapterNumber finds the ordering key of a chapter. The dedicated number
// cell is tried first, then the display title, then the slug in the ID.
// Point releases may be written as "chapter-12-5" in titles and slugs alike.
func chapterNumber(cell, title, id string) (float64, bool) {
	if n, ok := matchNumber(cell); ok {
		return n, true
	}
	if n, ok := matchNumber(title); ok {
		return n, true
	}
	if m := chapterDash.FindStringSubmatch(id); m != nil {
		if m[2] != "" {
			return parseNumber(m[1] + "." + m[2])
		}
		return parseNumber(m[1])
	}

	return 0, false
}

func matchNumber(s string) (float64, bool) {
	if m := chapRe.FindStringSubmatch(s); m != nil {
		if m[2] != "" {
			return parseNumber(m[1] + "." + m[2])
		}
		return parseNumber(m[1])
	}
	if m := firstNumber.FindStringSubmatch(s); m != nil {
		return parseNumber(m[1])
	}

	return 0, false
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// sortChapters orders chapters ascending by number. Chapters sharing a
// number keep the order they had in the document.
func sortChapters(out []providers.Chapter) {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})

	for i := range out {
		out[i].SortIndex = i
	}
}
