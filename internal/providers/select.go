package providers

import (
	"strconv"
	"strings"
)

// Select narrows a sorted chapter list. label picks chapters whose label
// matches exactly, rng keeps chapters whose number lies in "a-b" (inclusive,
// fractions allowed), list keeps the comma separated labels. The first
// non-empty selector wins; with none set the input is returned as is.
func Select(all []Chapter, label, rng, list string) []Chapter {
	if label != "" {
		return FilterByLabel(all, label)
	}
	if rng != "" {
		return FilterRange(all, rng)
	}
	if list != "" {
		return FilterList(all, list)
	}

	return all
}

func FilterByLabel(all []Chapter, label string) []Chapter {
	label = strings.TrimSpace(label)
	out := []Chapter{}
	for _, c := range all {
		if c.Label == label {
			out = append(out, c)
		}
	}

	return out
}

func FilterRange(all []Chapter, rng string) []Chapter {
	lo, hi, ok := parseRange(rng)
	if !ok {
		return nil
	}

	out := []Chapter{}
	for _, c := range all {
		if c.Number >= lo && c.Number <= hi {
			out = append(out, c)
		}
	}

	return out
}

func FilterList(all []Chapter, list string) []Chapter {
	want := map[string]bool{}
	for p := range strings.SplitSeq(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			want[p] = true
		}
	}

	out := []Chapter{}
	for _, c := range all {
		if want[c.Label] {
			out = append(out, c)
		}
	}

	return out
}

func parseRange(rng string) (float64, float64, bool) {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || lo < 0 || lo > hi {
		return 0, 0, false
	}

	return lo, hi, true
}
