package mcreader

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://www.mgeko.cc"

	mangaPrefix  = "/manga/"
	readerPrefix = "/reader/en/"
)

// Identifiers are single path segments made of URL-unreserved characters,
// so they are embedded in URLs without escaping.
var reIdentifier = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

func ValidIdentifier(id string) bool {
	return reIdentifier.MatchString(id) && id != "." && id != ".."
}

func MangaURL(base, id string) string {
	return strings.TrimRight(base, "/") + mangaPrefix + id
}

func ChapterURL(base, id string) string {
	return strings.TrimRight(base, "/") + readerPrefix + id
}

// MangaIDFromURL returns the path segment that follows /manga/.
func MangaIDFromURL(raw string) (string, bool) {
	return segmentAfter(raw, mangaPrefix)
}

// ChapterIDFromURL returns the path segment that follows /reader/en/.
func ChapterIDFromURL(raw string) (string, bool) {
	return segmentAfter(raw, readerPrefix)
}

func segmentAfter(raw, prefix string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	p := u.Path
	i := strings.Index(p, prefix)
	if i < 0 {
		return "", false
	}

	seg := p[i+len(prefix):]
	if j := strings.IndexByte(seg, '/'); j >= 0 {
		seg = seg[:j]
	}
	if seg == "" {
		return "", false
	}

	return seg, true
}

func chapterListURL(base, mangaID string) string {
	return MangaURL(base, mangaID) + "/all-chapters/"
}

func tagsURL(base string) string {
	return strings.TrimRight(base, "/") + "/browse-comics"
}

func browseURL(base, filter string, page int) string {
	return strings.TrimRight(base, "/") + "/browse-comics/?results=" + strconv.Itoa(page) + "&filter=" + filter
}

func searchURL(base, title string, page int) string {
	u := strings.TrimRight(base, "/") + "/search/?search=" + escapeComponent(title)
	if page > 1 {
		u += "&results=" + strconv.Itoa(page)
	}

	return u
}

func advancedURL(base, sortBy, included string, genres []string, page int) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/browse-advanced?sort_by=")
	b.WriteString(escapeComponent(sortBy))

	if len(genres) > 0 {
		escaped := make([]string, len(genres))
		for i, g := range genres {
			escaped[i] = escapeComponent(g)
		}
		b.WriteString("&included=")
		b.WriteString(escapeComponent(included))
		b.WriteString("&genres=")
		b.WriteString(strings.Join(escaped, ","))
	}

	b.WriteString("&results=")
	b.WriteString(strconv.Itoa(page))

	return b.String()
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// resolve makes an attribute value absolute against the site base.
func resolve(base, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return b.ResolveReference(u).String()
}

func pageFromHref(href, param string) (int, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, false
	}

	v := u.Query().Get(param)
	if v == "" {
		return 0, false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}
