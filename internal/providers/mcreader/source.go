package mcreader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mcreader/internal/providers"
)

// Session holds the per-session bypass state. It is handed to every
// operation explicitly and is not safe for concurrent use.
type Session struct {
	bypassDone bool
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) MarkBypassComplete() {
	s.bypassDone = true
}

func (s *Session) BypassComplete() bool {
	return s != nil && s.bypassDone
}

type Kind string

const (
	KindMostViewed    Kind = "most_viewed"
	KindNew           Kind = "new"
	KindLatestUpdated Kind = "latest_updates"
)

var kindFilter = map[Kind]string{
	KindMostViewed:    "Views",
	KindNew:           "New",
	KindLatestUpdated: "Updated",
}

// Search filter IDs and their accepted values.
const (
	FilterGenreMode = "excludeIncludeGenre"
	FilterSortBy    = "sortBy"
	TagFilterPrefix = "tags-"

	DefaultSortBy    = "Views"
	DefaultGenreMode = "true"
)

var SortOptions = []string{"Random", "New", "Updated", "Views"}

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

type Options struct {
	BaseURL   string
	Selectors *Selectors
	Logger    Logger
}

// Source reads mgeko.cc through a host.
type Source struct {
	host providers.Host
	ext  *Extractor
	base string
	log  Logger
}

func New(host providers.Host, opts Options) *Source {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	return &Source{
		host: host,
		ext:  NewExtractor(opts.Selectors, base),
		base: base,
		log:  log,
	}
}

func (s *Source) BaseURL() string { return s.base }

func (s *Source) Extractor() *Extractor { return s.ext }

func (s *Source) ShareURL(mangaID string) string {
	return MangaURL(s.base, mangaID)
}

func (s *Source) MangaDetails(ctx context.Context, sess *Session, mangaID string) (providers.Manga, error) {
	doc, err := s.fetch(ctx, sess, MangaURL(s.base, mangaID))
	if err != nil {
		return providers.Manga{}, err
	}

	return s.ext.ParseMangaDetails(doc, mangaID)
}

func (s *Source) Chapters(ctx context.Context, sess *Session, mangaID string) ([]providers.Chapter, error) {
	doc, err := s.fetch(ctx, sess, chapterListURL(s.base, mangaID))
	if err != nil {
		return nil, err
	}

	return s.ext.ParseChapters(doc, mangaID)
}

func (s *Source) ChapterPages(ctx context.Context, sess *Session, chapterID string) (providers.PageSet, error) {
	doc, err := s.fetch(ctx, sess, ChapterURL(s.base, chapterID))
	if err != nil {
		return providers.PageSet{}, err
	}

	return s.ext.ParseChapterPages(doc, chapterID)
}

func (s *Source) SearchTags(ctx context.Context, sess *Session) ([]providers.TagSection, error) {
	doc, err := s.fetch(ctx, sess, tagsURL(s.base))
	if err != nil {
		return nil, err
	}

	return s.ext.ParseTags(doc)
}

// Listing returns one page of a discover listing. A nil token starts at
// page 1; a completed token yields an empty, exhausted page without a
// request.
func (s *Source) Listing(ctx context.Context, sess *Session, kind Kind, token *providers.Token) (providers.ListingPage[providers.Item], error) {
	filter, ok := kindFilter[kind]
	if !ok {
		return providers.ListingPage[providers.Item]{}, fmt.Errorf("unknown listing kind %q", kind)
	}

	page, done := startPage(token)
	if done {
		return providers.ListingPage[providers.Item]{Items: []providers.Item{}}, nil
	}

	return s.page(ctx, sess, browseURL(s.base, filter, page), page, s.ext.ParseBrowse)
}

// Search runs a free-text search when the query has a title and a tag
// browse otherwise. The two are never combined: tag filters are ignored
// as soon as a title is present.
func (s *Source) Search(ctx context.Context, sess *Session, q providers.SearchQuery, token *providers.Token) (providers.ListingPage[providers.Item], error) {
	page, done := startPage(token)
	if done {
		return providers.ListingPage[providers.Item]{Items: []providers.Item{}}, nil
	}

	var target string
	if q.HasTitle() {
		target = searchURL(s.base, strings.TrimSpace(q.Title), page)
	} else {
		target = advancedURL(s.base, s.sortBy(q), s.genreMode(q), selectedGenres(q), page)
	}

	return s.page(ctx, sess, target, page, s.ext.ParseSearch)
}

func (s *Source) sortBy(q providers.SearchQuery) string {
	v := q.Filters[FilterSortBy]
	if v == "" {
		return DefaultSortBy
	}
	if !slices.Contains(SortOptions, v) {
		s.log.Debugf("unknown sort %q, using %s\n", v, DefaultSortBy)
		return DefaultSortBy
	}

	return v
}

func (s *Source) genreMode(q providers.SearchQuery) string {
	switch v := q.Filters[FilterGenreMode]; v {
	case "true", "false":
		return v
	default:
		return DefaultGenreMode
	}
}

// selectedGenres collects the tag IDs of every tag filter, sorted so the
// request target does not depend on map order.
func selectedGenres(q providers.SearchQuery) []string {
	var out []string
	for id, sel := range q.Selections {
		if !strings.HasPrefix(id, TagFilterPrefix) {
			continue
		}
		for tag := range sel {
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
	}

	slices.Sort(out)
	return out
}

func startPage(token *providers.Token) (int, bool) {
	if token == nil {
		return 1, false
	}
	if token.Completed {
		return 0, true
	}
	if token.Page < 1 {
		return 1, false
	}

	return token.Page, false
}

func (s *Source) page(
	ctx context.Context,
	sess *Session,
	target string,
	page int,
	parse func(*goquery.Document) ([]providers.Item, error),
) (providers.ListingPage[providers.Item], error) {
	doc, err := s.fetch(ctx, sess, target)
	if err != nil {
		return providers.ListingPage[providers.Item]{}, err
	}

	items, err := parse(doc)
	if err != nil {
		return providers.ListingPage[providers.Item]{}, err
	}

	out := providers.ListingPage[providers.Item]{Items: items}
	if !s.ext.IsLastPage(doc) {
		out.Next = &providers.Token{Page: page + 1}
	}

	s.log.Debugf("%s: %d items, last=%t\n", target, len(items), out.Next == nil)

	return out, nil
}

func (s *Source) fetch(ctx context.Context, sess *Session, target string) (*goquery.Document, error) {
	resp, err := s.host.ScheduleRequest(ctx, &providers.Request{URL: target, Method: http.MethodGet})
	if err != nil {
		return nil, err
	}

	if err := s.checkCloudflare(sess, resp.Status); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}

	return doc, nil
}

// checkCloudflare raises a challenge for 403 and 503 responses until the
// session has seen a completed bypass.
func (s *Source) checkCloudflare(sess *Session, status int) error {
	if status != http.StatusForbidden && status != http.StatusServiceUnavailable {
		return nil
	}
	if sess.BypassComplete() {
		return nil
	}

	return &CloudflareError{Status: status, URL: s.base}
}
