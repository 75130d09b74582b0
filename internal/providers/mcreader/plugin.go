package mcreader

import (
	"context"
	"net/http"
	"time"

	"github.com/brogergvhs/mcreader/internal/providers"
)

var rateLimit = providers.RateLimit{
	ID:           "rateLimiter",
	Requests:     4,
	Window:       15 * time.Second,
	IgnoreImages: false,
}

var sections = []providers.DiscoverSection{
	{ID: string(KindMostViewed), Title: "Most Viewed", Type: providers.SectionSimpleCarousel},
	{ID: string(KindNew), Title: "New", Type: providers.SectionSimpleCarousel},
	{ID: string(KindLatestUpdated), Title: "Latest Updates", Type: providers.SectionSimpleCarousel},
}

func Sections() []providers.DiscoverSection {
	return append([]providers.DiscoverSection(nil), sections...)
}

func TagFilterID(sectionID string) string {
	return TagFilterPrefix + sectionID
}

// Initialise performs the load-time registrations. Tag filters come from
// a live request; failing to load them is logged and does not stop the
// rest of the source from working.
func (s *Source) Initialise(ctx context.Context, reg providers.Registrar, sess *Session) {
	reg.RegisterRateLimiter(rateLimit)
	reg.RegisterInterceptor("main", &interceptor{host: s.host, referer: s.base + "/"})

	for _, sec := range sections {
		kind := Kind(sec.ID)
		reg.RegisterDiscoverSection(sec, func(ctx context.Context, _ providers.DiscoverSection, token *providers.Token) (providers.ListingPage[providers.Item], error) {
			return s.Listing(ctx, sess, kind, token)
		})
	}

	reg.RegisterSearchFilter(providers.SearchFilter{
		ID:    FilterGenreMode,
		Type:  providers.FilterDropdown,
		Title: "Genre Filter",
		Options: []providers.FilterOption{
			{ID: "true", Value: "Include Genres"},
			{ID: "false", Value: "Exclude Genres"},
		},
		Default: DefaultGenreMode,
	})

	sortOpts := make([]providers.FilterOption, len(SortOptions))
	for i, o := range SortOptions {
		sortOpts[i] = providers.FilterOption{ID: o, Value: o}
	}
	reg.RegisterSearchFilter(providers.SearchFilter{
		ID:      FilterSortBy,
		Type:    providers.FilterDropdown,
		Title:   "Sort By Filter",
		Options: sortOpts,
		Default: DefaultSortBy,
	})

	tagSections, err := s.SearchTags(ctx, sess)
	if err != nil {
		s.log.Warnf("tag filters unavailable: %v\n", err)
		return
	}

	for _, sec := range tagSections {
		opts := make([]providers.FilterOption, len(sec.Tags))
		for i, t := range sec.Tags {
			opts[i] = providers.FilterOption{ID: t.ID, Value: t.Label}
		}
		reg.RegisterSearchFilter(providers.SearchFilter{
			ID:             TagFilterID(sec.ID),
			Type:           providers.FilterMultiselect,
			Title:          sec.Title,
			Options:        opts,
			AllowExclusion: false,
		})
	}
}

// SaveBypassCookies is called by the host once its bypass flow succeeded.
func (s *Source) SaveBypassCookies(sess *Session, cookies []providers.Cookie) {
	s.log.Debugf("bypass completed with %d cookies\n", len(cookies))
	sess.MarkBypassComplete()
}

// BypassRequest is the page the host should open to run its bypass flow.
func (s *Source) BypassRequest(ctx context.Context) *providers.Request {
	h := http.Header{}
	h.Set("Referer", s.base+"/")
	h.Set("User-Agent", s.host.DefaultUserAgent(ctx))

	return &providers.Request{URL: s.base, Method: http.MethodGet, Headers: h}
}

type interceptor struct {
	host    providers.Host
	referer string
}

func (ic *interceptor) InterceptRequest(ctx context.Context, req *providers.Request) (*providers.Request, error) {
	out := *req
	out.Headers = req.Headers.Clone()
	if out.Headers == nil {
		out.Headers = http.Header{}
	}

	out.Headers.Set("Referer", ic.referer)
	out.Headers.Set("User-Agent", ic.host.DefaultUserAgent(ctx))

	return &out, nil
}

func (ic *interceptor) InterceptResponse(_ context.Context, _ *providers.Request, resp *providers.Response) ([]byte, error) {
	return resp.Body, nil
}
