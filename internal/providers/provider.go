package providers

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusHiatus    Status = "hiatus"
	StatusUnknown   Status = "unknown"
)

type Tag struct {
	ID    string
	Label string
}

type TagSection struct {
	ID    string
	Title string
	Tags  []Tag
}

// Manga is a snapshot of a detail page. A new value is built on every fetch.
type Manga struct {
	ID          string
	Title       string
	AltTitles   []string
	Cover       string
	Description string
	Status      Status
	Authors     []string
	Tags        []Tag
	Rating      float64
}

// Chapter references its manga by ID only.
type Chapter struct {
	ID        string
	MangaID   string
	Number    float64
	Label     string
	Title     string
	Published time.Time
	SortIndex int
}

// PageSet holds image URLs in reading order.
type PageSet struct {
	ChapterID string
	Pages     []string
}

// Item is a single manga card on a listing or search results page.
type Item struct {
	MangaID  string
	Title    string
	Cover    string
	Subtitle string
}

// Token is the continuation state of a listing. A nil *Token means the
// listing has not started; Completed means it is exhausted.
type Token struct {
	Page      int
	Completed bool
}

type ListingPage[T any] struct {
	Items []T
	Next  *Token
}

func (p ListingPage[T]) Exhausted() bool {
	return p.Next == nil
}

type Request struct {
	URL     string
	Method  string
	Headers http.Header
}

type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

type Cookie struct {
	Name    string
	Value   string
	Domain  string
	Path    string
	Expires time.Time
}

// Host executes requests on behalf of a source. Transport failures are
// returned unchanged; retries, timeouts and cookies are the host's business.
type Host interface {
	ScheduleRequest(ctx context.Context, req *Request) (*Response, error)
	DefaultUserAgent(ctx context.Context) string
}

type RateLimit struct {
	ID           string
	Requests     int
	Window       time.Duration
	IgnoreImages bool
}

type Interceptor interface {
	InterceptRequest(ctx context.Context, req *Request) (*Request, error)
	InterceptResponse(ctx context.Context, req *Request, resp *Response) ([]byte, error)
}

type SectionType string

const SectionSimpleCarousel SectionType = "simpleCarousel"

type DiscoverSection struct {
	ID    string
	Title string
	Type  SectionType
}

type DiscoverFunc func(ctx context.Context, section DiscoverSection, token *Token) (ListingPage[Item], error)

type FilterType string

const (
	FilterDropdown    FilterType = "dropdown"
	FilterMultiselect FilterType = "multiselect"
)

type FilterOption struct {
	ID    string
	Value string
}

type SearchFilter struct {
	ID             string
	Type           FilterType
	Title          string
	Options        []FilterOption
	Default        string
	AllowExclusion bool
}

// Registrar receives the registrations a source performs at load time.
type Registrar interface {
	RegisterRateLimiter(limit RateLimit)
	RegisterInterceptor(id string, ic Interceptor)
	RegisterDiscoverSection(section DiscoverSection, fn DiscoverFunc)
	RegisterSearchFilter(filter SearchFilter)
}

type Inclusion string

const (
	Included Inclusion = "included"
	Excluded Inclusion = "excluded"
)

// SearchQuery carries either a title or a set of filter values. Filters
// holds single values (dropdowns) under their ID, Selections holds
// multiselect values.
type SearchQuery struct {
	Title      string
	Filters    map[string]string
	Selections map[string]map[string]Inclusion
}

func (q SearchQuery) HasTitle() bool {
	return strings.TrimSpace(q.Title) != ""
}
