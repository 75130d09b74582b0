// Package host runs sources outside of a reader application. Runtime
// executes their requests over net/http and keeps what they register at
// load time.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/util"
)

var ErrBypassFailed = errors.New("bypass failed")

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

type Options struct {
	Timeout          time.Duration
	UserAgent        string
	Cookie           string
	CookieFile       string
	CloudflareBypass bool
	Retries          int
	RetryBackoff     time.Duration
	// RateOverride replaces the window of every registered limiter when
	// Requests is positive.
	RateOverride providers.RateLimit
	Transport    http.RoundTripper
	Logger       Logger
}

type Section struct {
	providers.DiscoverSection
	Fetch providers.DiscoverFunc
}

type namedInterceptor struct {
	id string
	ic providers.Interceptor
}

// Runtime implements providers.Host and providers.Registrar. It is safe
// for concurrent use.
type Runtime struct {
	client   *http.Client
	ua       string
	retries  int
	backoff  time.Duration
	override providers.RateLimit
	log      Logger

	mu           sync.RWMutex
	limiters     []*window
	interceptors []namedInterceptor
	sections     []Section
	filters      []providers.SearchFilter
}

var (
	_ providers.Host      = (*Runtime)(nil)
	_ providers.Registrar = (*Runtime)(nil)
)

func New(opts Options) (*Runtime, error) {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	ua := util.PickUserAgent(opts.UserAgent)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          opts.Timeout,
		UserAgent:        ua,
		Cookie:           opts.Cookie,
		CookieFile:       opts.CookieFile,
		Transport:        opts.Transport,
		CloudflareBypass: opts.CloudflareBypass,
		DebugLogger:      log,
	})
	if err != nil {
		return nil, err
	}

	retries := opts.Retries
	if retries < 1 {
		retries = 3
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Runtime{
		client:   client,
		ua:       ua,
		retries:  retries,
		backoff:  backoff,
		override: opts.RateOverride,
		log:      log,
	}, nil
}

// Close stops the limiter refill goroutines.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.limiters {
		w.Close()
	}
}

func (r *Runtime) DefaultUserAgent(context.Context) string {
	return r.ua
}

// ScheduleRequest runs the request through the registered interceptors and
// limiters and returns whatever status the site answered with. Only
// transport failures are errors.
func (r *Runtime) ScheduleRequest(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	r.mu.RLock()
	interceptors := append([]namedInterceptor(nil), r.interceptors...)
	limiters := append([]*window(nil), r.limiters...)
	r.mu.RUnlock()

	var err error
	for _, n := range interceptors {
		req, err = n.ic.InterceptRequest(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("interceptor %s: %w", n.id, err)
		}
	}

	for _, w := range limiters {
		if !w.applies(req.URL) {
			continue
		}
		if err := w.Take(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter %s: %w", w.id, err)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	hreq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	hresp, err := util.DoWithRetry(ctx, r.client, hreq, r.retries, r.backoff)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}
	defer hresp.Body.Close()

	body, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL, err)
	}

	resp := &providers.Response{
		Status:  hresp.StatusCode,
		Headers: hresp.Header,
		Body:    body,
	}

	for _, n := range interceptors {
		resp.Body, err = n.ic.InterceptResponse(ctx, req, resp)
		if err != nil {
			return nil, fmt.Errorf("interceptor %s: %w", n.id, err)
		}
	}

	r.log.Debugf("%s %s -> %d (%d bytes)\n", method, req.URL, resp.Status, len(resp.Body))

	return resp, nil
}

func (r *Runtime) RegisterRateLimiter(limit providers.RateLimit) {
	if r.override.Requests > 0 {
		limit.Requests = r.override.Requests
		if r.override.Window > 0 {
			limit.Window = r.override.Window
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range r.limiters {
		if w.id == limit.ID {
			w.Close()
			r.limiters = append(r.limiters[:i], r.limiters[i+1:]...)
			break
		}
	}

	r.limiters = append(r.limiters, newWindow(limit.ID, limit.Requests, limit.Window, limit.IgnoreImages))
	r.log.Debugf("rate limiter %s: %d per %s\n", limit.ID, limit.Requests, limit.Window)
}

func (r *Runtime) RegisterInterceptor(id string, ic providers.Interceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.interceptors {
		if n.id == id {
			r.interceptors[i].ic = ic
			return
		}
	}
	r.interceptors = append(r.interceptors, namedInterceptor{id: id, ic: ic})
}

func (r *Runtime) RegisterDiscoverSection(section providers.DiscoverSection, fn providers.DiscoverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sections = append(r.sections, Section{DiscoverSection: section, Fetch: fn})
}

func (r *Runtime) RegisterSearchFilter(filter providers.SearchFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.filters {
		if f.ID == filter.ID {
			r.filters[i] = filter
			return
		}
	}
	r.filters = append(r.filters, filter)
}

func (r *Runtime) Sections() []Section {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Section(nil), r.sections...)
}

func (r *Runtime) Section(id string) (Section, bool) {
	for _, s := range r.Sections() {
		if s.ID == id {
			return s, true
		}
	}

	return Section{}, false
}

func (r *Runtime) Filters() []providers.SearchFilter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]providers.SearchFilter(nil), r.filters...)
}

func (r *Runtime) Filter(id string) (providers.SearchFilter, bool) {
	for _, f := range r.Filters() {
		if f.ID == id {
			return f, true
		}
	}

	return providers.SearchFilter{}, false
}

// RunBypass opens the bypass page and returns the cookies the site set for
// it. The challenge itself is not solved here: the transport presents
// browser-like TLS and headers and the configured cookie (usually a
// cf_clearance value copied from a browser) is sent along. A challenge
// status on that page means the bypass did not take.
func (r *Runtime) RunBypass(ctx context.Context, req *providers.Request) ([]providers.Cookie, error) {
	resp, err := r.ScheduleRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusForbidden || resp.Status == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: %s answered HTTP %d", ErrBypassFailed, req.URL, resp.Status)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.URL, err)
	}

	var out []providers.Cookie
	for _, c := range r.client.Jar.Cookies(u) {
		out = append(out, providers.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  u.Hostname(),
			Path:    "/",
			Expires: c.Expires,
		})
	}

	r.log.Debugf("bypass page answered %d, %d cookies\n", resp.Status, len(out))

	return out, nil
}
