package host

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T, opts Options) *Runtime {
	t.Helper()

	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Millisecond
	}
	rt, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	return rt
}

type headerInterceptor struct {
	key, value string
	suffix     string
}

func (h headerInterceptor) InterceptRequest(_ context.Context, req *providers.Request) (*providers.Request, error) {
	out := *req
	out.Headers = req.Headers.Clone()
	if out.Headers == nil {
		out.Headers = http.Header{}
	}
	out.Headers.Set(h.key, h.value)
	return &out, nil
}

func (h headerInterceptor) InterceptResponse(_ context.Context, _ *providers.Request, resp *providers.Response) ([]byte, error) {
	return append(resp.Body, h.suffix...), nil
}

func TestScheduleRequest_AppliesInterceptors(t *testing.T) {
	var gotHeader, gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader.Store(r.Header.Get("X-Test"))
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	rt := newRuntime(t, Options{UserAgent: "mcreader-test"})
	rt.RegisterInterceptor("first", headerInterceptor{key: "X-Test", value: "one", suffix: "!"})
	rt.RegisterInterceptor("first", headerInterceptor{key: "X-Test", value: "two", suffix: "?"})

	resp, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "hello?", string(resp.Body))
	assert.Equal(t, "two", gotHeader.Load())
	assert.Equal(t, "mcreader-test", gotUA.Load())
	assert.Equal(t, "mcreader-test", rt.DefaultUserAgent(context.Background()))
}

func TestScheduleRequest_StatusIsNotAnError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Just a moment..."))
	}))
	defer srv.Close()

	rt := newRuntime(t, Options{Retries: 3})
	resp, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, "Just a moment...", string(resp.Body))
	assert.Equal(t, int32(1), calls.Load())
}

func TestScheduleRequest_RetriesBadGateway(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	rt := newRuntime(t, Options{Retries: 3})
	resp, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduleRequest_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rt := newRuntime(t, Options{Retries: 2})
	_, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: url})
	assert.Error(t, err)
}

func TestScheduleRequest_SendsConfiguredCookies(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Cookie"))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(file, []byte("\n cf_clearance=abc \nignored=1\n"), 0o644))

	rt := newRuntime(t, Options{Cookie: "session=1", CookieFile: file})
	_, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, "session=1; cf_clearance=abc", got.Load())
}

func TestNew_MissingCookieFile(t *testing.T) {
	_, err := New(Options{CookieFile: filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, err)
}

func TestScheduleRequest_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	rt := newRuntime(t, Options{})
	rt.RegisterRateLimiter(providers.RateLimit{ID: "slow", Requests: 1, Window: time.Hour})

	_, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = rt.ScheduleRequest(ctx, &providers.Request{URL: srv.URL})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegisterRateLimiter_Override(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	rt := newRuntime(t, Options{RateOverride: providers.RateLimit{Requests: 5}})
	rt.RegisterRateLimiter(providers.RateLimit{ID: "slow", Requests: 1, Window: time.Hour})

	for range 5 {
		_, err := rt.ScheduleRequest(context.Background(), &providers.Request{URL: srv.URL})
		require.NoError(t, err)
	}
}

func TestRegistrations(t *testing.T) {
	rt := newRuntime(t, Options{})

	rt.RegisterSearchFilter(providers.SearchFilter{ID: "a", Title: "A"})
	rt.RegisterSearchFilter(providers.SearchFilter{ID: "b", Title: "B"})
	rt.RegisterSearchFilter(providers.SearchFilter{ID: "a", Title: "A2"})

	filters := rt.Filters()
	require.Len(t, filters, 2)
	assert.Equal(t, "A2", filters[0].Title)

	f, ok := rt.Filter("b")
	assert.True(t, ok)
	assert.Equal(t, "B", f.Title)

	_, ok = rt.Section("missing")
	assert.False(t, ok)
}

func TestRunBypass(t *testing.T) {
	var blocked atomic.Bool
	blocked.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if blocked.Load() {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "cf_clearance", Value: "token", Path: "/"})
	}))
	defer srv.Close()

	rt := newRuntime(t, Options{})

	_, err := rt.RunBypass(context.Background(), &providers.Request{URL: srv.URL})
	assert.ErrorIs(t, err, ErrBypassFailed)

	blocked.Store(false)
	cookies, err := rt.RunBypass(context.Background(), &providers.Request{URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "cf_clearance", cookies[0].Name)
	assert.Equal(t, "token", cookies[0].Value)
}

const siteTags = `<div class="genre-select-i"><label class="checkbox"><input value="action">Action</label></div>`

const siteListing = `<ul class="novel-list">
<li class="novel-item"><a href="/manga/solo-leveling/"><h4 class="novel-title">Solo Leveling</h4></a></li>
<li class="novel-item"><a href="/manga/solo-leveling-ragnarok/"><h4 class="novel-title">Solo Leveling: Ragnarok</h4></a></li>
</ul>`

func TestRuntime_DrivesSource(t *testing.T) {
	var referer atomic.Value
	var blocked atomic.Bool
	blocked.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/browse-comics", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(siteTags))
	})
	mux.HandleFunc("/browse-comics/", func(w http.ResponseWriter, r *http.Request) {
		referer.Store(r.Header.Get("Referer"))
		_, _ = w.Write([]byte(siteListing))
	})
	mux.HandleFunc("/search/", func(w http.ResponseWriter, _ *http.Request) {
		if blocked.Load() {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(siteListing))
	})
	mux.HandleFunc("/", func(http.ResponseWriter, *http.Request) {})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rt := newRuntime(t, Options{RateOverride: providers.RateLimit{Requests: 100, Window: time.Second}})
	src := mcreader.New(rt, mcreader.Options{BaseURL: srv.URL})
	sess := mcreader.NewSession()

	src.Initialise(context.Background(), rt, sess)

	require.Len(t, rt.Sections(), 3)
	_, ok := rt.Filter(mcreader.TagFilterID("genres"))
	assert.True(t, ok)

	sec, ok := rt.Section("new")
	require.True(t, ok)
	page, err := sec.Fetch(context.Background(), sec.DiscoverSection, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Exhausted())
	assert.Equal(t, srv.URL+"/", referer.Load())

	_, err = src.Search(context.Background(), sess, providers.SearchQuery{Title: "solo"}, nil)
	require.True(t, errors.Is(err, mcreader.ErrCloudflareChallenge))

	cookies, err := rt.RunBypass(context.Background(), src.BypassRequest(context.Background()))
	require.NoError(t, err)
	src.SaveBypassCookies(sess, cookies)
	blocked.Store(false)

	page, err = src.Search(context.Background(), sess, providers.SearchQuery{Title: "solo"}, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}
