package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brogergvhs/mcreader/internal/config"
	"github.com/brogergvhs/mcreader/internal/host"
	"github.com/brogergvhs/mcreader/internal/providers"
	"github.com/brogergvhs/mcreader/internal/providers/mcreader"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

// app is everything a command needs to talk to the site: the merged
// config, a host runtime and an initialised source with its session.
type app struct {
	cfg  *config.Config
	log  *ui.Logger
	rt   *host.Runtime
	src  *mcreader.Source
	sess *mcreader.Session
	out  io.Writer
}

func newApp(cmd *cobra.Command, workers int) (*app, error) {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:  flagIgnoreConfig,
		Debug:         flagDebug,
		BaseURL:       flagBaseURL,
		UserAgent:     flagUserAgent,
		Cookie:        flagCookie,
		CookieFile:    flagCookieFile,
		SelectorsFile: flagSelectors,
		Workers:       workers,
	})
	if err != nil {
		return nil, err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	logSvc.Debugf("config: %s\n", usedPath)

	sel, err := mcreader.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}

	timeout, _ := cfg.TimeoutDuration()
	window, _ := cfg.RateWindowDuration()

	rt, err := host.New(host.Options{
		Timeout:          timeout,
		UserAgent:        cfg.UserAgent,
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.Bypass,
		RateOverride:     providers.RateLimit{Requests: cfg.RateRequests, Window: window},
		Logger:           logSvc,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		log: logSvc,
		rt:  rt,
		src: mcreader.New(rt, mcreader.Options{
			BaseURL:   cfg.BaseURL,
			Selectors: sel,
			Logger:    logSvc,
		}),
		sess: mcreader.NewSession(),
		out:  cmd.OutOrStdout(),
	}

	a.src.Initialise(cmd.Context(), rt, a.sess)

	return a, nil
}

func (a *app) Close() {
	a.rt.Close()
}

// do runs op and, when the site answers with a challenge, runs the bypass
// flow once and retries. With bypass disabled the challenge is returned
// together with a hint on how to get past it manually.
func (a *app) do(ctx context.Context, op func() error) error {
	err := op()

	var cf *mcreader.CloudflareError
	if !errors.As(err, &cf) {
		return err
	}

	if !a.cfg.Bypass {
		return fmt.Errorf("%w\nenable `bypass` in the config or pass a cf_clearance cookie with --cookie", err)
	}

	a.log.Warnf("challenge on %s (HTTP %d), running bypass\n", cf.URL, cf.Status)

	cookies, berr := a.rt.RunBypass(ctx, a.src.BypassRequest(ctx))
	if berr != nil {
		return fmt.Errorf("%w\nopen %s in a browser and pass its cf_clearance cookie with --cookie", berr, cf.URL)
	}
	a.src.SaveBypassCookies(a.sess, cookies)

	return op()
}

// idArg accepts either a bare identifier or a site URL.
func idArg(arg string, fromURL func(string) (string, bool)) (string, error) {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "://") || strings.HasPrefix(arg, "/") {
		id, ok := fromURL(arg)
		if !ok {
			return "", fmt.Errorf("cannot find an identifier in %q", arg)
		}
		return id, nil
	}

	if !mcreader.ValidIdentifier(arg) {
		return "", fmt.Errorf("invalid identifier %q", arg)
	}

	return arg, nil
}

func itemRows(items []providers.Item) [][]string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{it.MangaID, it.Title, it.Subtitle}
	}
	return rows
}
