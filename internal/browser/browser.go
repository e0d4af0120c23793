// Package browser owns the lifecycle of one authenticated browsing
// context: acquire (vault reuse or fresh login), validate (login
// redirect detection), refresh (cookie re-persistence) and release.
// A Session is scoped to a single operation invocation and never
// shared across concurrent operations.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/pkg/linkedin"
	"github.com/linkout/linkout/pkg/vault"
)

// Failure reasons surfaced to the operation boundary.
// Check with errors.Is.
var (
	// ErrNotAuthenticated indicates a navigation was redirected to the
	// login surface; the stored session is stale or absent.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrLoginTimeout indicates manual login was not completed within
	// the configured bound.
	ErrLoginTimeout = errors.New("login timeout")
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config controls browser acquisition and per-step bounds.
type Config struct {
	Headless     bool
	UserAgent    string
	ExecPath     string        // Chrome binary; discovered when empty
	Timeout      time.Duration // per-navigation bound
	LoginTimeout time.Duration // manual login bound
	SettleDelay  time.Duration // pause after each scroll step
	ScrollStep   int           // pixels per scroll step
}

// DefaultConfig returns the bounds used by every operation unless
// overridden.
func DefaultConfig() Config {
	return Config{
		Headless:     true,
		UserAgent:    defaultUserAgent,
		Timeout:      60 * time.Second,
		LoginTimeout: 5 * time.Minute,
		SettleDelay:  1500 * time.Millisecond,
		ScrollStep:   600,
	}
}

// Session is one live browsing context backed by its own browser
// process. The owner must call Close on every exit path.
type Session struct {
	cfg          Config
	vault        *vault.Vault
	allocCtx     context.Context
	cancelAlloc  context.CancelFunc
	browserCtx   context.Context
	cancelCtx    context.CancelFunc
	cookiesReady bool // vault cookies applied to the context
}

// NewSession launches a browser context and applies any stored,
// unexpired cookie bundle for the platform. An absent or unusable
// bundle is not an error; the session simply starts unauthenticated.
func NewSession(ctx context.Context, cfg Config, v *vault.Vault) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.LoginTimeout == 0 {
		cfg.LoginTimeout = DefaultConfig().LoginTimeout
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultConfig().SettleDelay
	}
	if cfg.ScrollStep == 0 {
		cfg.ScrollStep = DefaultConfig().ScrollStep
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 800),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ExecPath == "" {
		cfg.ExecPath = FindChromePath()
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		cfg:         cfg,
		vault:       v,
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancelCtx:   cancelBrowser,
	}

	if bundle, ok := v.Load(linkedin.Platform); ok {
		if err := s.applyCookies(bundle.Cookies); err != nil {
			// Treat an unusable bundle like an absent one.
			logger.Warn("failed to apply stored cookies, continuing without session", "error", err)
		} else {
			s.cookiesReady = true
			logger.Debug("stored session applied", "cookies", len(bundle.Cookies))
		}
	}

	return s, nil
}

// HasStoredSession reports whether vault cookies were applied at
// acquisition time.
func (s *Session) HasStoredSession() bool { return s.cookiesReady }

// Close releases the browser process and its context. Safe to call on
// every exit path.
func (s *Session) Close() {
	if s.cancelCtx != nil {
		s.cancelCtx()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

// Navigate loads targetURL, waits for the document body, and validates
// that the platform did not bounce us to its login surface. A login
// redirect returns ErrNotAuthenticated before any extraction happens.
func (s *Session) Navigate(ctx context.Context, targetURL string) error {
	logger.Debug("navigating", "url", targetURL)

	runCtx, cancel := s.runContext(ctx, s.cfg.Timeout)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	current, err := s.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if linkedin.IsLoginRedirect(current) {
		logger.Debug("login redirect detected", "url", current)
		return ErrNotAuthenticated
	}
	return nil
}

// CurrentURL returns the page's current location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	runCtx, cancel := s.runContext(ctx, s.cfg.Timeout)
	defer cancel()

	var current string
	if err := chromedp.Run(runCtx, chromedp.Location(&current)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return current, nil
}

// WaitVisible waits up to timeout for a readiness selector. Callers
// treat failure as a soft signal: extraction proceeds best-effort.
func (s *Session) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	runCtx, cancel := s.runContext(ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

// Settle pauses for the configured settle delay, honoring ctx.
func (s *Session) Settle(ctx context.Context) error {
	runCtx, cancel := s.runContext(ctx, s.cfg.SettleDelay+time.Second)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.Sleep(s.cfg.SettleDelay))
}

// HTML snapshots the rendered document for the extraction rules.
func (s *Session) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.runContext(ctx, s.cfg.Timeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

// ScrollStep scrolls one step down and waits the settle delay so lazy
// content can render. This is the collector's scroll capability.
func (s *Session) ScrollStep(ctx context.Context) error {
	runCtx, cancel := s.runContext(ctx, s.cfg.SettleDelay+s.cfg.Timeout)
	defer cancel()

	return chromedp.Run(runCtx,
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", s.cfg.ScrollStep), nil),
		chromedp.Sleep(s.cfg.SettleDelay),
	)
}

// Click clicks the first node matching sel, waiting up to timeout for
// it to appear. Optional UI elements get a short bound so their
// absence does not stall the operation.
func (s *Session) Click(ctx context.Context, sel string, timeout time.Duration) error {
	runCtx, cancel := s.runContext(ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.Click(sel, chromedp.ByQuery))
}

// Type sends text into the first node matching sel.
func (s *Session) Type(ctx context.Context, sel, text string, timeout time.Duration) error {
	runCtx, cancel := s.runContext(ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.SendKeys(sel, text, chromedp.ByQuery))
}

// Persist re-saves the context's cookie jar, refreshing the bundle TTL
// and capturing any rotation the platform performed. Callers only
// persist after a validated, successful operation.
func (s *Session) Persist(ctx context.Context) error {
	runCtx, cancel := s.runContext(ctx, s.cfg.Timeout)
	defer cancel()

	var cookies []vault.Cookie
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		cdpCookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		cookies = make([]vault.Cookie, 0, len(cdpCookies))
		for _, c := range cdpCookies {
			cookies = append(cookies, vault.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
				SameSite: string(c.SameSite),
			})
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	if err := s.vault.Save(linkedin.Platform, cookies); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	logger.Debug("session persisted", "cookies", len(cookies))
	return nil
}

// applyCookies injects a stored cookie bundle into the fresh context.
func (s *Session) applyCookies(cookies []vault.Cookie) error {
	runCtx, cancel := s.runContext(context.Background(), s.cfg.Timeout)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := make([]*network.CookieParam, 0, len(cookies))
		for _, c := range cookies {
			param := &network.CookieParam{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
			}
			if c.SameSite != "" {
				param.SameSite = network.CookieSameSite(c.SameSite)
			}
			if c.Expires > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				param.Expires = &expires
			}
			params = append(params, param)
		}
		return storage.SetCookies(params).Do(ctx)
	}))
}

// runContext derives a chromedp-runnable context bounded by timeout
// and cancelled when either the session or the caller's ctx ends.
func (s *Session) runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancelTimeout := context.WithTimeout(s.browserCtx, timeout)
	if ctx == nil || ctx == context.Background() {
		return runCtx, cancelTimeout
	}

	stop := context.AfterFunc(ctx, func() { cancelTimeout() })
	return runCtx, func() {
		stop()
		cancelTimeout()
	}
}
