package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/pkg/linkedin"
)

// loginPollInterval is how often the current URL is re-checked while
// waiting for login to complete.
const loginPollInterval = 2 * time.Second

// Login opens the platform's login surface and waits for the URL to
// transition into the feed. If the stored session already lands on the
// feed the login is a no-op. Credentials, when provided, only prefill
// the form; completion (2FA, captcha) stays with the human. The wait
// is bounded by LoginTimeout and cancellable through ctx.
func (s *Session) Login(ctx context.Context, username, password string) error {
	runCtx, cancel := s.runContext(ctx, s.cfg.Timeout)
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(linkedin.LoginURL()),
		chromedp.WaitReady("body"),
	); err != nil {
		cancel()
		return fmt.Errorf("failed to open login page: %w", err)
	}
	cancel()

	current, err := s.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if linkedin.IsFeedURL(current) {
		logger.Info("already logged in")
		return nil
	}

	if username != "" || password != "" {
		s.prefillCredentials(ctx, username, password)
	}

	logger.Info("waiting for login to complete", "timeout", s.cfg.LoginTimeout)
	deadline := time.Now().Add(s.cfg.LoginTimeout)
	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		current, err := s.CurrentURL(ctx)
		if err != nil {
			return err
		}
		if linkedin.IsFeedURL(current) {
			// Let post-login redirects and cookie writes finish.
			_ = s.Settle(ctx)
			logger.Info("login successful")
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLoginTimeout
		}
	}
}

// prefillCredentials types the configured credentials into the login
// form. Failures are logged and ignored: the form may have already
// been filled, or the platform may have skipped straight to a
// checkpoint step.
func (s *Session) prefillCredentials(ctx context.Context, username, password string) {
	runCtx, cancel := s.runContext(ctx, 10*time.Second)
	defer cancel()

	var actions []chromedp.Action
	if username != "" {
		actions = append(actions, chromedp.SendKeys("#username", username, chromedp.ByQuery))
	}
	if password != "" {
		actions = append(actions, chromedp.SendKeys("#password", password, chromedp.ByQuery))
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		logger.Debug("failed to prefill login form", "error", err)
	}
}
