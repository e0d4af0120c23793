// Package ops composes the session manager, the collector and the
// page extraction rules into the exposed operations. Each operation
// acquires its own session, validates authentication after
// navigation, persists refreshed cookies on success, and releases the
// browser on every exit path.
package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linkout/linkout/internal/browser"
	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/pkg/vault"
)

// DefaultCount is used when a listing request leaves the count unset.
const DefaultCount = 5

// Config carries the browser bounds and optional login credentials.
type Config struct {
	Browser  browser.Config
	Username string
	Password string
}

// browserSession is the session surface the operations consume. It is
// satisfied by *browser.Session; the indirection lets the auth gate
// and persist ordering be tested without a browser process.
type browserSession interface {
	Navigate(ctx context.Context, targetURL string) error
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	Settle(ctx context.Context) error
	HTML(ctx context.Context) (string, error)
	ScrollStep(ctx context.Context) error
	Click(ctx context.Context, sel string, timeout time.Duration) error
	Type(ctx context.Context, sel, text string, timeout time.Duration) error
	Login(ctx context.Context, username, password string) error
	Persist(ctx context.Context) error
	Close()
}

// Operations implements the exposed operation surface.
type Operations struct {
	cfg        Config
	vault      *vault.Vault
	validate   *validator.Validate
	newSession func(ctx context.Context, cfg browser.Config) (browserSession, error)
}

// New wires an operation facade over the given vault.
func New(v *vault.Vault, cfg Config) *Operations {
	return &Operations{
		cfg:      cfg,
		vault:    v,
		validate: validator.New(),
		newSession: func(ctx context.Context, cfg browser.Config) (browserSession, error) {
			return browser.NewSession(ctx, cfg, v)
		},
	}
}

// acquire opens a fresh session for one operation invocation.
func (o *Operations) acquire(ctx context.Context) (browserSession, error) {
	session, err := o.newSession(ctx, o.cfg.Browser)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser session: %w", err)
	}
	return session, nil
}

// persist refreshes the stored cookie bundle after a successful
// operation. A failed save is reported but never fails the operation.
func persist(ctx context.Context, session browserSession) {
	if err := session.Persist(ctx); err != nil {
		logger.Warn("failed to persist session cookies", "error", err)
	}
}

// LoginResult reports the outcome of the login operation.
type LoginResult struct {
	Message string `json:"message"`
}

// Login opens the login surface in a visible browser and waits for the
// authenticated feed, bounded and cancellable. Credentials from the
// environment only prefill the form; absence falls back to fully
// manual completion.
func (o *Operations) Login(ctx context.Context) (*LoginResult, error) {
	// Manual login needs a window a human can interact with.
	cfg := o.cfg.Browser
	cfg.Headless = false

	session, err := o.newSession(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser session: %w", err)
	}
	defer session.Close()

	if err := session.Login(ctx, o.cfg.Username, o.cfg.Password); err != nil {
		return nil, err
	}

	if err := session.Persist(ctx); err != nil {
		return nil, err
	}
	return &LoginResult{Message: "Login successful"}, nil
}
