package ops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkout/linkout/internal/browser"
	"github.com/linkout/linkout/pkg/linkedin"
	"github.com/linkout/linkout/pkg/vault"
)

// fakeSession scripts page snapshots and records which session calls
// an operation made, so lifecycle ordering is testable without Chrome.
type fakeSession struct {
	html        string
	navigateErr error
	loginErr    error

	navigated    []string
	htmlCalls    int
	scrollCalls  int
	persistCalls int
	closed       bool
}

func (f *fakeSession) Navigate(ctx context.Context, targetURL string) error {
	f.navigated = append(f.navigated, targetURL)
	return f.navigateErr
}

func (f *fakeSession) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	return nil
}

func (f *fakeSession) Settle(ctx context.Context) error { return nil }

func (f *fakeSession) HTML(ctx context.Context) (string, error) {
	f.htmlCalls++
	return f.html, nil
}

func (f *fakeSession) ScrollStep(ctx context.Context) error {
	f.scrollCalls++
	return nil
}

func (f *fakeSession) Click(ctx context.Context, sel string, timeout time.Duration) error {
	return errors.New("no such element")
}

func (f *fakeSession) Type(ctx context.Context, sel, text string, timeout time.Duration) error {
	return errors.New("no such element")
}

func (f *fakeSession) Login(ctx context.Context, username, password string) error {
	return f.loginErr
}

func (f *fakeSession) Persist(ctx context.Context) error {
	f.persistCalls++
	return nil
}

func (f *fakeSession) Close() { f.closed = true }

// Validation runs before any browser work, so rejection paths are
// testable without Chrome.

func newTestOperations(t *testing.T) *Operations {
	t.Helper()
	t.Setenv(vault.PassphraseEnv, "test-passphrase")

	v, err := vault.New(t.TempDir())
	if err != nil {
		t.Fatalf("vault.New() error = %v", err)
	}
	return New(v, Config{})
}

func TestBrowseFeedRejectsOutOfRangeCount(t *testing.T) {
	o := newTestOperations(t)

	for _, count := range []int{-1, 51, 500} {
		if _, err := o.BrowseFeed(context.Background(), FeedRequest{Count: count}); err == nil {
			t.Errorf("BrowseFeed(count=%d) error = nil, want validation error", count)
		}
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	o := newTestOperations(t)

	if _, err := o.SearchProfiles(context.Background(), SearchRequest{Count: 5}); err == nil {
		t.Error("SearchProfiles(empty query) error = nil, want validation error")
	}
	if _, err := o.SearchPosts(context.Background(), SearchRequest{Count: 5}); err == nil {
		t.Error("SearchPosts(empty query) error = nil, want validation error")
	}
}

func TestViewProfileRejectsBadTargets(t *testing.T) {
	o := newTestOperations(t)

	tests := []struct {
		name        string
		url         string
		wantInvalid bool
	}{
		{"empty", "", false},
		{"not a url", "not-a-url", false},
		{"wrong host", "https://example.com/in/someone", true},
		{"company page", "https://www.linkedin.com/company/acme/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.ViewProfile(context.Background(), ProfileRequest{ProfileURL: tt.url})
			if err == nil {
				t.Fatal("ViewProfile() error = nil, want rejection")
			}
			if tt.wantInvalid && !errors.Is(err, linkedin.ErrInvalidProfileURL) {
				t.Errorf("ViewProfile() error = %v, want ErrInvalidProfileURL", err)
			}
		})
	}
}

func TestInteractPostRejectsBadRequests(t *testing.T) {
	o := newTestOperations(t)

	if _, err := o.InteractPost(context.Background(), PostRequest{
		PostURL: "https://www.linkedin.com/in/someone/",
		Action:  ActionRead,
	}); !errors.Is(err, linkedin.ErrInvalidPostURL) {
		t.Errorf("InteractPost(profile url) error = %v, want ErrInvalidPostURL", err)
	}

	// Comment action without text fails validation.
	if _, err := o.InteractPost(context.Background(), PostRequest{
		PostURL: "https://www.linkedin.com/posts/someone_activity-1-x",
		Action:  ActionComment,
	}); err == nil {
		t.Error("InteractPost(comment without text) error = nil, want validation error")
	}

	if _, err := o.InteractPost(context.Background(), PostRequest{
		PostURL: "https://www.linkedin.com/posts/someone_activity-1-x",
		Action:  PostAction("repost"),
	}); err == nil {
		t.Error("InteractPost(unknown action) error = nil, want validation error")
	}
}

func withFakeSession(o *Operations, f *fakeSession) *browser.Config {
	var got browser.Config
	o.newSession = func(ctx context.Context, cfg browser.Config) (browserSession, error) {
		got = cfg
		return f, nil
	}
	return &got
}

func TestAuthGateShortCircuitsExtraction(t *testing.T) {
	o := newTestOperations(t)
	fake := &fakeSession{navigateErr: browser.ErrNotAuthenticated}
	withFakeSession(o, fake)

	_, err := o.BrowseFeed(context.Background(), FeedRequest{Count: 3})
	if !errors.Is(err, browser.ErrNotAuthenticated) {
		t.Fatalf("BrowseFeed() error = %v, want ErrNotAuthenticated", err)
	}

	// A dead session must trigger no extraction and must not be
	// persisted, but must still be released.
	if fake.htmlCalls != 0 {
		t.Errorf("extraction invoked %d times on a dead session, want 0", fake.htmlCalls)
	}
	if fake.persistCalls != 0 {
		t.Errorf("dead session persisted %d times, want 0", fake.persistCalls)
	}
	if !fake.closed {
		t.Error("session not released after auth failure")
	}
}

func TestBrowseFeedCollectsAndPersists(t *testing.T) {
	o := newTestOperations(t)
	fake := &fakeSession{html: `
<div class="feed-shared-update-v2" data-urn="urn:li:activity:1">
  <span class="update-components-actor__title"><span>Jane Doe</span></span>
  <div class="feed-shared-update-v2__description"><span dir="ltr">First post.</span></div>
</div>
<div class="feed-shared-update-v2" data-urn="urn:li:activity:2">
  <span class="update-components-actor__title"><span>Acme Corp</span></span>
  <div class="feed-shared-update-v2__description"><span dir="ltr">Second post.</span></div>
</div>`}
	withFakeSession(o, fake)

	result, err := o.BrowseFeed(context.Background(), FeedRequest{Count: 2})
	if err != nil {
		t.Fatalf("BrowseFeed() error = %v", err)
	}
	if result.TotalFound != 2 || len(result.Posts) != 2 {
		t.Fatalf("BrowseFeed() = %+v, want 2 posts", result)
	}
	if result.Posts[0].Author != "Jane Doe" || result.Posts[1].Author != "Acme Corp" {
		t.Errorf("post order = %q, %q", result.Posts[0].Author, result.Posts[1].Author)
	}

	if fake.persistCalls != 1 {
		t.Errorf("persist calls = %d, want 1", fake.persistCalls)
	}
	if !fake.closed {
		t.Error("session not released after success")
	}
	if len(fake.navigated) != 1 || !linkedin.IsFeedURL(fake.navigated[0]) {
		t.Errorf("navigated to %v, want the feed", fake.navigated)
	}
}

func TestSearchProfilesStopsAtTarget(t *testing.T) {
	o := newTestOperations(t)
	fake := &fakeSession{html: `
<li>
  <a href="https://www.linkedin.com/in/janedoe">Jane Doe</a>
  <div>Staff Software Engineer at Acme</div>
</li>
<li>
  <a href="https://www.linkedin.com/in/johnsmith">John Smith</a>
  <div>Engineering Manager, Platform</div>
</li>`}
	withFakeSession(o, fake)

	result, err := o.SearchProfiles(context.Background(), SearchRequest{Query: "golang", Count: 1})
	if err != nil {
		t.Fatalf("SearchProfiles() error = %v", err)
	}
	if result.Count != 1 || len(result.Profiles) != 1 {
		t.Fatalf("SearchProfiles() = %+v, want exactly 1 profile", result)
	}
	if result.Query != "golang" {
		t.Errorf("Query = %q, want golang", result.Query)
	}
	if fake.scrollCalls != 0 {
		t.Errorf("scroll calls = %d, want 0 when the first batch covers the target", fake.scrollCalls)
	}
}

func TestLoginRunsHeadfulAndPersists(t *testing.T) {
	o := newTestOperations(t)
	o.cfg.Browser.Headless = true
	fake := &fakeSession{}
	gotCfg := withFakeSession(o, fake)

	result, err := o.Login(context.Background())
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Message != "Login successful" {
		t.Errorf("Message = %q", result.Message)
	}
	if gotCfg.Headless {
		t.Error("login session launched headless, want a visible window")
	}
	if fake.persistCalls != 1 {
		t.Errorf("persist calls = %d, want 1", fake.persistCalls)
	}
	if !fake.closed {
		t.Error("session not released after login")
	}
}

func TestLoginTimeoutSurfaces(t *testing.T) {
	o := newTestOperations(t)
	fake := &fakeSession{loginErr: browser.ErrLoginTimeout}
	withFakeSession(o, fake)

	_, err := o.Login(context.Background())
	if !errors.Is(err, browser.ErrLoginTimeout) {
		t.Fatalf("Login() error = %v, want ErrLoginTimeout", err)
	}
	if fake.persistCalls != 0 {
		t.Errorf("persist calls = %d after failed login, want 0", fake.persistCalls)
	}
}
