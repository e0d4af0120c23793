package ops

import (
	"context"
	"time"

	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/pkg/collect"
	"github.com/linkout/linkout/pkg/linkedin"
)

// contentReadyTimeout bounds the soft wait for a listing page's first
// rendered item. Missing the signal is logged, not fatal.
const contentReadyTimeout = 10 * time.Second

// FeedRequest asks for the newest feed posts.
type FeedRequest struct {
	Count int `json:"count" validate:"min=1,max=50"`
}

// FeedResult is the feed operation's payload.
type FeedResult struct {
	Posts      []linkedin.Post `json:"posts"`
	TotalFound int             `json:"total_found"`
}

// SearchRequest asks for items matching a keyword query.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	Count int    `json:"count" validate:"min=1,max=50"`
}

// ProfileSearchResult is the people-search payload.
type ProfileSearchResult struct {
	Profiles []linkedin.Profile `json:"profiles"`
	Count    int                `json:"count"`
	Query    string             `json:"query"`
}

// PostSearchResult is the content-search payload.
type PostSearchResult struct {
	Posts      []linkedin.Post `json:"posts"`
	TotalFound int             `json:"total_found"`
	Query      string          `json:"query"`
}

// BrowseFeed collects up to req.Count deduplicated posts from the
// authenticated feed. Fewer posts than requested is a partial success,
// not an error.
func (o *Operations) BrowseFeed(ctx context.Context, req FeedRequest) (*FeedResult, error) {
	if req.Count == 0 {
		req.Count = DefaultCount
	}
	if err := o.validate.Struct(req); err != nil {
		return nil, err
	}

	posts, err := o.collectPosts(ctx, linkedin.FeedURL(), req.Count)
	if err != nil {
		return nil, err
	}
	return &FeedResult{Posts: posts, TotalFound: len(posts)}, nil
}

// SearchPosts collects posts from the keyword content-search page.
func (o *Operations) SearchPosts(ctx context.Context, req SearchRequest) (*PostSearchResult, error) {
	if req.Count == 0 {
		req.Count = DefaultCount
	}
	if err := o.validate.Struct(req); err != nil {
		return nil, err
	}

	posts, err := o.collectPosts(ctx, linkedin.ContentSearchURL(req.Query), req.Count)
	if err != nil {
		return nil, err
	}
	return &PostSearchResult{Posts: posts, TotalFound: len(posts), Query: req.Query}, nil
}

// SearchProfiles collects profile cards from the people-search page.
func (o *Operations) SearchProfiles(ctx context.Context, req SearchRequest) (*ProfileSearchResult, error) {
	if req.Count == 0 {
		req.Count = DefaultCount
	}
	if err := o.validate.Struct(req); err != nil {
		return nil, err
	}

	session, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, linkedin.PeopleSearchURL(req.Query)); err != nil {
		return nil, err
	}
	softWait(ctx, session, `a[href*="/in/"]`)

	profiles, err := collect.Collect(ctx,
		func(ctx context.Context) ([]linkedin.Profile, error) {
			html, err := session.HTML(ctx)
			if err != nil {
				return nil, err
			}
			return linkedin.ExtractProfileCards(html)
		},
		session.ScrollStep,
		req.Count,
	)
	if err != nil {
		return nil, err
	}

	persist(ctx, session)
	return &ProfileSearchResult{Profiles: profiles, Count: len(profiles), Query: req.Query}, nil
}

// collectPosts runs the shared scroll/extract loop against any page
// that renders feed update containers.
func (o *Operations) collectPosts(ctx context.Context, pageURL string, count int) ([]linkedin.Post, error) {
	session, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, pageURL); err != nil {
		return nil, err
	}
	softWait(ctx, session, "div.feed-shared-update-v2")

	posts, err := collect.Collect(ctx,
		func(ctx context.Context) ([]linkedin.Post, error) {
			html, err := session.HTML(ctx)
			if err != nil {
				return nil, err
			}
			return linkedin.ExtractFeedPosts(html)
		},
		session.ScrollStep,
		count,
	)
	if err != nil {
		return nil, err
	}

	persist(ctx, session)
	return posts, nil
}

// softWait waits for a content-readiness selector; its absence only
// degrades extraction, it never fails the operation.
func softWait(ctx context.Context, session browserSession, sel string) {
	if err := session.WaitVisible(ctx, sel, contentReadyTimeout); err != nil {
		logger.Warn("content readiness signal missed, extracting best-effort", "selector", sel)
	}
}
