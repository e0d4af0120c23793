package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/pkg/linkedin"
)

const (
	profileReadyTimeout = 15 * time.Second
	interactTimeout     = 5 * time.Second
)

// ProfileRequest asks for one profile page.
type ProfileRequest struct {
	ProfileURL string `json:"profile_url" validate:"required,url"`
}

// ProfileResult is the profile view payload.
type ProfileResult struct {
	Profile linkedin.ProfileDetail `json:"profile"`
	URL     string                 `json:"url"`
}

// PostAction is what InteractPost does with the target post.
type PostAction string

const (
	ActionRead    PostAction = "read"
	ActionLike    PostAction = "like"
	ActionComment PostAction = "comment"
)

// PostRequest asks for one post page plus an optional interaction.
type PostRequest struct {
	PostURL string     `json:"post_url" validate:"required,url"`
	Action  PostAction `json:"action" validate:"oneof=read like comment"`
	Comment string     `json:"comment" validate:"required_if=Action comment"`
}

// PostResult is the post interaction payload.
type PostResult struct {
	Action         PostAction         `json:"action"`
	Post           linkedin.Post      `json:"post"`
	AuthorHeadline string             `json:"author_headline,omitempty"`
	Comments       []linkedin.Comment `json:"comments"`
	CommentsFound  int                `json:"comments_found"`
}

// ViewProfile navigates to a profile page and extracts its top card,
// about section and current experience.
func (o *Operations) ViewProfile(ctx context.Context, req ProfileRequest) (*ProfileResult, error) {
	if err := o.validate.Struct(req); err != nil {
		return nil, err
	}
	// Malformed targets are rejected before any navigation.
	if err := linkedin.ValidateProfileURL(req.ProfileURL); err != nil {
		return nil, err
	}

	session, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, req.ProfileURL); err != nil {
		return nil, err
	}

	if err := session.WaitVisible(ctx, ".pv-top-card, .scaffold-layout__main", profileReadyTimeout); err != nil {
		logger.Warn("profile card readiness signal missed, extracting best-effort")
	}
	_ = session.Settle(ctx)

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := linkedin.ExtractProfileDetail(html)
	if err != nil {
		return nil, fmt.Errorf("failed to extract profile: %w", err)
	}

	persist(ctx, session)
	return &ProfileResult{Profile: profile, URL: req.ProfileURL}, nil
}

// InteractPost opens a post permalink and performs the requested
// action. Every action also reads the post and its rendered comments.
func (o *Operations) InteractPost(ctx context.Context, req PostRequest) (*PostResult, error) {
	if req.Action == "" {
		req.Action = ActionRead
	}
	if err := o.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := linkedin.ValidatePostURL(req.PostURL); err != nil {
		return nil, err
	}

	session, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, req.PostURL); err != nil {
		return nil, err
	}
	softWait(ctx, session, "div.feed-shared-update-v2")
	_ = session.Settle(ctx)

	switch req.Action {
	case ActionLike:
		if err := o.likePost(ctx, session); err != nil {
			return nil, err
		}
	case ActionComment:
		if err := o.commentPost(ctx, session, req.Comment); err != nil {
			return nil, err
		}
	}

	// Expand the comment pane so rendered comments are extractable.
	// Best-effort: some posts have no comments button.
	if err := session.Click(ctx, `button[aria-label*="comment"], .social-details-social-counts__comments`, interactTimeout); err == nil {
		_ = session.Settle(ctx)
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, err
	}
	detail, err := linkedin.ExtractPostDetail(html)
	if err != nil {
		return nil, fmt.Errorf("failed to extract post: %w", err)
	}

	persist(ctx, session)
	return &PostResult{
		Action:         req.Action,
		Post:           detail.Post,
		AuthorHeadline: detail.AuthorHeadline,
		Comments:       detail.Comments,
		CommentsFound:  len(detail.Comments),
	}, nil
}

func (o *Operations) likePost(ctx context.Context, session browserSession) error {
	if err := session.Click(ctx, `button[aria-label^="React Like"], .react-button__trigger`, interactTimeout); err != nil {
		return fmt.Errorf("failed to click like: %w", err)
	}
	_ = session.Settle(ctx)
	return nil
}

func (o *Operations) commentPost(ctx context.Context, session browserSession, text string) error {
	if err := session.Click(ctx, `button[aria-label*="comment"], .social-details-social-counts__comments`, interactTimeout); err != nil {
		return fmt.Errorf("failed to open comment box: %w", err)
	}
	_ = session.Settle(ctx)

	if err := session.Type(ctx, ".comments-comment-box__form .ql-editor, .comments-comment-texteditor .ql-editor", text, interactTimeout); err != nil {
		return fmt.Errorf("failed to type comment: %w", err)
	}
	if err := session.Click(ctx, ".comments-comment-box__submit-button--cr, .comments-comment-box__submit-button", interactTimeout); err != nil {
		return fmt.Errorf("failed to submit comment: %w", err)
	}
	_ = session.Settle(ctx)
	return nil
}
