package linkedin

import (
	"strings"
	"testing"
)

func commentHTML(author, headline, text, stamp string) string {
	var b strings.Builder
	b.WriteString(`<article class="comments-comment-entity">`)
	if author != "" {
		b.WriteString(`<span class="comments-comment-meta__description-title">` + author + `</span>`)
	}
	if headline != "" {
		b.WriteString(`<span class="comments-comment-meta__description-subtitle">` + headline + `</span>`)
	}
	if stamp != "" {
		b.WriteString(`<time>` + stamp + `</time>`)
	}
	b.WriteString(`<div class="comments-comment-item__main-content">` + text + `</div>`)
	b.WriteString(`</article>`)
	return b.String()
}

func TestExtractPostDetail(t *testing.T) {
	html := "<html><body>" +
		feedPostHTML("urn:li:activity:7100000000000000009",
			"Jane Doe", "2d •", "Announcing our new release.", "312", "45 comments") +
		`<span class="update-components-actor__description">Staff Software Engineer at Acme</span>` +
		commentHTML("Alice", "Engineer at Foo", "Congratulations to the whole team!", "1d") +
		commentHTML("Bob", "", "Looking forward to trying it.", "20h") +
		"</body></html>"

	detail, err := ExtractPostDetail(html)
	if err != nil {
		t.Fatalf("ExtractPostDetail() error = %v", err)
	}

	if detail.Post.URN != "urn:li:activity:7100000000000000009" {
		t.Errorf("URN = %q", detail.Post.URN)
	}
	if detail.Post.Author != "Jane Doe" {
		t.Errorf("Author = %q, want Jane Doe", detail.Post.Author)
	}
	if detail.Post.Content != "Announcing our new release." {
		t.Errorf("Content = %q", detail.Post.Content)
	}
	if detail.AuthorHeadline != "Staff Software Engineer at Acme" {
		t.Errorf("AuthorHeadline = %q", detail.AuthorHeadline)
	}

	if len(detail.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(detail.Comments))
	}
	alice := detail.Comments[0]
	if alice.Author != "Alice" || alice.Text != "Congratulations to the whole team!" {
		t.Errorf("first comment = %+v", alice)
	}
	if alice.AuthorHeadline != "Engineer at Foo" {
		t.Errorf("first comment headline = %q", alice.AuthorHeadline)
	}
	if alice.Date != "1d" {
		t.Errorf("first comment date = %q, want 1d", alice.Date)
	}
	if detail.Comments[1].Author != "Bob" {
		t.Errorf("second comment author = %q, want Bob", detail.Comments[1].Author)
	}
}

func TestExtractPostDetailDeduplicatesComments(t *testing.T) {
	// The comment pane re-renders entries while lazy loading; the same
	// author and text must come back once.
	dup := commentHTML("Alice", "", "Same comment rendered twice.", "1d")
	html := feedPostHTML("urn:li:activity:5", "Jane Doe", "1d", "Post body.", "1", "2") + dup + dup

	detail, err := ExtractPostDetail(html)
	if err != nil {
		t.Fatalf("ExtractPostDetail() error = %v", err)
	}
	if len(detail.Comments) != 1 {
		t.Errorf("got %d comments, want 1", len(detail.Comments))
	}
}

func TestExtractPostDetailSkipsAnonymousComments(t *testing.T) {
	html := feedPostHTML("urn:li:activity:6", "Jane Doe", "1d", "Post body.", "1", "2") +
		commentHTML("", "", "Comment with no attributed author.", "2d")

	detail, err := ExtractPostDetail(html)
	if err != nil {
		t.Fatalf("ExtractPostDetail() error = %v", err)
	}
	if len(detail.Comments) != 0 {
		t.Errorf("got %d comments for anonymous entry, want 0", len(detail.Comments))
	}
}

func TestExtractPostDetailTimestampFallback(t *testing.T) {
	// No <time> element; the stamp is fished out of the meta line.
	html := feedPostHTML("urn:li:activity:10", "Jane Doe", "1d", "Post body.", "1", "2") +
		`<article class="comments-comment-entity">
		   <span class="comments-comment-meta__description-title">Carol</span>
		   <div class="comments-comment-meta__data">Carol • 3d • Edited</div>
		   <div class="comments-comment-item__main-content">Fallback stamp comment.</div>
		 </article>`

	detail, err := ExtractPostDetail(html)
	if err != nil {
		t.Fatalf("ExtractPostDetail() error = %v", err)
	}
	if len(detail.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(detail.Comments))
	}
	if detail.Comments[0].Date != "3d" {
		t.Errorf("comment date = %q, want 3d", detail.Comments[0].Date)
	}
}

func TestExtractPostDetailTruncatesCommentText(t *testing.T) {
	long := strings.Repeat("y", 800)
	html := feedPostHTML("urn:li:activity:11", "Jane Doe", "1d", "Post body.", "1", "2") +
		commentHTML("Dave", "", long, "1d")

	detail, err := ExtractPostDetail(html)
	if err != nil {
		t.Fatalf("ExtractPostDetail() error = %v", err)
	}
	if len(detail.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(detail.Comments))
	}
	if got := len([]rune(detail.Comments[0].Text)); got != maxCommentText {
		t.Errorf("comment text length = %d runes, want %d", got, maxCommentText)
	}
}
