package linkedin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	commentContainerSel = ".comments-comment-entity"
	commentAuthorSel    = ".comments-comment-meta__description-title"
	commentHeadlineSel  = ".comments-comment-meta__description-subtitle"
	commentTextSel      = ".comments-comment-item__main-content"
	commentTimeSel      = "time, .comments-comment-item__timestamp"
	commentMetaSel      = ".comments-comment-meta__data"

	maxCommentHeadline = 150
	maxCommentText     = 500
)

// PostDetail is a single post page: the post itself, the author's
// headline, and whatever comments are rendered.
type PostDetail struct {
	Post           Post      `json:"post"`
	AuthorHeadline string    `json:"author_headline"`
	Comments       []Comment `json:"comments"`
}

// ExtractPostDetail parses a post permalink page. The post fields use
// the same rules as feed containers; comments are fingerprinted and
// deduplicated since the comment pane re-renders entries as it loads.
func ExtractPostDetail(html string) (PostDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PostDetail{}, err
	}

	detail := PostDetail{
		Post:           parsePost(doc.Selection),
		AuthorHeadline: strings.TrimSpace(doc.Find(".update-components-actor__description").First().Text()),
	}
	if urn, ok := doc.Find(postContainerSel).First().Attr("data-urn"); ok {
		detail.Post.URN = urn
		detail.Post.URL = PostURL(urn)
	}

	seen := make(map[string]struct{})
	doc.Find(commentContainerSel).Each(func(_ int, el *goquery.Selection) {
		comment := parseComment(el)
		key := comment.DedupKey()
		if key == "" || comment.Author == "Unknown" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		detail.Comments = append(detail.Comments, comment)
	})

	return detail, nil
}

func parseComment(el *goquery.Selection) Comment {
	comment := Comment{Author: "Unknown"}

	if author := firstLine(el.Find(commentAuthorSel).First().Text()); author != "" {
		comment.Author = author
	}
	comment.AuthorHeadline = truncateRunes(firstLine(el.Find(commentHeadlineSel).First().Text()), maxCommentHeadline)
	comment.Text = truncateRunes(strings.TrimSpace(el.Find(commentTextSel).First().Text()), maxCommentText)

	if stamp := strings.TrimSpace(el.Find(commentTimeSel).First().Text()); stamp != "" {
		comment.Date = stamp
	} else if meta := el.Find(commentMetaSel).First(); meta.Length() > 0 {
		comment.Date = commentStampRe.FindString(meta.Text())
	}

	return comment
}
