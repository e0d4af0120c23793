package linkedin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector notes: LinkedIn obfuscates most class names, but the feed
// update containers keep semantic classes and a data-urn attribute
// (verified December 2025). Search-result content pages render the
// same containers, so one rule covers both.
const (
	postContainerSel = `div.feed-shared-update-v2[data-urn]`
	postAuthorSel    = `.update-components-actor__title span`
	postDateSel      = `.update-components-actor__sub-description`
	postContentSel   = `.feed-shared-update-v2__description .feed-shared-inline-show-more-text span[dir="ltr"], ` +
		`.feed-shared-inline-show-more-text span[dir="ltr"], ` +
		`.feed-shared-update-v2__description span[dir="ltr"]`
	postReactionsSel = `.social-details-social-counts__reactions-count`
	postCommentsSel  = `.social-details-social-counts__comments`

	activityURNPrefix = "urn:li:activity"

	maxPostContent = 1000
)

// ExtractFeedPosts parses the currently rendered feed or content
// search page into candidate posts. Containers without an activity URN
// are skipped; a malformed container never fails the batch.
func ExtractFeedPosts(html string) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var posts []Post
	doc.Find(postContainerSel).Each(func(_ int, container *goquery.Selection) {
		urn, ok := container.Attr("data-urn")
		if !ok || !strings.HasPrefix(urn, activityURNPrefix) {
			return
		}

		post := parsePost(container)
		post.URN = urn
		post.URL = PostURL(urn)

		// A card with neither author nor content is a skeleton
		// placeholder still rendering.
		if post.Content == "" && post.Author == "Unknown" {
			return
		}
		posts = append(posts, post)
	})

	return posts, nil
}

// parsePost reads the shared post fields out of an update container.
func parsePost(container *goquery.Selection) Post {
	post := Post{
		Author:    "Unknown",
		Reactions: "0",
		Comments:  "0",
	}

	if author := firstLine(container.Find(postAuthorSel).First().Text()); author != "" {
		post.Author = author
	}
	post.Date = firstLine(container.Find(postDateSel).First().Text())
	post.Content = truncateRunes(strings.TrimSpace(container.Find(postContentSel).First().Text()), maxPostContent)

	if reactions := strings.TrimSpace(container.Find(postReactionsSel).First().Text()); reactions != "" {
		post.Reactions = reactions
	}
	if comments := strings.TrimSpace(container.Find(postCommentsSel).First().Text()); comments != "" {
		post.Comments = comments
	}

	return post
}
