// Package linkedin holds the site-specific half of the system: record
// types, URL plumbing, and the DOM extraction rules for each page
// type. The rules read a rendered-HTML snapshot with goquery and are
// the part of the codebase expected to break when markup drifts; the
// rest of the system only sees them through extract functions.
package linkedin

import (
	"strings"
)

// Platform identifies the credential bundle in the vault.
const Platform = "linkedin"

// Post is one feed or search-result update.
type Post struct {
	URN       string `json:"urn"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Reactions string `json:"reactions"`
	Comments  string `json:"comments"`
}

// DedupKey returns the activity URN, stable across re-renders.
func (p Post) DedupKey() string { return p.URN }

// Profile is one people-search result card.
type Profile struct {
	Name             string `json:"name"`
	Headline         string `json:"headline"`
	Location         string `json:"location"`
	URL              string `json:"url"`
	ConnectionDegree string `json:"connection_degree"`
}

// DedupKey returns the canonical profile URL.
func (p Profile) DedupKey() string { return p.URL }

// ProfileDetail is the full top-card view of a single profile.
type ProfileDetail struct {
	Name           string `json:"name,omitempty"`
	Headline       string `json:"headline,omitempty"`
	Location       string `json:"location,omitempty"`
	Connections    string `json:"connections,omitempty"`
	About          string `json:"about,omitempty"`
	CurrentRole    string `json:"current_role,omitempty"`
	CurrentCompany string `json:"current_company,omitempty"`
}

// Comment is one comment under a post. Comments have no URN, so the
// fingerprint is author plus a text prefix.
type Comment struct {
	Author         string `json:"author"`
	AuthorHeadline string `json:"author_headline"`
	Text           string `json:"text"`
	Date           string `json:"date"`
}

// DedupKey returns a fingerprint for duplicate comment renders.
func (c Comment) DedupKey() string {
	if c.Author == "" || c.Text == "" {
		return ""
	}
	return c.Author + "|" + truncateRunes(c.Text, 50)
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// truncateRunes caps s at n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
