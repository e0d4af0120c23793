package linkedin

import (
	"errors"
	"net/url"
	"strings"
)

const baseURL = "https://www.linkedin.com"

// Target validation errors, surfaced before any navigation happens.
var (
	ErrInvalidProfileURL = errors.New("invalid LinkedIn profile URL")
	ErrInvalidPostURL    = errors.New("invalid LinkedIn post URL")
)

// LoginURL is the platform's login surface.
func LoginURL() string { return baseURL + "/login" }

// FeedURL is the authenticated landing page.
func FeedURL() string { return baseURL + "/feed/" }

// PeopleSearchURL builds a people-search results URL for the query.
func PeopleSearchURL(query string) string {
	return baseURL + "/search/results/people/?" + url.Values{"keywords": {query}}.Encode()
}

// ContentSearchURL builds a post-search results URL for the query.
func ContentSearchURL(query string) string {
	return baseURL + "/search/results/content/?" + url.Values{"keywords": {query}}.Encode()
}

// PostURL builds the canonical permalink for an activity URN.
func PostURL(urn string) string {
	return baseURL + "/feed/update/" + urn + "/"
}

// ValidateProfileURL rejects anything that is not a profile permalink.
func ValidateProfileURL(u string) error {
	if !strings.Contains(u, "linkedin.com/in/") {
		return ErrInvalidProfileURL
	}
	return nil
}

// ValidatePostURL rejects anything that is not a post permalink.
func ValidatePostURL(u string) error {
	if !strings.Contains(u, "linkedin.com/posts/") && !strings.Contains(u, "linkedin.com/feed/update/") {
		return ErrInvalidPostURL
	}
	return nil
}

// IsLoginRedirect reports whether a post-navigation URL indicates the
// platform bounced us to its login or checkpoint surface, meaning the
// session is not authenticated.
func IsLoginRedirect(u string) bool {
	return strings.Contains(u, "login") || strings.Contains(u, "/checkpoint/")
}

// IsFeedURL reports whether the URL is inside the authenticated feed,
// the signal that login completed.
func IsFeedURL(u string) bool {
	return strings.Contains(u, "/feed")
}
