package linkedin

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// People-search results use fully obfuscated classes, so cards are
// located through their profile permalinks and the surrounding text is
// parsed line-wise.
const (
	maxProfileHeadline = 200
	maxProfileLocation = 100
	maxProfileAbout    = 500
)

var (
	degreeLineRe    = regexp.MustCompile(`^\d+(st|nd|rd|th)$`)
	degreeRe        = regexp.MustCompile(`\d+(st|nd|rd|th)`)
	nameDegreeRe    = regexp.MustCompile(`\s*•\s*\d+(st|nd|rd|th)$`)
	actionButtonRe  = regexp.MustCompile(`^(Connect|Message|Follow)`)
	mutualConnsRe   = regexp.MustCompile(`^\d+ mutual`)
	connectionsRe   = regexp.MustCompile(`(?i)(\d+[+,]?\d*\s*(connections?|followers?))`)
	commentStampRe  = regexp.MustCompile(`(?i)(\d+[hdwmo]|\d+ (?:hour|day|week|month|year)s? ago)`)
)

// ExtractProfileCards parses a people-search results page into
// candidate profiles, one per distinct profile permalink.
func ExtractProfileCards(html string) ([]Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var profiles []Profile

	doc.Find(`a[href*="/in/"]`).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		profileURL := strings.SplitN(href, "?", 2)[0]
		if _, dup := seen[profileURL]; dup {
			return
		}

		text := strings.TrimSpace(link.Text())
		if len(text) < 3 {
			return
		}

		name := nameDegreeRe.ReplaceAllString(firstLine(text), "")
		name = strings.TrimSpace(name)
		if name == "" || name == "Unknown" || len(name) < 2 {
			return
		}

		profile := Profile{Name: name, URL: profileURL}
		if container := cardContainer(link); container != nil {
			profile.Headline, profile.Location, profile.ConnectionDegree = parseCardLines(container.Text())
		}

		seen[profileURL] = struct{}{}
		profiles = append(profiles, profile)
	})

	return profiles, nil
}

// cardContainer walks up from a profile link to the element holding
// the rest of the card's text.
func cardContainer(link *goquery.Selection) *goquery.Selection {
	if li := link.Closest("li"); li.Length() > 0 {
		return li
	}
	if parent := link.Parent().Parent().Parent(); parent.Length() > 0 {
		return parent
	}
	return nil
}

// parseCardLines reads headline, location and connection degree out of
// a card's raw text. Card lines typically run: name, degree, headline,
// location, mutual connections, action buttons.
func parseCardLines(text string) (headline, location, degree string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 2 {
			lines = append(lines, line)
		}
	}

	for i, line := range lines {
		switch {
		case degreeLineRe.MatchString(line):
			degree = line
		case strings.Contains(line, "•") && degreeRe.MatchString(line):
			degree = degreeRe.FindString(line)
		case headline == "" && i > 0 && !actionButtonRe.MatchString(line) && len(line) > 10:
			headline = line
		case headline != "" && location == "" &&
			!actionButtonRe.MatchString(line) && !mutualConnsRe.MatchString(line) && len(line) > 3:
			location = line
		}
	}

	return truncateRunes(headline, maxProfileHeadline), truncateRunes(location, maxProfileLocation), degree
}

// ExtractProfileDetail parses a profile page's top card, about section
// and current experience entry. Missing sections leave fields empty.
func ExtractProfileDetail(html string) (ProfileDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ProfileDetail{}, err
	}

	var detail ProfileDetail

	nameEl := doc.Find(`h1.inline, h1[class*="inline"]`).First()
	detail.Name = strings.TrimSpace(nameEl.Text())

	// Headline sits right under the name; fall back to the h1's
	// sibling when the semantic class is missing.
	if headline := strings.TrimSpace(doc.Find(".text-body-medium").First().Text()); headline != "" {
		detail.Headline = headline
	} else if nameEl.Length() > 0 {
		detail.Headline = strings.TrimSpace(nameEl.Next().Text())
	}

	topCard := doc.Find(`.pv-top-card, [class*="top-card"]`).First()
	if topCard.Length() == 0 {
		topCard = doc.Selection
	}
	topCard.Find(".text-body-small span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > 3 && len(text) < 80 &&
			!strings.Contains(text, "connection") && !strings.Contains(text, "follower") &&
			!strings.Contains(text, "Contact") && !strings.Contains(text, "degree") {
			detail.Location = text
			return false
		}
		return true
	})

	detail.Connections = connectionsRe.FindString(doc.Find("body").Text())

	if about := doc.Find("#about").Closest("section"); about.Length() > 0 {
		about.Find(`span[aria-hidden="true"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 && text != "About" {
				detail.About = truncateRunes(text, maxProfileAbout)
				return false
			}
			return true
		})
	}

	if exp := doc.Find("#experience").Closest("section"); exp.Length() > 0 {
		role := exp.Find(`div[data-view-name="profile-component-entity"] span[aria-hidden="true"]`).First()
		detail.CurrentRole = strings.TrimSpace(role.Text())

		company := exp.Find(`a[href*="/company/"] span[aria-hidden="true"]`).First()
		detail.CurrentCompany = strings.TrimSpace(company.Text())
	}

	return detail, nil
}
