package linkedin

import (
	"testing"
)

const searchResultsHTML = `
<html><body><main>
<ul>
  <li>
    <a href="https://www.linkedin.com/in/janedoe?miniProfileUrn=abc">Jane Doe
    </a>
    <span>2nd</span>
    <div>Staff Software Engineer at Acme</div>
    <div>San Francisco Bay Area</div>
    <span>12 mutual connections</span>
    <button>Connect</button>
  </li>
  <li>
    <a href="https://www.linkedin.com/in/johnsmith">John Smith • 3rd</a>
    <div>Engineering Manager, Platform</div>
    <div>London, England</div>
    <button>Message</button>
  </li>
  <li>
    <a href="https://www.linkedin.com/in/janedoe">Jane Doe</a>
    <div>Duplicate card for the same person</div>
  </li>
</ul>
</main></body></html>`

func TestExtractProfileCards(t *testing.T) {
	profiles, err := ExtractProfileCards(searchResultsHTML)
	if err != nil {
		t.Fatalf("ExtractProfileCards() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("ExtractProfileCards() returned %d profiles, want 2 (duplicate collapsed)", len(profiles))
	}

	jane := profiles[0]
	if jane.Name != "Jane Doe" {
		t.Errorf("Name = %q, want Jane Doe", jane.Name)
	}
	if jane.URL != "https://www.linkedin.com/in/janedoe" {
		t.Errorf("URL = %q, want query stripped", jane.URL)
	}
	if jane.Headline != "Staff Software Engineer at Acme" {
		t.Errorf("Headline = %q", jane.Headline)
	}
	if jane.Location != "San Francisco Bay Area" {
		t.Errorf("Location = %q", jane.Location)
	}
	if jane.ConnectionDegree != "2nd" {
		t.Errorf("ConnectionDegree = %q, want 2nd", jane.ConnectionDegree)
	}

	john := profiles[1]
	if john.Name != "John Smith" {
		t.Errorf("Name = %q, want degree suffix stripped from John Smith", john.Name)
	}
	if john.ConnectionDegree != "3rd" {
		t.Errorf("ConnectionDegree = %q, want 3rd", john.ConnectionDegree)
	}
	if john.Headline != "Engineering Manager, Platform" {
		t.Errorf("Headline = %q", john.Headline)
	}
}

func TestExtractProfileCardsEmptyPage(t *testing.T) {
	profiles, err := ExtractProfileCards("<html><body><p>No results found.</p></body></html>")
	if err != nil {
		t.Fatalf("ExtractProfileCards() error = %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("ExtractProfileCards() returned %d profiles, want 0", len(profiles))
	}
}

const profilePageHTML = `
<html><body><main>
<section class="pv-top-card">
  <h1 class="inline">Jane Doe</h1>
  <div class="text-body-medium">Staff Software Engineer at Acme</div>
  <span class="text-body-small"><span>San Francisco Bay Area</span></span>
  <span class="text-body-small"><span>Contact info</span></span>
  <span>500+ connections</span>
</section>
<section>
  <div id="about"></div>
  <span aria-hidden="true">About</span>
  <span aria-hidden="true">I build distributed systems and the tooling around them.</span>
</section>
<section>
  <div id="experience"></div>
  <div data-view-name="profile-component-entity">
    <span aria-hidden="true">Staff Software Engineer</span>
    <a href="https://www.linkedin.com/company/acme/"><span aria-hidden="true">Acme Corp</span></a>
  </div>
</section>
</main></body></html>`

func TestExtractProfileDetail(t *testing.T) {
	detail, err := ExtractProfileDetail(profilePageHTML)
	if err != nil {
		t.Fatalf("ExtractProfileDetail() error = %v", err)
	}

	if detail.Name != "Jane Doe" {
		t.Errorf("Name = %q, want Jane Doe", detail.Name)
	}
	if detail.Headline != "Staff Software Engineer at Acme" {
		t.Errorf("Headline = %q", detail.Headline)
	}
	if detail.Location != "San Francisco Bay Area" {
		t.Errorf("Location = %q", detail.Location)
	}
	if detail.Connections != "500+ connections" {
		t.Errorf("Connections = %q, want 500+ connections", detail.Connections)
	}
	if detail.About != "I build distributed systems and the tooling around them." {
		t.Errorf("About = %q", detail.About)
	}
	if detail.CurrentRole != "Staff Software Engineer" {
		t.Errorf("CurrentRole = %q", detail.CurrentRole)
	}
	if detail.CurrentCompany != "Acme Corp" {
		t.Errorf("CurrentCompany = %q, want Acme Corp", detail.CurrentCompany)
	}
}

func TestExtractProfileDetailMissingSections(t *testing.T) {
	detail, err := ExtractProfileDetail(`<html><body><h1 class="inline">Jane Doe</h1></body></html>`)
	if err != nil {
		t.Fatalf("ExtractProfileDetail() error = %v", err)
	}
	if detail.Name != "Jane Doe" {
		t.Errorf("Name = %q, want Jane Doe", detail.Name)
	}
	if detail.About != "" || detail.CurrentRole != "" || detail.CurrentCompany != "" {
		t.Errorf("missing sections produced non-empty fields: %+v", detail)
	}
}

func TestParseCardLines(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantHeadline string
		wantLocation string
		wantDegree   string
	}{
		{
			name:         "typical card",
			text:         "Jane Doe\n2nd\nStaff Software Engineer at Acme\nSan Francisco Bay Area\n12 mutual connections\nConnect",
			wantHeadline: "Staff Software Engineer at Acme",
			wantLocation: "San Francisco Bay Area",
			wantDegree:   "2nd",
		},
		{
			name:         "degree embedded with bullet",
			text:         "John Smith • 3rd\nEngineering Manager, Platform\nLondon, England\nMessage",
			wantHeadline: "Engineering Manager, Platform",
			wantLocation: "London, England",
			wantDegree:   "3rd",
		},
		{
			name: "buttons only",
			text: "Jane Doe\nConnect\nFollow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headline, location, degree := parseCardLines(tt.text)
			if headline != tt.wantHeadline {
				t.Errorf("headline = %q, want %q", headline, tt.wantHeadline)
			}
			if location != tt.wantLocation {
				t.Errorf("location = %q, want %q", location, tt.wantLocation)
			}
			if degree != tt.wantDegree {
				t.Errorf("degree = %q, want %q", degree, tt.wantDegree)
			}
		})
	}
}
