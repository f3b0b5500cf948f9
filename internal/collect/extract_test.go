package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-outreach/internal/models"
)

func TestBuildProfileSearchCard(t *testing.T) {
	raw := RawCard{
		Name:     "Jane Doe (She/Her)",
		Href:     "https://www.linkedin.com/in/janedoe?miniProfileUrn=urn%3Ali",
		Subtitle: "Staff Engineer at Acme",
		Location: "Berlin, Germany",
		ImageURL: "https://media.licdn.com/dms/image/profile-displayphoto.jpg",
	}

	p, ok := BuildProfile(raw, 2)
	require.True(t, ok)

	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", p.CanonicalURL)
	assert.Empty(t, p.LeadURL)
	assert.Equal(t, "Staff Engineer", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "Berlin, Germany", p.Location)
	assert.Equal(t, raw.ImageURL, p.ProfileImageURL)
	assert.Equal(t, models.SourceSearchPage, p.Source)
	assert.Equal(t, 2, p.PageIndex)
	assert.False(t, p.CollectedAt.IsZero())
}

func TestBuildProfileLeadPlatformCard(t *testing.T) {
	raw := RawCard{
		Name: "John Roe",
		Href: "https://www.linkedin.com/sales/lead/ACw,NAME_SEARCH",
	}

	p, ok := BuildProfile(raw, 1)
	require.True(t, ok)

	assert.Empty(t, p.CanonicalURL)
	assert.Equal(t, raw.Href, p.LeadURL)
	assert.Equal(t, models.SourceLeadPlatform, p.Source)
	assert.Equal(t, raw.Href, p.TargetURL())
}

func TestBuildProfileRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  RawCard
	}{
		{"anonymous member", RawCard{Name: "LinkedIn Member", Href: "https://www.linkedin.com/in/x"}},
		{"empty name", RawCard{Href: "https://www.linkedin.com/in/x"}},
		{"decoration-only name", RawCard{Name: "(She/Her)", Href: "https://www.linkedin.com/in/x"}},
		{"non-profile href", RawCard{Name: "Acme Corp", Href: "https://www.linkedin.com/company/acme"}},
		{"empty href", RawCard{Name: "Jane Doe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := BuildProfile(tt.raw, 1)
			assert.False(t, ok)
		})
	}
}

func TestBuildProfileIgnoresNonHTTPSImage(t *testing.T) {
	raw := RawCard{
		Name:     "Jane Doe",
		Href:     "https://www.linkedin.com/in/janedoe",
		ImageURL: "data:image/gif;base64,R0lGOD",
	}

	p, ok := BuildProfile(raw, 1)
	require.True(t, ok)
	assert.Empty(t, p.ProfileImageURL)
}

func TestSplitSubtitle(t *testing.T) {
	tests := []struct {
		in      string
		title   string
		company string
	}{
		{"Staff Engineer at Acme", "Staff Engineer", "Acme"},
		{"CTO @ Startup", "CTO", "Startup"},
		{"Engineer | BigCo", "Engineer", "BigCo"},
		{"Freelance Consultant", "Freelance Consultant", ""},
		{"", "", ""},
		{"  Engineer at Acme  ", "Engineer", "Acme"},
	}

	for _, tt := range tests {
		title, company := splitSubtitle(tt.in)
		assert.Equal(t, tt.title, title, tt.in)
		assert.Equal(t, tt.company, company, tt.in)
	}
}

func TestBuildSearchURL(t *testing.T) {
	u := BuildSearchURL([]string{"golang", "backend"})
	assert.Equal(t, "https://www.linkedin.com/search/results/people/?keywords=golang+backend&origin=GLOBAL_SEARCH_HEADER", u)
}
