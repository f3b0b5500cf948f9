package collect

import (
	"strings"
	"time"

	"linkedin-outreach/internal/models"
)

// RawCard holds the untrusted text fragments scraped from one result card.
// Extraction from the DOM and interpretation of the fragments are kept
// separate so the latter is testable without a browser.
type RawCard struct {
	Name     string
	Href     string
	Subtitle string
	Location string
	ImageURL string
}

// BuildProfile interprets a raw card into a validated profile. The boolean is
// false when the card cannot yield a profile the model would accept; such
// cards are dropped silently since partial cards are routine during rendering.
func BuildProfile(raw RawCard, pageIndex int) (models.Profile, bool) {
	name := models.CleanDisplayName(raw.Name)
	if name == "" || strings.EqualFold(name, "LinkedIn Member") {
		return models.Profile{}, false
	}

	p := models.Profile{
		Name:        name,
		Location:    strings.TrimSpace(raw.Location),
		CollectedAt: time.Now(),
		Source:      models.SourceSearchPage,
		PageIndex:   pageIndex,
	}

	if models.IsLeadPlatformURL(raw.Href) {
		p.LeadURL = raw.Href
		p.Source = models.SourceLeadPlatform
	} else {
		canonical := models.NormalizeProfileURL(raw.Href)
		if canonical == "" {
			return models.Profile{}, false
		}
		p.CanonicalURL = canonical
	}

	p.Title, p.Company = splitSubtitle(raw.Subtitle)

	if strings.HasPrefix(raw.ImageURL, "https://") {
		p.ProfileImageURL = raw.ImageURL
	}

	if !p.Valid() {
		return models.Profile{}, false
	}
	return p, true
}

// splitSubtitle parses the "Title at Company" subtitle shape. Subtitles that
// do not match keep everything in the title field.
func splitSubtitle(subtitle string) (title, company string) {
	s := strings.TrimSpace(subtitle)
	if s == "" {
		return "", ""
	}

	for _, sep := range []string{" at ", " @ ", " | "} {
		if i := strings.Index(s, sep); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):])
		}
	}
	return s, ""
}
