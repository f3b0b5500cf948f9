// Package models contains shared data structures for the outreach workflow.
package models

import (
	"time"
)

// ProfileSource identifies which page type a profile was collected from
type ProfileSource string

const (
	SourceSearchPage   ProfileSource = "search-page"
	SourceNetworkPage  ProfileSource = "network-page"
	SourceLeadPlatform ProfileSource = "lead-platform"
	SourceAlternative  ProfileSource = "alternative-extraction"
)

// Outcome is the terminal result of processing one profile
type Outcome string

const (
	OutcomeSent         Outcome = "sent"
	OutcomePossiblySent Outcome = "possibly_sent" // send not confirmed within the verify window
	OutcomeFailed       Outcome = "failed"
	OutcomeSkipped      Outcome = "skipped"
)

// Profile represents a collected lead/contact candidate
type Profile struct {
	Name            string        `json:"name"`
	CanonicalURL    string        `json:"canonical_url"`
	LeadURL         string        `json:"lead_url,omitempty"`
	Title           string        `json:"title,omitempty"`
	Company         string        `json:"company,omitempty"`
	Location        string        `json:"location,omitempty"`
	ProfileImageURL string        `json:"profile_image_url,omitempty"`
	CollectedAt     time.Time     `json:"collected_at"`
	Source          ProfileSource `json:"source"`
	PageIndex       int           `json:"page_index"`

	// Identifiers returned by the lead store once the profile is processed
	RemoteProfileID     string `json:"remote_profile_id,omitempty"`
	ConnectionRequestID string `json:"connection_request_id,omitempty"`
	MessageID           string `json:"message_id,omitempty"`
	PromptID            string `json:"prompt_id,omitempty"`
}

// Valid reports whether the profile may enter the model. Invalid profiles are
// discarded at the collection boundary, never stored. Lead-platform profiles
// carry only a lead URL; their canonical identity is captured during
// processing.
func (p *Profile) Valid() bool {
	if p.Name == "" {
		return false
	}
	return IsCanonicalProfileURL(p.CanonicalURL) || IsLeadPlatformURL(p.LeadURL)
}

// DedupKey is the identity used for queue deduplication
func (p *Profile) DedupKey() string {
	if p.CanonicalURL != "" {
		return p.CanonicalURL
	}
	return p.LeadURL
}

// TargetURL returns the URL the workflow should open for this profile. The
// lead URL wins when present since it may carry platform context the
// canonical URL lacks.
func (p *Profile) TargetURL() string {
	if p.LeadURL != "" {
		return p.LeadURL
	}
	return p.CanonicalURL
}

// FirstName returns the first whitespace-separated token of the name,
// falling back to a neutral greeting word.
func (p *Profile) FirstName() string {
	name := p.Name
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	if name == "" {
		return "there"
	}
	return name
}

// ProcessedEntry records the outcome for one queue position
type ProcessedEntry struct {
	Index      int       `json:"index"`
	Profile    Profile   `json:"profile"`
	Outcome    Outcome   `json:"outcome"`
	Note       string    `json:"note,omitempty"`
	Error      string    `json:"error,omitempty"`
	Message    string    `json:"message,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Counted reports whether the entry increments sentCount (true) or
// failedCount (false). Possibly-sent outcomes count as sent.
func (e *ProcessedEntry) Counted() bool {
	return e.Outcome == OutcomeSent || e.Outcome == OutcomePossiblySent
}

// StatusEntry is a UI-facing status log record. It is observational only and
// must never drive engine control flow.
type StatusEntry struct {
	Label     string    `json:"label"`
	Icon      string    `json:"icon,omitempty"`
	ColorHint string    `json:"color_hint,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
