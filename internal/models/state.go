// Package models - persisted workflow snapshot
package models

import (
	"time"
)

// Step is the top-level workflow phase
type Step string

const (
	StepIdle       Step = "idle"
	StepCollecting Step = "collecting"
	StepReady      Step = "ready"      // queue frozen, waiting for prompt confirmation
	StepProcessing Step = "processing"
	StepCompleted  Step = "completed"
)

// SubState is the per-profile pipeline position within StepProcessing
type SubState string

const (
	SubNavigating         SubState = "navigating"
	SubLocatingActionMenu SubState = "locating_action_menu"
	SubCapturingIdentity  SubState = "capturing_identity"
	SubGeneratingMessage  SubState = "generating_message"
	SubFillingMessage     SubState = "filling_message"
	SubSending            SubState = "sending"
	SubRecording          SubState = "recording"
)

// WorkflowState is the single snapshot that survives a page navigation. It is
// always written whole, never patched, so a reload on either side of a save
// observes a complete record.
type WorkflowState struct {
	CampaignID string   `json:"campaign_id"`
	Step       Step     `json:"step"`
	SubState   SubState `json:"sub_state,omitempty"`

	Queue  []Profile `json:"queue"`
	Cursor int       `json:"cursor"`

	GeneratedMessage   string `json:"generated_message,omitempty"`
	GeneratedInterests string `json:"generated_interests,omitempty"`

	Processed        []ProcessedEntry    `json:"processed"`
	PerProfileStatus map[int]StatusEntry `json:"per_profile_status,omitempty"`

	Running bool `json:"running"`
	Paused  bool `json:"paused"`

	PromptText      string `json:"prompt_text,omitempty"`
	PromptConfirmed bool   `json:"prompt_confirmed"`

	// Canonical identity of the current profile once captured from page
	// content; nil-equivalent is the empty string.
	LastKnownCanonicalURL string `json:"last_known_canonical_url,omitempty"`

	// Monotonic across the whole campaign, never reset per profile.
	SentCount   int `json:"sent_count"`
	FailedCount int `json:"failed_count"`

	SavedAt time.Time `json:"saved_at"`
}

// NewWorkflowState returns an idle snapshot for a fresh campaign
func NewWorkflowState(campaignID string) *WorkflowState {
	return &WorkflowState{
		CampaignID:       campaignID,
		Step:             StepIdle,
		PerProfileStatus: make(map[int]StatusEntry),
	}
}

// CurrentProfile returns the profile at the cursor, or nil when the queue is
// exhausted.
func (s *WorkflowState) CurrentProfile() *Profile {
	if s.Cursor < 0 || s.Cursor >= len(s.Queue) {
		return nil
	}
	return &s.Queue[s.Cursor]
}

// Exhausted reports whether every queued profile has been resolved
func (s *WorkflowState) Exhausted() bool {
	return s.Cursor >= len(s.Queue)
}

// AlreadyProcessed reports whether an outcome was already recorded for the
// given queue index. This is the conservative duplicate-send guard: a reload
// between a successful send and the cursor advance leaves a processed entry
// behind, and re-entry must not send again.
func (s *WorkflowState) AlreadyProcessed(index int) bool {
	for i := range s.Processed {
		if s.Processed[i].Index == index {
			return true
		}
	}
	return false
}

// RecordOutcome appends a processed entry and bumps exactly one counter.
// The cursor is advanced separately so callers control persistence ordering.
func (s *WorkflowState) RecordOutcome(entry ProcessedEntry) {
	s.Processed = append(s.Processed, entry)
	if entry.Counted() {
		s.SentCount++
	} else {
		s.FailedCount++
	}
}

// SetStatus updates the UI-facing status log for a queue position. The log is
// observational; engine logic must not read it back.
func (s *WorkflowState) SetStatus(index int, label, icon, colorHint string) {
	if s.PerProfileStatus == nil {
		s.PerProfileStatus = make(map[int]StatusEntry)
	}
	s.PerProfileStatus[index] = StatusEntry{
		Label:     label,
		Icon:      icon,
		ColorHint: colorHint,
		Timestamp: time.Now(),
	}
}

// Consistent verifies the snapshot invariants that must hold after any load.
// A false result is treated as state corruption.
func (s *WorkflowState) Consistent() bool {
	if s.Cursor < 0 || s.Cursor > len(s.Queue) {
		return false
	}
	if s.SentCount < 0 || s.FailedCount < 0 {
		return false
	}
	if s.Step == StepProcessing && s.SentCount+s.FailedCount != len(s.Processed) {
		return false
	}
	return true
}
