// Package workflow drives a batch of collected profiles through the outreach
// pipeline: navigate, open the action menu, capture identity, generate a
// message, fill, send, record, advance.
//
// The engine follows a persisted-continuation pattern. Every suspension point
// writes a complete snapshot, and Resume is the only way the state machine
// advances. Per-profile failures are never fatal to the batch: every failure
// path records an outcome and moves the cursor forward by exactly one.
package workflow

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linkedin-outreach/internal/generate"
	"linkedin-outreach/internal/leadstore"
	"linkedin-outreach/internal/models"
	"linkedin-outreach/internal/state"
	"linkedin-outreach/internal/stealth"
)

// Generator produces the outreach message for a profile
type Generator interface {
	Generate(ctx context.Context, prompt string, profile *models.Profile, canonicalURL string) generate.Result
}

// Recorder persists a processed profile with the external store
type Recorder interface {
	Save(ctx context.Context, rec leadstore.Record) (leadstore.Receipt, error)
}

// Notifier sends fire-and-forget status events
type Notifier interface {
	Notify(event string, payload any)
}

// Archiver receives the campaign's durable counters on completion
type Archiver interface {
	ArchiveCampaign(campaignID string, sentCount, failedCount int, processed []models.ProcessedEntry) error
}

// Engine is the workflow state machine
type Engine struct {
	store    state.Store
	archive  Archiver
	driver   Driver
	gen      Generator
	recorder Recorder
	notifier Notifier
	pacer    *stealth.Pacer
	startURL string
	logger   zerolog.Logger

	paused atomic.Bool
}

// NewEngine wires the engine from its collaborators
func NewEngine(
	store state.Store,
	archive Archiver,
	driver Driver,
	gen Generator,
	recorder Recorder,
	notifier Notifier,
	pacer *stealth.Pacer,
	startURL string,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		store:    store,
		archive:  archive,
		driver:   driver,
		gen:      gen,
		recorder: recorder,
		notifier: notifier,
		pacer:    pacer,
		startURL: startURL,
		logger:   logger.With().Str("component", "workflow").Logger(),
	}
}

// StartCollection creates a fresh campaign snapshot in the collecting step.
// An in-flight processing campaign is left untouched.
func (e *Engine) StartCollection() (*models.WorkflowState, error) {
	existing, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Step == models.StepProcessing {
		return existing, nil
	}

	st := models.NewWorkflowState(uuid.NewString())
	st.Step = models.StepCollecting

	if err := e.store.Save(st); err != nil {
		return nil, err
	}

	e.logger.Info().Str("campaign", st.CampaignID).Msg("Collection started")
	return st, nil
}

// Intake adds a collected profile to the queue, deduplicating by canonical
// URL. Invalid profiles are rejected at this boundary and never stored.
func (e *Engine) Intake(profile models.Profile) (bool, error) {
	if !profile.Valid() {
		return false, models.ErrInvalidProfile
	}

	st, err := e.store.Load()
	if err != nil {
		return false, err
	}
	if st == nil || st.Step != models.StepCollecting {
		return false, nil
	}

	for i := range st.Queue {
		if st.Queue[i].DedupKey() == profile.DedupKey() {
			return false, nil
		}
	}

	st.Queue = append(st.Queue, profile)
	if err := e.store.Save(st); err != nil {
		return false, err
	}

	e.notifier.Notify("profiles_collected", map[string]any{
		"campaign": st.CampaignID,
		"count":    len(st.Queue),
	})
	return true, nil
}

// StopCollection freezes the queue at its current contents
func (e *Engine) StopCollection() error {
	st, err := e.store.Load()
	if err != nil {
		return err
	}
	if st == nil || st.Step != models.StepCollecting {
		return nil
	}

	st.Step = models.StepReady
	e.logger.Info().Int("queued", len(st.Queue)).Msg("Queue frozen")
	return e.store.Save(st)
}

// ConfirmPrompt supplies the user prompt and moves the workflow into
// processing. A blank prompt leaves the state unchanged.
func (e *Engine) ConfirmPrompt(prompt string) error {
	if prompt == "" {
		return nil
	}

	st, err := e.store.Load()
	if err != nil {
		return err
	}
	if st == nil || st.Step != models.StepReady || len(st.Queue) == 0 {
		return nil
	}

	st.Step = models.StepProcessing
	st.SubState = models.SubNavigating
	st.Cursor = 0
	st.PromptText = prompt
	st.PromptConfirmed = true
	st.Running = true

	e.logger.Info().
		Str("campaign", st.CampaignID).
		Int("queue", len(st.Queue)).
		Msg("Processing confirmed")
	return e.store.Save(st)
}

// Pause freezes auto-advance. The running profile finishes its current
// sub-state check and then the engine stops scheduling work.
func (e *Engine) Pause() error {
	e.paused.Store(true)

	st, err := e.store.Load()
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}

	st.Paused = true
	st.Running = false
	e.logger.Info().Msg("Workflow paused")
	return e.store.Save(st)
}

// Unpause clears the paused flag. Delays re-arm from zero; elapsed time
// before the pause is not credited.
func (e *Engine) Unpause() error {
	e.paused.Store(false)

	st, err := e.store.Load()
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}

	st.Paused = false
	st.Running = st.Step == models.StepProcessing
	e.logger.Info().Msg("Workflow resumed")
	return e.store.Save(st)
}

// ClearAll discards any persisted workflow. Durable counters in the archive
// are not touched.
func (e *Engine) ClearAll() error {
	e.paused.Store(false)
	return e.store.Clear()
}

// Run loops Resume until the queue is exhausted, pausing between profiles
// for the configured inter-profile delay. It is the process-lifetime entry
// point; one call drives a whole batch.
func (e *Engine) Run(ctx context.Context) error {
	for {
		more, err := e.Resume(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		// Deliberate throttling between profiles. A pause cancels the
		// schedule; resuming re-arms a fresh delay rather than fast-forwarding.
		if !e.sleepUnlessPaused(ctx, e.pacer.InterProfileDelay()) {
			return nil
		}
	}
}

// Resume is the single advance entry point. It loads the snapshot, performs
// at most one profile's remaining pipeline, and reports whether more work
// remains. Unreadable or missing state means no in-flight workflow.
func (e *Engine) Resume(ctx context.Context) (bool, error) {
	st, err := e.store.Load()
	if err != nil {
		return false, err
	}
	if st == nil || st.Step != models.StepProcessing {
		return false, nil
	}
	if st.Paused || e.paused.Load() {
		return false, nil
	}

	if st.Exhausted() {
		return false, e.complete(ctx, st)
	}

	idx := st.Cursor

	// Duplicate-send guard. A reload between the outcome record and the
	// cursor advance leaves a processed entry behind at the current index;
	// re-entry must advance without re-sending.
	if st.AlreadyProcessed(idx) {
		e.logger.Warn().
			Int("cursor", idx).
			Msg("Outcome already recorded for cursor, advancing without re-sending")
		st.Cursor++
		st.GeneratedMessage = ""
		st.GeneratedInterests = ""
		st.LastKnownCanonicalURL = ""
		if err := e.store.Save(st); err != nil {
			return false, err
		}
		if st.Exhausted() {
			return false, e.complete(ctx, st)
		}
		return true, nil
	}

	if err := e.processProfile(ctx, st); err != nil {
		return false, err
	}

	if st.Exhausted() {
		return false, e.complete(ctx, st)
	}
	return true, nil
}

// processProfile walks one profile through the sub-state pipeline. Every
// exit path records exactly one outcome and advances the cursor by one.
func (e *Engine) processProfile(ctx context.Context, st *models.WorkflowState) error {
	idx := st.Cursor
	profile := &st.Queue[idx]
	log := e.logger.With().Int("cursor", idx).Str("profile", profile.CanonicalURL).Logger()

	// Navigating. The snapshot is persisted before the navigation because
	// the page context does not survive it.
	st.SubState = models.SubNavigating
	st.SetStatus(idx, "Opening profile", "→", "neutral")
	if err := e.store.Save(st); err != nil {
		return err
	}

	if err := e.driver.Navigate(ctx, profile.TargetURL()); err != nil {
		log.Warn().Err(err).Msg("Navigation failed")
		return e.finishProfile(ctx, st, models.ProcessedEntry{
			Index:   idx,
			Outcome: models.OutcomeFailed,
			Error:   "navigation failed: " + err.Error(),
		})
	}

	if e.pauseRequested(st) {
		return e.store.Save(st)
	}

	// Locating the action menu. NotFound after the probe's retry budget is a
	// skip, not a retry of the same profile.
	st.SubState = models.SubLocatingActionMenu
	st.SetStatus(idx, "Locating action menu", "🔍", "neutral")
	if !e.driver.OpenActionMenu(ctx) {
		log.Info().Msg("Action menu not found, skipping profile")
		return e.finishProfile(ctx, st, models.ProcessedEntry{
			Index:   idx,
			Outcome: models.OutcomeFailed,
			Error:   "action menu not found",
		})
	}

	if e.pauseRequested(st) {
		return e.store.Save(st)
	}

	// Capturing identity. The initiating URL may be an alias; the canonical
	// URL from page content is what downstream storage needs. Failure
	// degrades confidence but does not skip the profile.
	st.SubState = models.SubCapturingIdentity
	degradedNote := ""
	canonical, ok := e.driver.CaptureIdentity(ctx)
	if ok {
		st.LastKnownCanonicalURL = canonical
	} else {
		canonical = profile.CanonicalURL
		degradedNote = "identity unverified"
		log.Warn().Msg("Canonical identity not captured, proceeding with collected URL")
	}

	// Generating the message. The generator owns its fallback; the result is
	// never empty.
	st.SubState = models.SubGeneratingMessage
	st.SetStatus(idx, "Generating message", "✎", "neutral")
	result := e.gen.Generate(ctx, st.PromptText, profile, canonical)
	st.GeneratedMessage = result.Message
	st.GeneratedInterests = result.Interests
	if err := e.store.Save(st); err != nil {
		return err
	}

	if e.pauseRequested(st) {
		return e.store.Save(st)
	}

	// Filling. A missing compose surface is the same class of skip as a
	// missing action menu.
	st.SubState = models.SubFillingMessage
	st.SetStatus(idx, "Writing message", "⌨", "neutral")
	if !e.driver.FillMessage(ctx, st.GeneratedMessage) {
		log.Info().Msg("Message input not found, skipping profile")
		return e.finishProfile(ctx, st, models.ProcessedEntry{
			Index:   idx,
			Outcome: models.OutcomeFailed,
			Error:   "message input not found",
			Note:    degradedNote,
		})
	}

	if e.pauseRequested(st) {
		return e.store.Save(st)
	}

	// Sending. Ambiguous outcomes are recorded as success-assumed with an
	// annotation; silence would under-report, a retry could double-send.
	st.SubState = models.SubSending
	st.SetStatus(idx, "Sending", "✈", "neutral")
	entry := models.ProcessedEntry{
		Index:   idx,
		Message: st.GeneratedMessage,
		Note:    degradedNote,
	}
	switch e.driver.Send(ctx) {
	case SendConfirmed:
		entry.Outcome = models.OutcomeSent
	case SendAmbiguous:
		entry.Outcome = models.OutcomePossiblySent
		entry.Note = joinNote(entry.Note, "possibly sent: no confirmation within timeout")
	default:
		entry.Outcome = models.OutcomeFailed
		entry.Error = "send control not found or rejected"
	}

	return e.finishProfile(ctx, st, entry)
}

// finishProfile is the Recording sub-state: it runs regardless of outcome.
// The outcome entry and counters are persisted before the external record
// call and before the cursor advance, so a crash at any point leaves a
// snapshot the duplicate-send guard can act on.
func (e *Engine) finishProfile(ctx context.Context, st *models.WorkflowState, entry models.ProcessedEntry) error {
	idx := entry.Index
	profile := &st.Queue[idx]
	entry.Profile = *profile
	entry.FinishedAt = time.Now()

	st.SubState = models.SubRecording
	st.RecordOutcome(entry)
	switch entry.Outcome {
	case models.OutcomeSent:
		st.SetStatus(idx, "Sent", "✓", "green")
	case models.OutcomePossiblySent:
		st.SetStatus(idx, "Possibly sent", "?", "yellow")
	default:
		st.SetStatus(idx, "Failed: "+entry.Error, "✗", "red")
	}
	if err := e.store.Save(st); err != nil {
		return err
	}

	// External record. Invoked at most once per profile; failures are
	// logged and never block the cursor.
	canonical := st.LastKnownCanonicalURL
	if canonical == "" {
		canonical = profile.CanonicalURL
	}
	receipt, err := e.recorder.Save(ctx, leadstore.Record{
		Name:         profile.Name,
		CanonicalURL: canonical,
		LeadURL:      profile.LeadURL,
		Title:        profile.Title,
		Company:      profile.Company,
		Prompt:       st.PromptText,
		Message:      entry.Message,
		OutcomeNote:  string(entry.Outcome) + noteSuffix(entry),
		Interests:    st.GeneratedInterests,
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("profile", profile.CanonicalURL).Msg("Lead store record failed")
	} else {
		profile.RemoteProfileID = receipt.RemoteProfileID
		profile.ConnectionRequestID = receipt.ConnectionRequestID
		profile.MessageID = receipt.MessageID
		profile.PromptID = receipt.PromptID
	}

	st.Cursor++
	st.GeneratedMessage = ""
	st.GeneratedInterests = ""
	st.LastKnownCanonicalURL = ""
	st.SubState = models.SubNavigating

	e.notifier.Notify("status_update", map[string]any{
		"campaign": st.CampaignID,
		"cursor":   st.Cursor,
		"outcome":  entry.Outcome,
	})

	return e.store.Save(st)
}

// complete archives the durable counters, clears the snapshot, and returns
// the browser to the collection start page for the next batch.
func (e *Engine) complete(ctx context.Context, st *models.WorkflowState) error {
	st.Step = models.StepCompleted
	st.Running = false
	if err := e.store.Save(st); err != nil {
		return err
	}

	e.logger.Info().
		Str("campaign", st.CampaignID).
		Int("sent", st.SentCount).
		Int("failed", st.FailedCount).
		Msg("Campaign completed")

	// Counters outlive the snapshot; archive before clearing.
	if err := e.archive.ArchiveCampaign(st.CampaignID, st.SentCount, st.FailedCount, st.Processed); err != nil {
		e.logger.Error().Err(err).Msg("Failed to archive campaign")
	}

	if err := e.store.Clear(); err != nil {
		return err
	}

	e.notifier.Notify("campaign_completed", map[string]any{
		"campaign": st.CampaignID,
		"sent":     st.SentCount,
		"failed":   st.FailedCount,
	})

	if e.startURL != "" {
		if !e.sleepUnlessPaused(ctx, e.pacer.CompletionDelay()) {
			return nil
		}
		if err := e.driver.Navigate(ctx, e.startURL); err != nil {
			e.logger.Warn().Err(err).Msg("Failed to return to start page")
		}
	}

	return nil
}

// pauseRequested checks the orthogonal paused flag at a suspension point and
// records it on the snapshot when set
func (e *Engine) pauseRequested(st *models.WorkflowState) bool {
	if !e.paused.Load() {
		return false
	}
	st.Paused = true
	st.Running = false
	return true
}

// sleepUnlessPaused waits for d, returning false if the wait was cancelled
// by a pause or context cancellation
func (e *Engine) sleepUnlessPaused(ctx context.Context, d time.Duration) bool {
	const slice = 100 * time.Millisecond

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if e.paused.Load() {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(slice):
		}
	}
	return !e.paused.Load()
}

func joinNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}

func noteSuffix(entry models.ProcessedEntry) string {
	if entry.Note == "" {
		return ""
	}
	return " (" + entry.Note + ")"
}
