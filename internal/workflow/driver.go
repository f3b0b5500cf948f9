// Package workflow - page driver
package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"linkedin-outreach/internal/actions"
	"linkedin-outreach/internal/browser"
	"linkedin-outreach/internal/models"
	"linkedin-outreach/internal/probe"
	"linkedin-outreach/internal/stealth"
)

// SendResult classifies a submit attempt
type SendResult int

const (
	// SendFailed means the submit control was never located or clicked
	SendFailed SendResult = iota
	// SendConfirmed means a success signal was observed within the window
	SendConfirmed
	// SendAmbiguous means neither success nor failure was observed in time.
	// Policy: treated as success with a degraded-confidence annotation.
	SendAmbiguous
)

// Driver is the engine's view of the live page. The rod-backed implementation
// drives a real browser; tests substitute a scripted fake.
type Driver interface {
	// Navigate opens the URL and waits for the document to settle
	Navigate(ctx context.Context, url string) error
	// OpenActionMenu locates and opens the per-profile connect flow; false is
	// the NotFound outcome
	OpenActionMenu(ctx context.Context) bool
	// CaptureIdentity resolves the canonical profile URL from page content
	CaptureIdentity(ctx context.Context) (string, bool)
	// FillMessage locates the compose surface and types the message
	FillMessage(ctx context.Context, message string) bool
	// Send submits the invite and verifies the outcome
	Send(ctx context.Context) SendResult
}

// PageDriver implements Driver on a rod browser
type PageDriver struct {
	browser *browser.Browser
	prober  *probe.Prober
	actions *actions.Actions
	pacer   *stealth.Pacer
	logger  zerolog.Logger
}

// NewPageDriver wires the driver from its building blocks
func NewPageDriver(b *browser.Browser, p *probe.Prober, a *actions.Actions, pacer *stealth.Pacer, logger zerolog.Logger) *PageDriver {
	return &PageDriver{
		browser: b,
		prober:  p,
		actions: a,
		pacer:   pacer,
		logger:  logger.With().Str("component", "driver").Logger(),
	}
}

// Navigate opens the profile URL and blocks until the document settles or
// the page-load timeout elapses. A slow settle is not fatal; later probes
// carry their own retries.
func (d *PageDriver) Navigate(ctx context.Context, url string) error {
	page, err := d.browser.GetPage()
	if err != nil {
		return err
	}

	if err := d.browser.Navigate(page, url); err != nil {
		return err
	}

	if !d.actions.WaitForDocumentSettled(page, d.pacer.PageLoadTimeout()) {
		d.logger.Warn().Str("url", url).Msg("Page did not settle, probing anyway")
	}

	return nil
}

// OpenActionMenu finds the connect action, going through the overflow menu
// when the top card hides it, and switches the invite modal to the note
// compose view. Returns false only after every shape has been exhausted.
func (d *PageDriver) OpenActionMenu(ctx context.Context) bool {
	page, err := d.browser.GetPage()
	if err != nil {
		return false
	}

	visible := probe.Constraints{Visible: true, Enabled: true}

	if el, ok := d.prober.Locate(page, ConnectControl, visible); ok {
		if !d.actions.ClickWhenReady(el) {
			return false
		}
	} else {
		// The connect action may live in the overflow menu
		more, ok := d.prober.Locate(page, MoreActionsControl, visible)
		if !ok {
			return false
		}
		if !d.actions.ClickWhenReady(more) {
			return false
		}

		item, ok := d.prober.Locate(page, OverflowConnectControl, visible)
		if !ok {
			return false
		}
		if !d.actions.ClickWhenReady(item) {
			return false
		}
	}

	// The invite modal opens on a note-less view; switching to the compose
	// view is optional (some accounts get the textarea directly).
	if note, ok := d.prober.Locate(page, AddNoteControl, visible); ok {
		d.actions.ClickWhenReady(note)
	}

	return true
}

// CaptureIdentity reads the canonical profile URL from page content. The
// initiating URL may be a lead-platform alias, so an in-page profile link is
// the authority. Failure is tolerated; the caller proceeds with degraded
// confidence.
func (d *PageDriver) CaptureIdentity(ctx context.Context) (string, bool) {
	page, err := d.browser.GetPage()
	if err != nil {
		return "", false
	}

	if el, ok := d.prober.Locate(page, IdentityAnchor, probe.Constraints{}); ok {
		if href, err := el.Attribute("href"); err == nil && href != nil {
			if canonical := models.NormalizeProfileURL(*href); canonical != "" {
				return canonical, true
			}
		}
	}

	// Fall back to the address bar, which is canonical on public profile pages
	if canonical := models.NormalizeProfileURL(d.browser.CurrentURL(page)); canonical != "" {
		return canonical, true
	}

	return "", false
}

// FillMessage locates the compose surface and types the message with human
// pacing, then waits the configured settle delay. The settle delay is
// deliberate rate limiting, not slack.
func (d *PageDriver) FillMessage(ctx context.Context, message string) bool {
	page, err := d.browser.GetPage()
	if err != nil {
		return false
	}

	input, ok := d.prober.Locate(page, MessageInput, probe.Constraints{Visible: true, Enabled: true})
	if !ok {
		return false
	}

	if !d.actions.TypeWithHumanDelay(input, message) {
		return false
	}

	time.Sleep(d.pacer.SettleDelay())
	return true
}

// Send clicks the submit control and verifies by polling for a success
// indicator or the disappearance of the compose surface, bounded by the
// verify timeout. Neither signal within the window is SendAmbiguous.
func (d *PageDriver) Send(ctx context.Context) SendResult {
	page, err := d.browser.GetPage()
	if err != nil {
		return SendFailed
	}

	submit, ok := d.prober.Locate(page, SendControl, probe.Constraints{Visible: true, Enabled: true})
	if !ok {
		return SendFailed
	}

	if !d.actions.ClickWhenReady(submit) {
		return SendFailed
	}

	deadline := time.Now().Add(d.pacer.SendVerifyTimeout())
	for time.Now().Before(deadline) {
		if _, ok := d.prober.LocateNow(page, SentIndicator, probe.Constraints{}); ok {
			return SendConfirmed
		}
		if _, ok := d.prober.LocateNow(page, ComposeSurface, probe.Constraints{Visible: true}); !ok {
			// Compose surface gone without an error state reads as success
			return SendConfirmed
		}
		time.Sleep(300 * time.Millisecond)
	}

	return SendAmbiguous
}
