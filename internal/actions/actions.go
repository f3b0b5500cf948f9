// Package actions provides the atomic DOM interaction primitives the
// workflow engine sequences: click, type-with-delay, wait-for-readiness.
//
// All primitives are side-effecting and best-effort. None of them treats a
// UI-shape mismatch as an error; each returns a success indicator so the
// engine can branch. A true result from ClickWhenReady means "the click was
// dispatched", not "the expected state change happened"; callers verify the
// side effect separately.
package actions

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"linkedin-outreach/internal/stealth"
)

// Actions bundles the primitives with their pacing source
type Actions struct {
	pacer  *stealth.Pacer
	logger zerolog.Logger
}

// New creates the action primitive set
func New(pacer *stealth.Pacer, logger zerolog.Logger) *Actions {
	return &Actions{
		pacer:  pacer,
		logger: logger.With().Str("component", "actions").Logger(),
	}
}

// ClickWhenReady scrolls the element into view, clicks it, and waits a short
// settle delay. Falls back to a synthetic DOM click when the pointer click is
// rejected (overlays, moving targets).
func (a *Actions) ClickWhenReady(el *rod.Element) bool {
	if err := el.ScrollIntoView(); err != nil {
		a.logger.Debug().Err(err).Msg("ScrollIntoView failed, clicking anyway")
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		a.logger.Debug().Err(err).Msg("Pointer click failed, trying DOM click")
		if _, err := el.Eval(`() => this.click()`); err != nil {
			a.logger.Warn().Err(err).Msg("Click failed")
			return false
		}
	}

	time.Sleep(a.pacer.ShortDelay())
	return true
}

// TypeWithHumanDelay appends text word by word, pacing the fragments so the
// total typing time stays roughly constant regardless of message length.
// Editable regions (chat composers) and form fields get different low-level
// write strategies behind the same contract.
func (a *Actions) TypeWithHumanDelay(el *rod.Element, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if err := el.Focus(); err != nil {
		a.logger.Warn().Err(err).Msg("Focus failed")
		return false
	}

	editable := isEditableRegion(el)
	words := strings.Fields(text)
	delays := a.pacer.WordDelays(len(words))

	for i, word := range words {
		fragment := word
		if i < len(words)-1 {
			fragment += " "
		}

		if err := a.writeFragment(el, fragment, editable); err != nil {
			a.logger.Warn().Err(err).Int("word", i).Msg("Write fragment failed")
			return false
		}

		time.Sleep(delays[i])
	}

	return true
}

// WaitForDocumentSettled resolves when the page readiness signal reaches
// "complete" or the timeout elapses, whichever first. Never blocks
// indefinitely.
func (a *Actions) WaitForDocumentSettled(page *rod.Page, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		state, err := page.Eval(`() => document.readyState`)
		if err == nil && state.Value.Str() == "complete" {
			// Let late DOM churn settle before callers start probing
			page.WaitDOMStable(time.Second, 0.1)
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}

	a.logger.Debug().Dur("timeout", timeout).Msg("Document did not settle in time")
	return false
}

// writeFragment appends one fragment using the strategy the target shape
// needs, then dispatches the events the host framework listens for.
func (a *Actions) writeFragment(el *rod.Element, fragment string, editable bool) error {
	if editable {
		// Contenteditable composers ignore value writes; append text nodes
		// and raise an InputEvent so the framework notices.
		_, err := el.Eval(`(text) => {
			this.focus();
			const sel = window.getSelection();
			sel.selectAllChildren(this);
			sel.collapseToEnd();
			document.execCommand('insertText', false, text);
			this.dispatchEvent(new InputEvent('input', { bubbles: true, data: text }));
		}`, fragment)
		return err
	}

	// Form fields take appended input directly; Input dispatches the
	// input/change events itself.
	return el.Input(fragment)
}

// isEditableRegion reports whether the element is a contenteditable region
// rather than an input/textarea
func isEditableRegion(el *rod.Element) bool {
	if v, err := el.Attribute("contenteditable"); err == nil && v != nil && *v != "false" {
		return true
	}
	if v, err := el.Attribute("role"); err == nil && v != nil && *v == "textbox" {
		// role=textbox divs are the chat composer shape
		if desc, err := el.Describe(1, false); err == nil {
			tag := strings.ToLower(desc.LocalName)
			return tag != "input" && tag != "textarea"
		}
		return true
	}
	return false
}
