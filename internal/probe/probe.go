// Package probe locates elements in a live, externally-controlled document.
//
// The host UI has no stable contract: the "same" control exists in several
// structural variants depending on layout generation and experiment bucket.
// A probe therefore takes an ordered list of candidate descriptors (newest
// shape first) and polls the live document with a bounded retry policy.
// Not finding anything is a normal outcome, not an error.
package probe

import (
	"math/rand"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"linkedin-outreach/internal/config"
)

// Descriptor is one candidate shape for a target element. Descriptors are
// evaluated in order; the first structural match wins. SiblingText, when set,
// requires the element (or a descendant) to carry that text, which
// disambiguates generic containers.
type Descriptor struct {
	Selector    string
	SiblingText string
	Note        string // which UI generation this shape belongs to
}

// Constraints filter matched elements beyond structure
type Constraints struct {
	Visible      bool
	Enabled      bool
	TextContains string
}

// RetryPolicy bounds the polling loop. It is passed in explicitly so timing
// behavior is a testable parameter.
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
	Jitter   float64 // fraction of Interval, 0..1
}

// PolicyFromConfig builds a RetryPolicy from the probe config section
func PolicyFromConfig(cfg *config.ProbeConfig) RetryPolicy {
	return RetryPolicy{
		Attempts: cfg.Attempts,
		Interval: time.Duration(cfg.IntervalMs) * time.Millisecond,
		Jitter:   cfg.JitterPercent,
	}
}

// wait sleeps one polling interval with jitter applied
func (r RetryPolicy) wait() {
	d := r.Interval
	if r.Jitter > 0 {
		spread := float64(d) * r.Jitter
		d += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	if d > 0 {
		time.Sleep(d)
	}
}

// node is the slice of element behavior the match loop needs. The rod-backed
// implementation wraps *rod.Element; tests substitute fakes.
type node interface {
	Text() string
	Visible() bool
	Enabled() bool
}

// querier abstracts the live document for one polling attempt
type querier interface {
	Candidates(selector string) []node
}

// Prober polls a page for elements matching candidate descriptors
type Prober struct {
	policy RetryPolicy
	logger zerolog.Logger
}

// New creates a Prober with the given retry policy
func New(policy RetryPolicy, logger zerolog.Logger) *Prober {
	return &Prober{
		policy: policy,
		logger: logger.With().Str("component", "probe").Logger(),
	}
}

// Locate polls the page for the first descriptor that yields an element
// passing the constraints. The boolean result is false after exhausting the
// retry budget; callers must have an explicit fallback path for that case.
// Each attempt re-queries the live document, since the host page may replace
// nodes between attempts.
func (p *Prober) Locate(page *rod.Page, descriptors []Descriptor, c Constraints) (*rod.Element, bool) {
	attempts := p.policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			p.policy.wait()
		}

		q := &rodQuerier{page: page}
		if n, d, ok := matchOnce(q, descriptors, c); ok {
			p.logger.Debug().
				Str("selector", d.Selector).
				Str("shape", d.Note).
				Int("attempt", attempt+1).
				Msg("Element located")
			return n.(*rodNode).el, true
		}
	}

	p.logger.Debug().
		Int("attempts", attempts).
		Int("descriptors", len(descriptors)).
		Msg("Element not found")
	return nil, false
}

// LocateNow runs a single non-waiting pass, for callers that poll on their
// own schedule (the collection engine's rescan loop).
func (p *Prober) LocateNow(page *rod.Page, descriptors []Descriptor, c Constraints) (*rod.Element, bool) {
	q := &rodQuerier{page: page}
	if n, _, ok := matchOnce(q, descriptors, c); ok {
		return n.(*rodNode).el, true
	}
	return nil, false
}

// matchOnce evaluates descriptors in order against a single snapshot of the
// document and returns the first candidate passing the constraints, along
// with the descriptor that produced it.
func matchOnce(q querier, descriptors []Descriptor, c Constraints) (node, Descriptor, bool) {
	for _, d := range descriptors {
		for _, n := range q.Candidates(d.Selector) {
			if d.SiblingText != "" && !containsFold(n.Text(), d.SiblingText) {
				continue
			}
			if c.TextContains != "" && !containsFold(n.Text(), c.TextContains) {
				continue
			}
			if c.Visible && !n.Visible() {
				continue
			}
			if c.Enabled && !n.Enabled() {
				continue
			}
			return n, d, true
		}
	}
	return nil, Descriptor{}, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
