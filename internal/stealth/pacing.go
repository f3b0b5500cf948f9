// Package stealth provides human-pacing delays for browser interactions.
// Delay ranges are rate-limiting heuristics, not deadlines; every value comes
// from configuration rather than embedded constants.
package stealth

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"linkedin-outreach/internal/config"
)

// Pacer produces the delays the workflow and action primitives use
type Pacer struct {
	config *config.PacingConfig
	logger zerolog.Logger
}

// NewPacer creates a pacer from the pacing config section
func NewPacer(cfg *config.PacingConfig, logger zerolog.Logger) *Pacer {
	return &Pacer{
		config: cfg,
		logger: logger.With().Str("component", "pacing").Logger(),
	}
}

// InterProfileDelay returns the randomized delay between profiles. The
// distribution is normal around the configured midpoint, clamped to bounds,
// which reads less mechanical than a uniform draw.
func (p *Pacer) InterProfileDelay() time.Duration {
	minSec := p.config.InterProfileMinSec
	maxSec := p.config.InterProfileMaxSec
	if minSec >= maxSec {
		return time.Duration(minSec) * time.Second
	}

	mean := float64(minSec+maxSec) / 2
	stdDev := float64(maxSec-minSec) / 4
	sec := normalRandom(mean, stdDev)

	if sec < float64(minSec) {
		sec = float64(minSec)
	}
	if sec > float64(maxSec) {
		sec = float64(maxSec)
	}

	return time.Duration(sec * float64(time.Second))
}

// SettleDelay is the fixed pause after filling a message before sending
func (p *Pacer) SettleDelay() time.Duration {
	return time.Duration(p.config.SettleDelayMs) * time.Millisecond
}

// CompletionDelay is the pause before navigating back after a finished batch
func (p *Pacer) CompletionDelay() time.Duration {
	return time.Duration(p.config.CompletionDelaySec) * time.Second
}

// PageLoadTimeout bounds waiting for document readiness
func (p *Pacer) PageLoadTimeout() time.Duration {
	return time.Duration(p.config.PageLoadTimeoutSec) * time.Second
}

// SendVerifyTimeout bounds polling for a send confirmation signal
func (p *Pacer) SendVerifyTimeout() time.Duration {
	return time.Duration(p.config.SendVerifyTimeoutSec) * time.Second
}

// WordDelays splits the configured total typing duration across the words of
// a message, with per-word jitter that preserves the total. Total typing time
// stays roughly constant regardless of message length.
func (p *Pacer) WordDelays(wordCount int) []time.Duration {
	if wordCount <= 0 {
		return nil
	}

	total := time.Duration(p.config.TypingTotalMs) * time.Millisecond
	base := total / time.Duration(wordCount)

	delays := make([]time.Duration, wordCount)
	var sum time.Duration
	for i := range delays {
		jitter := 1 + (rand.Float64()*2-1)*0.4
		delays[i] = time.Duration(float64(base) * jitter)
		sum += delays[i]
	}

	// Rescale so the jittered delays still sum to the configured total
	if sum > 0 {
		scale := float64(total) / float64(sum)
		for i := range delays {
			delays[i] = time.Duration(float64(delays[i]) * scale)
		}
	}
	return delays
}

// ShortDelay adds a brief pause (100-500ms) after clicks
func (p *Pacer) ShortDelay() time.Duration {
	return time.Duration(100+rand.Intn(400)) * time.Millisecond
}

// normalRandom generates a random number from normal distribution using the
// Box-Muller transform
func normalRandom(mean, stdDev float64) float64 {
	u1 := rand.Float64()
	u2 := rand.Float64()

	for u1 == 0 {
		u1 = rand.Float64()
	}

	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stdDev
}
