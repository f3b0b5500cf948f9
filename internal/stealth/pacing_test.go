package stealth

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-outreach/internal/config"
)

func testPacer() *Pacer {
	return NewPacer(&config.PacingConfig{
		TypingTotalMs:        6000,
		SettleDelayMs:        1500,
		InterProfileMinSec:   8,
		InterProfileMaxSec:   25,
		PageLoadTimeoutSec:   20,
		SendVerifyTimeoutSec: 8,
		CompletionDelaySec:   3,
	}, zerolog.Nop())
}

func TestWordDelaysPreserveTotal(t *testing.T) {
	p := testPacer()

	for _, words := range []int{1, 5, 12, 40} {
		delays := p.WordDelays(words)
		require.Len(t, delays, words)

		var sum time.Duration
		for _, d := range delays {
			assert.Greater(t, d, time.Duration(0))
			sum += d
		}

		// Rescaling keeps the sum within rounding error of the configured total
		total := 6 * time.Second
		assert.InDelta(t, float64(total), float64(sum), float64(time.Duration(words)*time.Microsecond)+float64(time.Millisecond))
	}
}

func TestWordDelaysJitterVaries(t *testing.T) {
	p := testPacer()
	delays := p.WordDelays(20)

	uniform := true
	for _, d := range delays[1:] {
		if d != delays[0] {
			uniform = false
			break
		}
	}
	assert.False(t, uniform, "per-word jitter should produce uneven delays")
}

func TestWordDelaysZeroWords(t *testing.T) {
	p := testPacer()
	assert.Nil(t, p.WordDelays(0))
	assert.Nil(t, p.WordDelays(-3))
}

func TestInterProfileDelayWithinBounds(t *testing.T) {
	p := testPacer()
	for i := 0; i < 200; i++ {
		d := p.InterProfileDelay()
		assert.GreaterOrEqual(t, d, 8*time.Second)
		assert.LessOrEqual(t, d, 25*time.Second)
	}
}

func TestInterProfileDelayDegenerateRange(t *testing.T) {
	p := NewPacer(&config.PacingConfig{InterProfileMinSec: 10, InterProfileMaxSec: 10}, zerolog.Nop())
	assert.Equal(t, 10*time.Second, p.InterProfileDelay())
}

func TestFixedDelays(t *testing.T) {
	p := testPacer()
	assert.Equal(t, 1500*time.Millisecond, p.SettleDelay())
	assert.Equal(t, 3*time.Second, p.CompletionDelay())
	assert.Equal(t, 20*time.Second, p.PageLoadTimeout())
	assert.Equal(t, 8*time.Second, p.SendVerifyTimeout())
}

func TestShortDelayRange(t *testing.T) {
	p := testPacer()
	for i := 0; i < 100; i++ {
		d := p.ShortDelay()
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 500*time.Millisecond)
	}
}
