package probe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-outreach/internal/config"
)

type fakeNode struct {
	text    string
	visible bool
	enabled bool
}

func (n fakeNode) Text() string  { return n.text }
func (n fakeNode) Visible() bool { return n.visible }
func (n fakeNode) Enabled() bool { return n.enabled }

type fakeQuerier map[string][]node

func (q fakeQuerier) Candidates(selector string) []node { return q[selector] }

func descriptors() []Descriptor {
	return []Descriptor{
		{Selector: "button.new-shape", Note: "newest"},
		{Selector: "button.old-shape", Note: "legacy"},
	}
}

func TestMatchOnceOrderedFirstMatchWins(t *testing.T) {
	q := fakeQuerier{
		"button.new-shape": {fakeNode{text: "Connect", visible: true, enabled: true}},
		"button.old-shape": {fakeNode{text: "Connect", visible: true, enabled: true}},
	}

	_, d, ok := matchOnce(q, descriptors(), Constraints{})
	require.True(t, ok)
	assert.Equal(t, "newest", d.Note)
}

func TestMatchOnceFallsThroughToLegacyShape(t *testing.T) {
	q := fakeQuerier{
		"button.old-shape": {fakeNode{text: "Connect", visible: true, enabled: true}},
	}

	_, d, ok := matchOnce(q, descriptors(), Constraints{})
	require.True(t, ok)
	assert.Equal(t, "legacy", d.Note)
}

func TestMatchOnceSiblingTextDisambiguates(t *testing.T) {
	descs := []Descriptor{{Selector: "button", SiblingText: "Connect"}}
	q := fakeQuerier{
		"button": {
			fakeNode{text: "Follow", visible: true, enabled: true},
			fakeNode{text: "Connect", visible: true, enabled: true},
		},
	}

	n, _, ok := matchOnce(q, descs, Constraints{})
	require.True(t, ok)
	assert.Equal(t, "Connect", n.Text())
}

func TestMatchOnceSiblingTextCaseInsensitive(t *testing.T) {
	descs := []Descriptor{{Selector: "button", SiblingText: "connect"}}
	q := fakeQuerier{
		"button": {fakeNode{text: "CONNECT with Jane", visible: true, enabled: true}},
	}

	_, _, ok := matchOnce(q, descs, Constraints{})
	assert.True(t, ok)
}

func TestMatchOnceConstraints(t *testing.T) {
	hidden := fakeNode{text: "Connect", visible: false, enabled: true}
	disabled := fakeNode{text: "Connect", visible: true, enabled: false}
	good := fakeNode{text: "Connect", visible: true, enabled: true}

	q := fakeQuerier{"button": {hidden, disabled, good}}
	descs := []Descriptor{{Selector: "button"}}

	n, _, ok := matchOnce(q, descs, Constraints{Visible: true, Enabled: true})
	require.True(t, ok)
	assert.Equal(t, good, n)

	q = fakeQuerier{"button": {hidden, disabled}}
	_, _, ok = matchOnce(q, descs, Constraints{Visible: true, Enabled: true})
	assert.False(t, ok)
}

func TestMatchOnceTextContains(t *testing.T) {
	q := fakeQuerier{
		"span": {
			fakeNode{text: "Pending", visible: true, enabled: true},
			fakeNode{text: "Invitation sent", visible: true, enabled: true},
		},
	}
	descs := []Descriptor{{Selector: "span"}}

	n, _, ok := matchOnce(q, descs, Constraints{TextContains: "invitation sent"})
	require.True(t, ok)
	assert.Equal(t, "Invitation sent", n.Text())
}

func TestMatchOnceNothingMatches(t *testing.T) {
	_, _, ok := matchOnce(fakeQuerier{}, descriptors(), Constraints{})
	assert.False(t, ok)
}

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(&config.ProbeConfig{Attempts: 5, IntervalMs: 250, JitterPercent: 0.3})
	assert.Equal(t, 5, p.Attempts)
	assert.Equal(t, 250*time.Millisecond, p.Interval)
	assert.Equal(t, 0.3, p.Jitter)
}
