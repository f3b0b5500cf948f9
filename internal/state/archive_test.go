package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-outreach/internal/models"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "outreach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func entriesFor(campaign string) []models.ProcessedEntry {
	now := time.Now()
	return []models.ProcessedEntry{
		{
			Index: 0,
			Profile: models.Profile{
				Name:         "Jane Doe",
				CanonicalURL: "https://www.linkedin.com/in/janedoe",
			},
			Outcome:    models.OutcomeSent,
			Message:    "Hi Jane",
			FinishedAt: now.Add(-time.Minute),
		},
		{
			Index: 1,
			Profile: models.Profile{
				Name:         "John Roe",
				CanonicalURL: "https://www.linkedin.com/in/johnroe",
			},
			Outcome:    models.OutcomeFailed,
			Error:      "action menu not found",
			FinishedAt: now,
		},
	}
}

func TestArchiveCampaignAndTotals(t *testing.T) {
	a := newTestArchive(t)

	require.NoError(t, a.ArchiveCampaign("c1", 1, 1, entriesFor("c1")))
	require.NoError(t, a.ArchiveCampaign("c2", 3, 0, nil))

	sent, failed, err := a.Totals()
	require.NoError(t, err)
	assert.Equal(t, 4, sent)
	assert.Equal(t, 1, failed)

	count, err := a.CampaignCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestArchiveCampaignIdempotentTotals(t *testing.T) {
	a := newTestArchive(t)

	require.NoError(t, a.ArchiveCampaign("c1", 2, 1, nil))
	// A retried archive for the same campaign replaces, never doubles
	require.NoError(t, a.ArchiveCampaign("c1", 2, 1, nil))

	sent, failed, err := a.Totals()
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)

	count, err := a.CampaignCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTotalsEmptyArchive(t *testing.T) {
	a := newTestArchive(t)

	sent, failed, err := a.Totals()
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}

func TestRecentOutcomes(t *testing.T) {
	a := newTestArchive(t)
	require.NoError(t, a.ArchiveCampaign("c1", 1, 1, entriesFor("c1")))

	entries, err := a.RecentOutcomes(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recent first
	assert.Equal(t, "John Roe", entries[0].Profile.Name)
	assert.Equal(t, models.OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, "action menu not found", entries[0].Error)
	assert.Equal(t, "Jane Doe", entries[1].Profile.Name)
	assert.Equal(t, "Hi Jane", entries[1].Message)

	limited, err := a.RecentOutcomes(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
