package leadstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-outreach/internal/config"
	"linkedin-outreach/internal/models"
)

func sampleRecord() Record {
	return Record{
		Name:         "Jane Doe",
		CanonicalURL: "https://www.linkedin.com/in/janedoe",
		Title:        "Staff Engineer",
		Company:      "Acme",
		Prompt:       "intro",
		Message:      "Hi Jane",
		OutcomeNote:  "sent",
		Interests:    "golang",
	}
}

func TestSaveReturnsReceipt(t *testing.T) {
	var got Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Receipt{
			RemoteProfileID:     "rp-1",
			ConnectionRequestID: "cr-1",
			MessageID:           "m-1",
			PromptID:            "p-1",
		})
	}))
	defer srv.Close()

	c := New(&config.LeadStoreConfig{Endpoint: srv.URL, TimeoutSec: 2, AuthToken: "tok"}, zerolog.Nop())
	receipt, err := c.Save(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "rp-1", receipt.RemoteProfileID)
	assert.Equal(t, "cr-1", receipt.ConnectionRequestID)
	assert.Equal(t, "m-1", receipt.MessageID)
	assert.Equal(t, "p-1", receipt.PromptID)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "sent", got.OutcomeNote)
}

func TestSaveEmptyEndpointIsNoOp(t *testing.T) {
	c := New(&config.LeadStoreConfig{}, zerolog.Nop())
	receipt, err := c.Save(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, Receipt{}, receipt)
}

func TestSaveServerErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(&config.LeadStoreConfig{Endpoint: srv.URL, TimeoutSec: 2}, zerolog.Nop())
	_, err := c.Save(context.Background(), sampleRecord())
	assert.True(t, errors.Is(err, models.ErrTransport))
}

func TestNotifyDeliversEvent(t *testing.T) {
	var mu sync.Mutex
	var received map[string]any
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		json.NewDecoder(r.Body).Decode(&received)
		close(done)
	}))
	defer srv.Close()

	n := NewNotifier(&config.NotifyConfig{Endpoint: srv.URL}, zerolog.Nop())
	n.Notify("campaign_completed", map[string]any{"sent": 2})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never arrived")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "campaign_completed", received["event"])
}

func TestNotifyEmptyEndpointDoesNothing(t *testing.T) {
	n := NewNotifier(&config.NotifyConfig{}, zerolog.Nop())
	// Must not panic or block
	n.Notify("status_update", nil)
}
