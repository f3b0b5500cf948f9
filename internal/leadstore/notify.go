// Package leadstore - fire-and-forget notification channel
package leadstore

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"linkedin-outreach/internal/config"
)

// Notifier sends one-way status messages to other components. No
// acknowledgment is expected and delivery failure is silently ignored since
// the consumer may not exist.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// NewNotifier creates a notifier; an empty endpoint makes every send a no-op
func NewNotifier(cfg *config.NotifyConfig, logger zerolog.Logger) *Notifier {
	return &Notifier{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: 3 * time.Second},
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// Notify fires an event with an arbitrary payload and returns immediately
func (n *Notifier) Notify(event string, payload any) {
	if n.endpoint == "" {
		return
	}

	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return
	}

	go func() {
		resp, err := n.client.Post(n.endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			n.logger.Debug().Err(err).Str("event", event).Msg("Notification dropped")
			return
		}
		resp.Body.Close()
	}()
}
