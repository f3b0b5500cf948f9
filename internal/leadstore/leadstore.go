// Package leadstore records processed profiles with the external
// message/profile-store collaborator.
//
// Recording failures are logged, never retried, and never block cursor
// advancement; the collaborator's own durability is its concern.
package leadstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"linkedin-outreach/internal/config"
	"linkedin-outreach/internal/models"
)

// Record is what gets persisted per processed profile
type Record struct {
	Name         string `json:"name"`
	CanonicalURL string `json:"canonicalUrl"`
	LeadURL      string `json:"leadUrl,omitempty"`
	Title        string `json:"title,omitempty"`
	Company      string `json:"company,omitempty"`
	Prompt       string `json:"prompt"`
	Message      string `json:"message"`
	OutcomeNote  string `json:"outcomeNote,omitempty"`
	Interests    string `json:"interests,omitempty"`
}

// Receipt holds the identifiers the collaborator returns
type Receipt struct {
	RemoteProfileID     string `json:"remoteProfileId"`
	ConnectionRequestID string `json:"connectionRequestId"`
	MessageID           string `json:"messageId,omitempty"`
	PromptID            string `json:"promptId,omitempty"`
}

// Client talks to the lead store endpoint
type Client struct {
	endpoint  string
	authToken string
	client    *http.Client
	logger    zerolog.Logger
}

// New creates a lead store client. An empty endpoint disables recording; Save
// then returns an empty receipt without error so the pipeline is unaffected.
func New(cfg *config.LeadStoreConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint:  cfg.Endpoint,
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With().Str("component", "leadstore").Logger(),
	}
}

// Save persists one processed profile. Invoked at most once per profile per
// pipeline pass; there is deliberately no retry loop here.
func (c *Client) Save(ctx context.Context, rec Record) (Receipt, error) {
	if c.endpoint == "" {
		return Receipt{}, nil
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return Receipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Receipt{}, fmt.Errorf("%w: status %d", models.ErrTransport, resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return Receipt{}, fmt.Errorf("malformed response: %w", err)
	}

	return receipt, nil
}
