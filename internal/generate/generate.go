// Package generate produces the personalized outreach message for a profile.
//
// The primary path is an external generation service. The service is treated
// as fallible: on transport failure, timeout, or a malformed response the
// generator falls back to a deterministic template built from the profile's
// own fields. The pipeline never blocks on the external dependency and the
// result is never empty.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"linkedin-outreach/internal/config"
	"linkedin-outreach/internal/models"
)

// Result is a generated message plus optional interest highlights
type Result struct {
	Message   string
	Interests string
	Fallback  bool // true when the local template produced the message
}

// Generator calls the message-generation collaborator
type Generator struct {
	endpoint  string
	authToken string
	client    *http.Client
	logger    zerolog.Logger
}

// New creates a generator from config. An empty endpoint is allowed; every
// call then takes the fallback path.
func New(cfg *config.GeneratorConfig, logger zerolog.Logger) *Generator {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Generator{
		endpoint:  cfg.Endpoint,
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With().Str("component", "generate").Logger(),
	}
}

type generateRequest struct {
	Prompt       string `json:"prompt"`
	CanonicalURL string `json:"canonicalUrl"`
}

type generateResponse struct {
	Message   string `json:"message"`
	Interests string `json:"interests,omitempty"`
}

// Generate returns the message for a profile. The fallback template is a hard
// requirement, not an edge case: the returned message is always non-empty.
func (g *Generator) Generate(ctx context.Context, prompt string, profile *models.Profile, canonicalURL string) Result {
	if g.endpoint != "" {
		msg, interests, err := g.callService(ctx, prompt, canonicalURL)
		if err == nil && msg != "" {
			return Result{Message: msg, Interests: interests}
		}
		g.logger.Warn().Err(err).
			Str("profile", profile.CanonicalURL).
			Msg("Generation service failed, using template fallback")
	}

	return Result{Message: FallbackMessage(profile), Fallback: true}
}

func (g *Generator) callService(ctx context.Context, prompt, canonicalURL string) (string, string, error) {
	body, err := json.Marshal(generateRequest{
		Prompt:       prompt,
		CanonicalURL: canonicalURL,
	})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.authToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: status %d", models.ErrTransport, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("malformed response: %w", err)
	}

	return strings.TrimSpace(out.Message), strings.TrimSpace(out.Interests), nil
}

// FallbackMessage builds a deterministic message from the profile's own
// fields. Placeholders with no data collapse cleanly instead of leaving
// dangling prepositions.
func FallbackMessage(p *models.Profile) string {
	msg := "Hi " + p.FirstName() + ", I came across your profile"

	switch {
	case p.Title != "" && p.Company != "":
		msg += fmt.Sprintf(" and your work as %s at %s stood out to me", p.Title, p.Company)
	case p.Title != "":
		msg += fmt.Sprintf(" and your work as %s stood out to me", p.Title)
	case p.Company != "":
		msg += fmt.Sprintf(" and your experience at %s stood out to me", p.Company)
	}

	msg += ". I'd be glad to connect and exchange perspectives."
	return msg
}
