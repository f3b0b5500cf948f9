// Package browser - cookie/session persistence
//
// The workflow assumes an already-authenticated session; login itself is out
// of scope. Cookies saved from a previous run are restored at startup so
// re-entry lands on authenticated pages.
package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// SessionManager handles browser cookie persistence
type SessionManager struct {
	cookiesPath string
	logger      zerolog.Logger
}

// cookieRecord is the serializable cookie shape
type cookieRecord struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// NewSessionManager creates a new session manager
func NewSessionManager(cookiesPath string, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		cookiesPath: cookiesPath,
		logger:      logger.With().Str("component", "session").Logger(),
	}
}

// SaveCookies writes the browser's cookies to disk
func (s *SessionManager) SaveCookies(browser *rod.Browser) error {
	cookies, err := browser.GetCookies()
	if err != nil {
		return fmt.Errorf("failed to get cookies: %w", err)
	}

	records := make([]cookieRecord, len(cookies))
	for i, c := range cookies {
		records[i] = cookieRecord{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: sameSiteName(c.SameSite),
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.cookiesPath), 0755); err != nil {
		return fmt.Errorf("failed to create cookies directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	if err := os.WriteFile(s.cookiesPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookies file: %w", err)
	}

	s.logger.Info().Int("count", len(cookies)).Msg("Cookies saved")
	return nil
}

// LoadCookies restores saved cookies into the browser, skipping expired ones
func (s *SessionManager) LoadCookies(browser *rod.Browser) error {
	data, err := os.ReadFile(s.cookiesPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Msg("No saved cookies found")
			return nil
		}
		return fmt.Errorf("failed to read cookies file: %w", err)
	}

	var records []cookieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse cookies: %w", err)
	}

	now := float64(time.Now().Unix())
	valid := make([]*proto.NetworkCookieParam, 0, len(records))
	for _, c := range records {
		if c.Expires > 0 && c.Expires < now {
			continue
		}
		valid = append(valid, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  proto.TimeSinceEpoch(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: sameSiteValue(c.SameSite),
		})
	}

	if len(valid) > 0 {
		if err := browser.SetCookies(valid); err != nil {
			return fmt.Errorf("failed to set cookies: %w", err)
		}
	}

	s.logger.Info().
		Int("loaded", len(valid)).
		Int("total", len(records)).
		Msg("Cookies loaded")
	return nil
}

// HasSavedSession checks if a saved session exists
func (s *SessionManager) HasSavedSession() bool {
	_, err := os.Stat(s.cookiesPath)
	return err == nil
}

// SessionAge returns how old the saved session is
func (s *SessionManager) SessionAge() (time.Duration, error) {
	info, err := os.Stat(s.cookiesPath)
	if err != nil {
		return 0, err
	}
	return time.Since(info.ModTime()), nil
}

func sameSiteName(v proto.NetworkCookieSameSite) string {
	switch v {
	case proto.NetworkCookieSameSiteStrict:
		return "Strict"
	case proto.NetworkCookieSameSiteNone:
		return "None"
	default:
		return "Lax"
	}
}

func sameSiteValue(name string) proto.NetworkCookieSameSite {
	switch name {
	case "Strict":
		return proto.NetworkCookieSameSiteStrict
	case "None":
		return proto.NetworkCookieSameSiteNone
	default:
		return proto.NetworkCookieSameSiteLax
	}
}
