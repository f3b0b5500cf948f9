package browser

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog"

	"linkedin-outreach/internal/config"
)

// Desktop user agents rotated per launch
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// Browser wraps the rod browser with the settings the workflow needs
type Browser struct {
	browser *rod.Browser
	config  *config.BrowserConfig
	logger  zerolog.Logger
}

// NewBrowser launches a browser with stealth flags applied
func NewBrowser(cfg *config.BrowserConfig, logger zerolog.Logger) (*Browser, error) {
	logger = logger.With().Str("component", "browser").Logger()
	logger.Info().Msg("Initializing browser")

	if cfg.UserDataDir != "" {
		if err := os.MkdirAll(cfg.UserDataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create user data directory: %w", err)
		}
	}

	l := launcher.New()

	if cfg.UserDataDir != "" {
		absPath, err := filepath.Abs(cfg.UserDataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for user data dir: %w", err)
		}
		l = l.UserDataDir(absPath)
	}

	l = l.Headless(cfg.Headless)

	l = l.Set("disable-blink-features", "AutomationControlled")
	l = l.Set("disable-infobars")
	l = l.Set("disable-dev-shm-usage")
	l = l.Set("no-first-run")
	l = l.Set("no-default-browser-check")

	userAgent := userAgents[rand.Intn(len(userAgents))]
	l = l.Set("user-agent", userAgent)
	logger.Debug().Str("userAgent", userAgent).Msg("Set user agent")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	browser = browser.Timeout(30 * time.Second)

	logger.Info().Msg("Browser initialized successfully")

	return &Browser{
		browser: browser,
		config:  cfg,
		logger:  logger,
	}, nil
}

// NewPage creates a new page with stealth settings applied
func (b *Browser) NewPage() (*rod.Page, error) {
	b.logger.Debug().Msg("Creating new page with stealth")

	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  b.config.ViewportWidth,
		Height: b.config.ViewportHeight,
	})
	if err != nil {
		b.logger.Warn().Err(err).Msg("Failed to set viewport")
	}

	return page, nil
}

// GetPage returns an existing page or creates a new one
func (b *Browser) GetPage() (*rod.Page, error) {
	pages, err := b.browser.Pages()
	if err != nil {
		return nil, err
	}

	if len(pages) > 0 {
		return pages[0], nil
	}

	return b.NewPage()
}

// Navigate opens a URL and waits for the page to load and stabilize
func (b *Browser) Navigate(page *rod.Page, url string) error {
	b.logger.Debug().Str("url", url).Msg("Navigating to URL")

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		b.logger.Warn().Err(err).Msg("WaitLoad failed, continuing anyway")
	}

	page.WaitDOMStable(time.Second, 0.1)

	return nil
}

// CurrentURL returns the page's current URL, empty on failure
func (b *Browser) CurrentURL(page *rod.Page) string {
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close closes the browser
func (b *Browser) Close() error {
	b.logger.Info().Msg("Closing browser")
	return b.browser.Close()
}

// Browser returns the underlying rod.Browser
func (b *Browser) Browser() *rod.Browser {
	return b.browser
}
