// Package collect scrapes profile candidates from search result pages.
//
// Results render incrementally and reflow while loading, so a page is scanned
// repeatedly at an interval rather than once; each scan emits whatever new
// profiles it can see. Pagination is verified against the page indicator
// number instead of trusting that a click on "next" worked.
package collect

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"linkedin-outreach/internal/browser"
	"linkedin-outreach/internal/config"
	"linkedin-outreach/internal/models"
	"linkedin-outreach/internal/probe"
)

// maxScansPerPage bounds the rescan loop on pages that never go quiet
const maxScansPerPage = 8

// EmitFunc receives each extracted profile. The boolean reports whether the
// profile was new to the queue; duplicates are expected between scans.
type EmitFunc func(models.Profile) (bool, error)

// Collector walks search result pages and feeds profiles to an emit callback
type Collector struct {
	browser *browser.Browser
	prober  *probe.Prober
	cfg     *config.CollectConfig
	logger  zerolog.Logger
	emit    EmitFunc
}

// New creates a Collector
func New(b *browser.Browser, p *probe.Prober, cfg *config.CollectConfig, emit EmitFunc, logger zerolog.Logger) *Collector {
	return &Collector{
		browser: b,
		prober:  p,
		cfg:     cfg,
		logger:  logger.With().Str("component", "collect").Logger(),
		emit:    emit,
	}
}

// Run collects from the configured start URL (or a keyword search) across up
// to MaxPages pages. It returns the number of newly queued profiles.
func (c *Collector) Run(ctx context.Context) (int, error) {
	target := c.cfg.StartURL
	if target == "" {
		target = BuildSearchURL(c.cfg.Keywords)
	}

	page, err := c.browser.GetPage()
	if err != nil {
		return 0, fmt.Errorf("failed to acquire page: %w", err)
	}
	if err := c.browser.Navigate(page, target); err != nil {
		return 0, fmt.Errorf("failed to open search page: %w", err)
	}

	total := 0
	for pageIdx := 1; pageIdx <= c.cfg.MaxPages; pageIdx++ {
		added, err := c.scanPage(ctx, pageIdx)
		if err != nil {
			return total, err
		}
		total += added
		c.logger.Info().Int("page", pageIdx).Int("new", added).Msg("Page scanned")

		if pageIdx == c.cfg.MaxPages {
			break
		}
		if !c.nextPage(ctx, pageIdx) {
			c.logger.Info().Int("page", pageIdx).Msg("No further pages")
			break
		}
	}

	return total, nil
}

// scanPage rescans the current page until a scan yields nothing new or the
// scan budget runs out. Emitting during the loop rather than after it means a
// crash mid-page loses at most the profiles not yet seen.
func (c *Collector) scanPage(ctx context.Context, pageIdx int) (int, error) {
	interval := time.Duration(c.cfg.ScanIntervalMs) * time.Millisecond
	added := 0

	for scan := 0; scan < maxScansPerPage; scan++ {
		select {
		case <-ctx.Done():
			return added, ctx.Err()
		default:
		}

		newThisScan := 0
		for _, raw := range c.scrapeCards() {
			profile, ok := BuildProfile(raw, pageIdx)
			if !ok {
				continue
			}
			fresh, err := c.emit(profile)
			if err != nil {
				return added, err
			}
			if fresh {
				newThisScan++
			}
		}
		added += newThisScan

		if scan > 0 && newThisScan == 0 {
			break
		}

		select {
		case <-ctx.Done():
			return added, ctx.Err()
		case <-time.After(interval):
		}
	}

	return added, nil
}

// scrapeCards pulls raw fragments from every visible result card. The first
// card descriptor that yields any elements defines the page's UI generation.
func (c *Collector) scrapeCards() []RawCard {
	page, err := c.browser.GetPage()
	if err != nil {
		return nil
	}

	var cards rod.Elements
	for _, d := range ResultCard {
		els, err := page.Elements(d.Selector)
		if err == nil && len(els) > 0 {
			cards = els
			break
		}
	}

	raws := make([]RawCard, 0, len(cards))
	for _, card := range cards {
		raw := RawCard{
			Name:     firstText(card, cardNameSelectors),
			Href:     firstAttr(card, cardLinkSelectors, "href"),
			Subtitle: firstText(card, cardSubtitleSelectors),
			Location: firstText(card, cardLocationSelectors),
			ImageURL: firstAttr(card, cardImageSelectors, "src"),
		}
		if raw.Href == "" {
			continue
		}
		raws = append(raws, raw)
	}
	return raws
}

// nextPage advances to the following results page and verifies the advance
// against the pagination indicator. A click that does not move the indicator
// within the retry budget is treated as the end of results.
func (c *Collector) nextPage(ctx context.Context, current int) bool {
	page, err := c.browser.GetPage()
	if err != nil {
		return false
	}

	before := c.readPageNumber(page)

	retries := c.cfg.PageRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		next, ok := c.prober.LocateNow(page, NextPageControl, probe.Constraints{Visible: true, Enabled: true})
		if !ok {
			return false
		}
		if err := next.Click("left", 1); err != nil {
			c.logger.Debug().Err(err).Msg("Next page click failed")
		}

		time.Sleep(time.Duration(c.cfg.ScanIntervalMs) * time.Millisecond)
		_ = page.WaitDOMStable(time.Second, 0.1)

		after := c.readPageNumber(page)
		if after > before && before > 0 {
			return true
		}
		// Indicator unreadable on this UI generation; accept the click after
		// one settled wait since there is nothing authoritative to verify.
		if before == 0 && after == 0 && attempt == retries-1 {
			return true
		}

		c.logger.Debug().
			Int("attempt", attempt+1).
			Int("indicator", after).
			Msg("Pagination not confirmed, retrying")
	}

	c.logger.Warn().Int("page", current).Msg("Pagination never confirmed, stopping collection")
	return false
}

// readPageNumber reads the active pagination indicator, 0 when unreadable
func (c *Collector) readPageNumber(page *rod.Page) int {
	el, ok := c.prober.LocateNow(page, PageIndicator, probe.Constraints{})
	if !ok {
		return 0
	}
	text, err := el.Text()
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// BuildSearchURL constructs a people-search URL for the given keywords
func BuildSearchURL(keywords []string) string {
	q := url.Values{}
	q.Set("keywords", strings.Join(keywords, " "))
	q.Set("origin", "GLOBAL_SEARCH_HEADER")
	return "https://www.linkedin.com/search/results/people/?" + q.Encode()
}

func firstText(card *rod.Element, selectors []string) string {
	for _, sel := range selectors {
		els, err := card.Elements(sel)
		if err != nil || len(els) == 0 {
			continue
		}
		text, err := els.First().Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	}
	return ""
}

func firstAttr(card *rod.Element, selectors []string, attr string) string {
	for _, sel := range selectors {
		els, err := card.Elements(sel)
		if err != nil || len(els) == 0 {
			continue
		}
		v, err := els.First().Attribute(attr)
		if err != nil || v == nil {
			continue
		}
		if s := strings.TrimSpace(*v); s != "" {
			return s
		}
	}
	return ""
}
