package collect

import "linkedin-outreach/internal/probe"

// Result card shapes across search UI generations, newest first. Cards are
// enumerated with LocateNow-style single passes; the rescan loop owns timing.
var ResultCard = []probe.Descriptor{
	{Selector: "li.reusable-search__result-container", Note: "2023 search results"},
	{Selector: "div[data-view-name='search-entity-result-universal-template']", Note: "2024 universal template"},
	{Selector: "li.search-result__occluded-item", Note: "legacy occluded list"},
	{Selector: "ul[role='list'] > li:has(a[href*='/in/'])", Note: "generic list fallback"},
}

// Anchors and text fragments within one card
var (
	cardLinkSelectors = []string{
		"a.app-aware-link[href*='/in/']",
		"a[data-view-name='search-result-lockup-title'][href]",
		"a[href*='/sales/lead/']",
		"a[href*='/in/']",
	}
	cardNameSelectors = []string{
		"span[dir='ltr'] > span[aria-hidden='true']",
		"span.entity-result__title-text a span[aria-hidden='true']",
		"span[data-view-name='search-result-lockup-title']",
	}
	cardSubtitleSelectors = []string{
		"div.entity-result__primary-subtitle",
		"div[data-view-name='search-result-lockup-subtitle']",
		"p.subline-level-1",
	}
	cardLocationSelectors = []string{
		"div.entity-result__secondary-subtitle",
		"div[data-view-name='search-result-lockup-metadata']",
		"p.subline-level-2",
	}
	cardImageSelectors = []string{
		"img.presence-entity__image",
		"img.EntityPhoto-circle-3",
		"img[src*='profile-displayphoto']",
	}
)

// Pagination controls. The page indicator is the authoritative read for
// verified pagination; the next button alone proves nothing.
var NextPageControl = []probe.Descriptor{
	{Selector: "button.artdeco-pagination__button--next", Note: "2023 pagination"},
	{Selector: "button[aria-label='Next']", Note: "aria fallback"},
	{Selector: "a[rel='next']", Note: "anchor pagination"},
}

var PageIndicator = []probe.Descriptor{
	{Selector: "li.artdeco-pagination__indicator--number.active.selected", Note: "2023 pagination"},
	{Selector: "li.artdeco-pagination__indicator--number[aria-current]", Note: "aria-current variant"},
	{Selector: "button[aria-current='true']", Note: "button pagination"},
}
