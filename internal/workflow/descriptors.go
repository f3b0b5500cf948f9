// Package workflow - candidate descriptor tables for profile-page controls
//
// The host UI ships several structural generations of the same control.
// Each table is ordered newest shape first; the prober walks it in order and
// the first match wins. Supporting a new layout means appending a descriptor,
// not adding a branch.
package workflow

import "linkedin-outreach/internal/probe"

// ConnectControl is the per-profile action that opens the invite flow
var ConnectControl = []probe.Descriptor{
	{Selector: "button[aria-label*='Invite'][aria-label*='connect']", Note: "2024 profile card"},
	{Selector: "button[aria-label*='Connect']", Note: "classic top card"},
	{Selector: "button.pvs-profile-actions__action", SiblingText: "Connect", Note: "actions bar"},
	{Selector: "button", SiblingText: "Connect", Note: "text fallback"},
}

// MoreActionsControl opens the overflow menu that can hide the connect action
var MoreActionsControl = []probe.Descriptor{
	{Selector: "button[aria-label='More actions']", Note: "top card overflow"},
	{Selector: "button[aria-label*='More']", SiblingText: "More", Note: "relaxed overflow"},
}

// OverflowConnectControl is the connect entry inside the overflow menu
var OverflowConnectControl = []probe.Descriptor{
	{Selector: "div[aria-label*='connect']", Note: "menu item aria"},
	{Selector: "[data-control-name='connect']", Note: "legacy control name"},
	{Selector: "div[role='button']", SiblingText: "Connect", Note: "text fallback"},
}

// AddNoteControl switches the invite modal to the message compose view
var AddNoteControl = []probe.Descriptor{
	{Selector: "button[aria-label='Add a note']", Note: "invite modal"},
	{Selector: "button", SiblingText: "Add a note", Note: "text fallback"},
}

// MessageInput is the compose surface for the invite note
var MessageInput = []probe.Descriptor{
	{Selector: "textarea[name='message']", Note: "invite modal textarea"},
	{Selector: "textarea#custom-message", Note: "legacy invite textarea"},
	{Selector: "div.msg-form__contenteditable[contenteditable='true']", Note: "chat composer"},
	{Selector: "div[role='textbox'][contenteditable='true']", Note: "generic composer"},
}

// SendControl submits the invite
var SendControl = []probe.Descriptor{
	{Selector: "button[aria-label='Send now']", Note: "invite modal"},
	{Selector: "button[aria-label='Send invitation']", Note: "invite modal alt"},
	{Selector: "button.msg-form__send-button", Note: "chat composer"},
	{Selector: "button", SiblingText: "Send", Note: "text fallback"},
}

// SentIndicator confirms the invite went out
var SentIndicator = []probe.Descriptor{
	{Selector: "button[aria-label*='Pending']", Note: "top card pending state"},
	{Selector: ".artdeco-toast-item", SiblingText: "Invitation sent", Note: "toast"},
	{Selector: "[role='alert']", SiblingText: "sent", Note: "generic alert"},
}

// ComposeSurface is probed after sending; its absence is the secondary
// success signal when no explicit indicator appears
var ComposeSurface = []probe.Descriptor{
	{Selector: ".send-invite", Note: "invite modal root"},
	{Selector: "textarea[name='message']", Note: "invite modal textarea"},
}

// IdentityAnchor points at the canonical profile link in page content. The
// page may have been reached via a lead-platform alias, so the address bar is
// not authoritative.
var IdentityAnchor = []probe.Descriptor{
	{Selector: "a[href*='/in/'][data-field='headless_profile_link']", Note: "2024 top card"},
	{Selector: "main a[href*='/in/']", Note: "any in-content profile link"},
}
