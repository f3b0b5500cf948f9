// Package probe - rod-backed document querier
package probe

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// perQueryTimeout bounds a single document query so one stuck CDP call never
// consumes the whole retry budget.
const perQueryTimeout = 2 * time.Second

type rodQuerier struct {
	page *rod.Page
}

func (q *rodQuerier) Candidates(selector string) []node {
	page := q.page.Timeout(perQueryTimeout)
	defer page.CancelTimeout()

	els, err := page.Elements(selector)
	if err != nil {
		return nil
	}

	nodes := make([]node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, &rodNode{el: el})
	}
	return nodes
}

type rodNode struct {
	el *rod.Element
}

func (n *rodNode) Text() string {
	text, err := n.el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (n *rodNode) Visible() bool {
	if v := attr(n.el, "aria-hidden"); v == "true" {
		return false
	}
	visible, err := n.el.Visible()
	return err == nil && visible
}

func (n *rodNode) Enabled() bool {
	// Attribute returns nil for an absent attribute; any value means disabled
	if v, err := n.el.Attribute("disabled"); err == nil && v != nil {
		return false
	}
	if attr(n.el, "aria-disabled") == "true" {
		return false
	}
	return true
}

func attr(el *rod.Element, name string) string {
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}
