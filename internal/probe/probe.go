// Package probe runs ordered page-state heuristics over a DOM snapshot.
//
// Each Strategy either returns a definite answer or declines. A Chain asks its
// strategies in order and the first definite answer wins, so new site markup
// is handled by adding a strategy rather than changing callers.
package probe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy inspects a page snapshot. ok is false when it has no opinion.
type Strategy[T any] interface {
	Probe(doc *goquery.Document) (result T, ok bool)
}

// StrategyFunc adapts a plain function to a Strategy
type StrategyFunc[T any] func(doc *goquery.Document) (T, bool)

// Probe calls f(doc)
func (f StrategyFunc[T]) Probe(doc *goquery.Document) (T, bool) {
	return f(doc)
}

// Chain combines strategies first-match-wins
type Chain[T any] struct {
	Name       string
	Strategies []Strategy[T]
	// Fallback is returned when no strategy matches
	Fallback T
}

// Run returns the first definite result, or Fallback with matched=false
func (c Chain[T]) Run(doc *goquery.Document) (result T, matched bool) {
	if doc == nil {
		return c.Fallback, false
	}
	for _, strategy := range c.Strategies {
		if result, ok := strategy.Probe(doc); ok {
			return result, true
		}
	}
	return c.Fallback, false
}

// Present answers value whenever selector matches at least one element
func Present[T any](selector string, value T) Strategy[T] {
	return StrategyFunc[T](func(doc *goquery.Document) (T, bool) {
		if doc.Find(selector).Length() > 0 {
			return value, true
		}
		var zero T
		return zero, false
	})
}

// Target identifies one element of the page: the index-th match of Selector
// in document order.
type Target struct {
	Selector string
	Index    int
}

// ClickScript returns a script clicking the target, evaluating to true when clicked
func (t Target) ClickScript() string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%s)[%d];
		if (!el) return false;
		el.click();
		return true;
	})()`, JSString(t.Selector), t.Index)
}

// FirstMatch answers with the first element of selector accepted by accept
func FirstMatch(selector string, accept func(s *goquery.Selection) bool) Strategy[Target] {
	return StrategyFunc[Target](func(doc *goquery.Document) (Target, bool) {
		found := -1
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if accept == nil || accept(s) {
				found = i
				return false
			}
			return true
		})
		if found < 0 {
			return Target{}, false
		}
		return Target{Selector: selector, Index: found}, true
	})
}

// Label returns the lowercased visible text of s, falling back to its aria-label
func Label(s *goquery.Selection) string {
	text := strings.ToLower(strings.TrimSpace(s.Text()))
	if text != "" {
		return text
	}
	aria, _ := s.Attr("aria-label")
	return strings.ToLower(strings.TrimSpace(aria))
}

// Disabled reports whether a form control is disabled
func Disabled(s *goquery.Selection) bool {
	if _, ok := s.Attr("disabled"); ok {
		return true
	}
	v, _ := s.Attr("aria-disabled")
	return v == "true"
}

// JSString encodes s as a JavaScript string literal
func JSString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
