package mcreader

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IsLastPage reports whether a listing document is the final page. An
// empty listing is always final. A next control only counts when it is
// enabled and points past the active page; without one, the active page is
// compared with the highest numbered page link.
func (e *Extractor) IsLastPage(doc *goquery.Document) bool {
	l := e.sel.Listing
	p := e.sel.Pagination

	if doc.Find(l.Container).Find(l.Item).Length() == 0 {
		return true
	}

	pag := doc.Find(p.Container).First()
	if pag.Length() == 0 {
		return true
	}

	current := e.activePage(pag)

	if next := pag.Find(p.Next).First(); next.Length() > 0 {
		if e.disabled(next) {
			return true
		}

		href := strings.TrimSpace(next.AttrOr("href", ""))
		if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") {
			return true
		}

		if n, ok := pageFromHref(href, p.PageParam); ok && current > 0 && n <= current {
			return true
		}

		return false
	}

	highest := 0
	pag.Find(p.Page).Each(func(_ int, li *goquery.Selection) {
		if n, err := strconv.Atoi(text(li)); err == nil && n > highest {
			highest = n
		}
	})

	return current == 0 || current >= highest
}

func (e *Extractor) activePage(pag *goquery.Selection) int {
	p := e.sel.Pagination
	active := pag.Find(p.Active).First()

	if n, err := strconv.Atoi(text(active)); err == nil {
		return n
	}
	if n, ok := pageFromHref(active.Find("a").First().AttrOr("href", ""), p.PageParam); ok {
		return n
	}

	return 0
}

func (e *Extractor) disabled(next *goquery.Selection) bool {
	cls := e.sel.Pagination.DisabledClass

	if next.HasClass(cls) || next.Closest("li").HasClass(cls) {
		return true
	}
	if _, ok := next.Attr("disabled"); ok {
		return true
	}

	return strings.EqualFold(next.AttrOr("aria-disabled", ""), "true")
}
