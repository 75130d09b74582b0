package mcreader

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mcreader/internal/providers"
)

// Extractor turns parsed pages into records. It holds no mutable state, so
// the same document always yields the same result.
type Extractor struct {
	sel  *Selectors
	base string
}

func NewExtractor(sel *Selectors, base string) *Extractor {
	if sel == nil {
		sel = DefaultSelectors()
	}
	if base == "" {
		base = DefaultBaseURL
	}

	return &Extractor{sel: sel, base: strings.TrimRight(base, "/")}
}

func (e *Extractor) ParseMangaDetails(doc *goquery.Document, mangaID string) (providers.Manga, error) {
	d := e.sel.Detail

	if doc.Find(d.Container).Length() == 0 {
		return providers.Manga{}, malformed(TargetMangaDetail, d.Container)
	}

	title := text(doc.Find(d.Title).First())
	if title == "" {
		return providers.Manga{}, malformed(TargetMangaDetail, d.Title)
	}

	m := providers.Manga{
		ID:          mangaID,
		Title:       title,
		AltTitles:   splitAltTitles(text(doc.Find(d.AltTitles).First()), title),
		Cover:       resolve(e.base, firstAttr(doc.Find(d.Cover).First(), d.CoverAttrs)),
		Description: text(doc.Find(d.Description).First()),
		Status:      e.status(doc),
		Authors:     []string{},
		Tags:        []providers.Tag{},
	}

	seenAuthor := map[string]bool{}
	doc.Find(d.Author).Each(func(_ int, a *goquery.Selection) {
		name := text(a)
		if name == "" || seenAuthor[name] {
			return
		}
		seenAuthor[name] = true
		m.Authors = append(m.Authors, name)
	})

	seenTag := map[string]bool{}
	doc.Find(d.Genre).Each(func(_ int, g *goquery.Selection) {
		label := text(g)
		if label == "" {
			return
		}
		id := genreValue(g.AttrOr("href", ""))
		if id == "" {
			id = label
		}
		if seenTag[id] {
			return
		}
		seenTag[id] = true
		m.Tags = append(m.Tags, providers.Tag{ID: id, Label: label})
	})

	if r, err := strconv.ParseFloat(text(doc.Find(d.Rating).First()), 64); err == nil {
		m.Rating = r
	}

	return m, nil
}

// genreValue returns the genre query value of a tag link, the same value
// the browse filters use.
func genreValue(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(u.Query().Get("genre"))
}

func (e *Extractor) status(doc *goquery.Document) providers.Status {
	d := e.sel.Detail
	raw := ""

	doc.Find(d.StatusBlock).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(text(s.Find(d.StatusLabel).First()), d.StatusKey) {
			return true
		}
		raw = text(s.Find(d.StatusValue).First())
		return false
	})

	return parseStatus(raw)
}

func parseStatus(raw string) providers.Status {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "ongoing"):
		return providers.StatusOngoing
	case strings.Contains(s, "complete"):
		return providers.StatusCompleted
	case strings.Contains(s, "hiatus"):
		return providers.StatusHiatus
	default:
		return providers.StatusUnknown
	}
}

func splitAltTitles(raw, title string) []string {
	out := []string{}
	for p := range strings.SplitSeq(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" && p != title {
			out = append(out, p)
		}
	}

	return out
}

// ParseChapters reads the full chapter list of a manga and returns it sorted
// ascending by chapter number.
func (e *Extractor) ParseChapters(doc *goquery.Document, mangaID string) ([]providers.Chapter, error) {
	c := e.sel.Chapters

	list := doc.Find(c.Container)
	if list.Length() == 0 {
		return nil, malformed(TargetChapterList, c.Container)
	}

	out := []providers.Chapter{}
	seen := map[string]bool{}

	list.Find(c.Item).Each(func(_ int, li *goquery.Selection) {
		href, _ := li.Find(c.Link).First().Attr("href")
		id, ok := ChapterIDFromURL(resolve(e.base, href))
		if !ok || seen[id] {
			return
		}
		seen[id] = true

		title := text(li.Find(c.Title).First())
		num, found := chapterNumber(text(li.Find(c.Number).First()), title, id)

		label := ""
		if found {
			label = formatNumber(num)
		}
		if title == "" && label != "" {
			title = "Chapter " + label
		}

		date := li.Find(c.Date).First()
		rawDate, ok := date.Attr(c.DateAttr)
		if !ok || strings.TrimSpace(rawDate) == "" {
			rawDate = text(date)
		}

		out = append(out, providers.Chapter{
			ID:        id,
			MangaID:   mangaID,
			Number:    num,
			Label:     label,
			Title:     title,
			Published: parseDate(rawDate, c.DateLayouts),
		})
	})

	sortChapters(out)

	return out, nil
}

func parseDate(raw string, layouts []string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseChapterPages returns the page images of a chapter in document order.
func (e *Extractor) ParseChapterPages(doc *goquery.Document, chapterID string) (providers.PageSet, error) {
	r := e.sel.Reader

	reader := doc.Find(r.Container)
	if reader.Length() == 0 {
		return providers.PageSet{}, malformed(TargetChapterPages, r.Container)
	}

	set := providers.PageSet{ChapterID: chapterID, Pages: []string{}}
	reader.Find(r.Image).Each(func(_ int, img *goquery.Selection) {
		if u := resolve(e.base, firstAttr(img, r.ImageAttrs)); u != "" {
			set.Pages = append(set.Pages, u)
		}
	})

	return set, nil
}

func (e *Extractor) ParseSearch(doc *goquery.Document) ([]providers.Item, error) {
	return e.parseCards(doc, TargetSearch)
}

func (e *Extractor) ParseBrowse(doc *goquery.Document) ([]providers.Item, error) {
	return e.parseCards(doc, TargetBrowse)
}

func (e *Extractor) parseCards(doc *goquery.Document, target string) ([]providers.Item, error) {
	l := e.sel.Listing

	list := doc.Find(l.Container)
	if list.Length() == 0 {
		return nil, malformed(target, l.Container)
	}

	out := []providers.Item{}
	seen := map[string]bool{}

	list.Find(l.Item).Each(func(_ int, card *goquery.Selection) {
		link := card.Find(l.Link).First()
		href, _ := link.Attr("href")
		id, ok := MangaIDFromURL(resolve(e.base, href))
		if !ok || seen[id] {
			return
		}
		seen[id] = true

		cover := card.Find(l.Cover).First()
		title := text(card.Find(l.Title).First())
		if title == "" {
			title = strings.TrimSpace(link.AttrOr("title", ""))
		}
		if title == "" {
			title = strings.TrimSpace(cover.AttrOr("alt", ""))
		}

		out = append(out, providers.Item{
			MangaID:  id,
			Title:    title,
			Cover:    resolve(e.base, firstAttr(cover, l.CoverAttrs)),
			Subtitle: text(card.Find(l.Subtitle).First()),
		})
	})

	return out, nil
}

// ParseTags reads the genre checkboxes of the browse page. Tags are unique
// by ID within a section and keep the order they first appear in.
func (e *Extractor) ParseTags(doc *goquery.Document) ([]providers.TagSection, error) {
	t := e.sel.Tags

	sections := doc.Find(t.Section)
	if sections.Length() == 0 {
		return nil, malformed(TargetTags, t.Section)
	}

	out := []providers.TagSection{}
	sections.Each(func(i int, s *goquery.Selection) {
		sec := providers.TagSection{
			ID:    strings.TrimSpace(s.AttrOr(t.SectionIDAttr, "")),
			Title: text(s.Find(t.SectionTitle).First()),
			Tags:  []providers.Tag{},
		}
		if sec.ID == "" {
			sec.ID = t.DefaultID
			if i > 0 {
				sec.ID += "-" + strconv.Itoa(i+1)
			}
		}
		if sec.Title == "" {
			sec.Title = t.DefaultTitle
		}

		seen := map[string]bool{}
		s.Find(t.Item).Each(func(_ int, item *goquery.Selection) {
			label := text(item)
			id := strings.TrimSpace(item.Find(t.ItemInput).First().AttrOr(t.ItemValueAttr, ""))
			if id == "" {
				id = label
			}
			if id == "" || seen[id] {
				return
			}
			seen[id] = true
			sec.Tags = append(sec.Tags, providers.Tag{ID: id, Label: label})
		})

		out = append(out, sec)
	})

	return out, nil
}

// firstAttr returns the first usable attribute in priority order. Inline
// data: URIs are lazy-loading placeholders and never count.
func firstAttr(s *goquery.Selection, attrs []string) string {
	for _, k := range attrs {
		v, ok := s.Attr(k)
		v = strings.TrimSpace(v)
		if !ok || v == "" || strings.HasPrefix(strings.ToLower(v), "data:") {
			continue
		}
		return v
	}

	return ""
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
