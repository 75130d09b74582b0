package mcreader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors is the complete set of markup anchors the extractor and the
// pagination oracle rely on. Markup changes on the site should only ever
// require editing one of these rows.
type Selectors struct {
	Detail     DetailSelectors     `yaml:"detail"`
	Chapters   ChapterSelectors    `yaml:"chapters"`
	Reader     ReaderSelectors     `yaml:"reader"`
	Listing    ListingSelectors    `yaml:"listing"`
	Pagination PaginationSelectors `yaml:"pagination"`
	Tags       TagSelectors        `yaml:"tags"`
}

type DetailSelectors struct {
	Container   string   `yaml:"container"`
	Title       string   `yaml:"title"`
	AltTitles   string   `yaml:"alt_titles"`
	Author      string   `yaml:"author"`
	Cover       string   `yaml:"cover"`
	CoverAttrs  []string `yaml:"cover_attrs"`
	Description string   `yaml:"description"`
	StatusBlock string   `yaml:"status_block"`
	StatusLabel string   `yaml:"status_label"`
	StatusValue string   `yaml:"status_value"`
	StatusKey   string   `yaml:"status_key"`
	Genre       string   `yaml:"genre"`
	Rating      string   `yaml:"rating"`
}

type ChapterSelectors struct {
	Container   string   `yaml:"container"`
	Item        string   `yaml:"item"`
	Link        string   `yaml:"link"`
	Number      string   `yaml:"number"`
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	DateAttr    string   `yaml:"date_attr"`
	DateLayouts []string `yaml:"date_layouts"`
}

type ReaderSelectors struct {
	Container  string   `yaml:"container"`
	Image      string   `yaml:"image"`
	ImageAttrs []string `yaml:"image_attrs"`
}

type ListingSelectors struct {
	Container  string   `yaml:"container"`
	Item       string   `yaml:"item"`
	Link       string   `yaml:"link"`
	Title      string   `yaml:"title"`
	Cover      string   `yaml:"cover"`
	CoverAttrs []string `yaml:"cover_attrs"`
	Subtitle   string   `yaml:"subtitle"`
}

type PaginationSelectors struct {
	Container     string `yaml:"container"`
	Page          string `yaml:"page"`
	Active        string `yaml:"active"`
	Next          string `yaml:"next"`
	DisabledClass string `yaml:"disabled_class"`
	PageParam     string `yaml:"page_param"`
}

type TagSelectors struct {
	Section       string `yaml:"section"`
	SectionIDAttr string `yaml:"section_id_attr"`
	SectionTitle  string `yaml:"section_title"`
	DefaultID     string `yaml:"default_id"`
	DefaultTitle  string `yaml:"default_title"`
	Item          string `yaml:"item"`
	ItemInput     string `yaml:"item_input"`
	ItemValueAttr string `yaml:"item_value_attr"`
}

var lazyAttrs = []string{"data-src", "data-lazy-src", "data-original", "src"}

func DefaultSelectors() *Selectors {
	return &Selectors{
		Detail: DetailSelectors{
			Container:   "header.novel-header",
			Title:       ".novel-title",
			AltTitles:   ".alternative-title",
			Author:      ".author a",
			Cover:       ".fixed-img img",
			CoverAttrs:  lazyAttrs,
			Description: ".description",
			StatusBlock: ".header-stats span",
			StatusLabel: "small",
			StatusValue: "strong",
			StatusKey:   "status",
			Genre:       ".categories li a",
			Rating:      ".rating-star strong",
		},
		Chapters: ChapterSelectors{
			Container: "ul.chapter-list",
			Item:      "li",
			Link:      "a",
			Number:    ".chapter-no",
			Title:     ".chapter-title",
			Date:      ".chapter-update",
			DateAttr:  "datetime",
			DateLayouts: []string{
				"2006-01-02 15:04:05",
				"2006-01-02T15:04:05Z07:00",
				"2006-01-02",
				"Jan 2, 2006",
				"January 2, 2006",
			},
		},
		Reader: ReaderSelectors{
			Container:  "#chapter-reader",
			Image:      "img",
			ImageAttrs: lazyAttrs,
		},
		Listing: ListingSelectors{
			Container:  "ul.novel-list",
			Item:       "li.novel-item",
			Link:       "a",
			Title:      ".novel-title",
			Cover:      "img",
			CoverAttrs: lazyAttrs,
			Subtitle:   ".novel-stats",
		},
		Pagination: PaginationSelectors{
			Container:     "ul.pagination",
			Page:          "li",
			Active:        "li.active",
			Next:          "a[rel='next'], li.next a",
			DisabledClass: "disabled",
			PageParam:     "results",
		},
		Tags: TagSelectors{
			Section:       "div.genre-select-i",
			SectionIDAttr: "data-section",
			SectionTitle:  ".filter-title",
			DefaultID:     "genres",
			DefaultTitle:  "Genres",
			Item:          "label.checkbox",
			ItemInput:     "input",
			ItemValueAttr: "value",
		},
	}
}

// LoadSelectors reads a YAML override file on top of the defaults. Rows
// missing from the file keep their default value.
func LoadSelectors(path string) (*Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors: %w", err)
	}

	if err := yaml.Unmarshal(b, sel); err != nil {
		return nil, fmt.Errorf("parse selectors %s: %w", path, err)
	}

	return sel, nil
}
