package mcreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLastPage(t *testing.T) {
	ext := NewExtractor(nil, "")

	cases := []struct {
		name       string
		cards      int
		pagination string
		want       bool
	}{
		{
			name:  "no items",
			cards: 0,
			pagination: `<ul class="pagination">
				<li class="active"><span>1</span></li>
				<li><a href="/search/?search=x&results=2">2</a></li>
				<li class="next"><a rel="next" href="/search/?search=x&results=2">&raquo;</a></li>
			</ul>`,
			want: true,
		},
		{
			name:  "no pagination",
			cards: 2,
			want:  true,
		},
		{
			name:  "enabled next",
			cards: 30,
			pagination: `<ul class="pagination">
				<li><a href="?results=1">1</a></li>
				<li class="active"><span>2</span></li>
				<li><a href="?results=3">3</a></li>
				<li class="next"><a rel="next" href="?results=3">&raquo;</a></li>
			</ul>`,
			want: false,
		},
		{
			name:  "next in disabled item",
			cards: 30,
			pagination: `<ul class="pagination">
				<li><a href="?results=1">1</a></li>
				<li class="active"><span>2</span></li>
				<li class="next disabled"><a href="?results=3">&raquo;</a></li>
			</ul>`,
			want: true,
		},
		{
			name:  "aria disabled next",
			cards: 30,
			pagination: `<ul class="pagination">
				<li class="active"><span>4</span></li>
				<li class="next"><a rel="next" aria-disabled="true" href="?results=5">&raquo;</a></li>
			</ul>`,
			want: true,
		},
		{
			name:  "placeholder href",
			cards: 30,
			pagination: `<ul class="pagination">
				<li class="active"><span>4</span></li>
				<li class="next"><a href="#">&raquo;</a></li>
			</ul>`,
			want: true,
		},
		{
			name:  "next points back to current",
			cards: 30,
			pagination: `<ul class="pagination">
				<li class="active"><span>3</span></li>
				<li class="next"><a href="?results=3">&raquo;</a></li>
			</ul>`,
			want: true,
		},
		{
			name:  "numbered pages beyond active",
			cards: 30,
			pagination: `<ul class="pagination">
				<li><a href="?results=1">1</a></li>
				<li class="active"><a href="?results=2">2</a></li>
				<li><a href="?results=3">3</a></li>
			</ul>`,
			want: false,
		},
		{
			name:  "active is highest",
			cards: 30,
			pagination: `<ul class="pagination">
				<li><a href="?results=1">1</a></li>
				<li><a href="?results=2">2</a></li>
				<li class="active"><a href="?results=3">3</a></li>
			</ul>`,
			want: true,
		},
		{
			name:  "active from href",
			cards: 30,
			pagination: `<ul class="pagination">
				<li class="active"><a href="?results=1">current</a></li>
				<li><a href="?results=2">2</a></li>
			</ul>`,
			want: false,
		},
		{
			name:  "no active marker",
			cards: 30,
			pagination: `<ul class="pagination">
				<li><a href="?results=1">1</a></li>
				<li><a href="?results=2">2</a></li>
			</ul>`,
			want: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc := mustDoc(t, listingHTML(c.cards, c.pagination))
			assert.Equal(t, c.want, ext.IsLastPage(doc))
		})
	}
}

func TestIsLastPage_CustomSelectors(t *testing.T) {
	sel := DefaultSelectors()
	sel.Pagination.Container = "nav.pager"
	sel.Pagination.Page = "span.page"
	sel.Pagination.Active = "span.page.current"
	sel.Pagination.Next = "a.more"

	pager := `<nav class="pager"><span class="page current">1</span><a class="more" href="?results=2">more</a></nav>`
	assert.False(t, NewExtractor(sel, "").IsLastPage(mustDoc(t, listingHTML(3, pager))))

	// the default container is no longer looked at
	assert.True(t, NewExtractor(sel, "").IsLastPage(mustDoc(t, listingHTML(3,
		`<ul class="pagination"><li class="active">1</li><li class="next"><a rel="next" href="?results=2">2</a></li></ul>`))))
}
