package mcreader

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const detailHTML = `
<html><body>
<article id="novel">
<header class="novel-header">
	<div class="fixed-img">
		<figure class="cover">
			<img src="data:image/gif;base64,R0lGOD" data-src="/media/manga_covers/solo-leveling.jpg" alt="Solo Leveling">
		</figure>
	</div>
	<div class="novel-info">
		<h1 class="novel-title">  Solo   Leveling </h1>
		<h2 class="alternative-title">Only I Level Up, Na Honjaman Level Up, Solo Leveling</h2>
		<div class="author">
			<span>Author:</span>
			<a href="/author/chugong/"><span itemprop="author">Chugong</span></a>
			<a href="/author/dubu/"><span itemprop="author">DUBU</span></a>
			<a href="/author/chugong/"><span itemprop="author">Chugong</span></a>
		</div>
		<div class="rating"><span class="rating-star"><strong>4.8</strong></span></div>
		<div class="header-stats">
			<span><strong>201</strong><small>Chapters</small></span>
			<span><strong class="completed">Completed</strong><small>Status</small></span>
		</div>
		<div class="categories">
			<ul>
				<li><a href="/browse-comics/?genre=action">Action</a></li>
				<li><a href="/browse-comics/?genre=fantasy">Fantasy</a></li>
				<li><a href="/browse-comics/?genre=action">Action</a></li>
			</ul>
		</div>
	</div>
</header>
<section id="info">
	<div class="summary"><p class="description">10 years ago, after "the Gate" appeared.</p></div>
</section>
</article>
</body></html>`

const chaptersHTML = `
<html><body>
<ul class="chapter-list">
	<li>
		<a href="/reader/en/solo-leveling-chapter-3-eng-li/">
			<strong class="chapter-title">Chapter 3</strong>
			<time class="chapter-update" datetime="2023-01-03 10:00:00">Jan 3, 2023</time>
		</a>
	</li>
	<li>
		<a href="/reader/en/solo-leveling-chapter-1-eng-li/">
			<span class="chapter-no">1</span>
			<strong class="chapter-title">Chapter 1: Beginning</strong>
			<time class="chapter-update" datetime="2023-01-01 10:00:00"></time>
		</a>
	</li>
	<li>
		<a href="https://www.mgeko.cc/reader/en/solo-leveling-chapter-2-5-eng-li/">
			<strong class="chapter-title"></strong>
			<time class="chapter-update">Jan 2, 2023</time>
		</a>
	</li>
	<li>
		<a href="/reader/en/solo-leveling-chapter-2-eng-li/">
			<strong class="chapter-title">Chapter 2</strong>
		</a>
	</li>
	<li>
		<a href="/reader/en/solo-leveling-chapter-2-eng-li-raw/">
			<strong class="chapter-title">Chapter 2 (raw)</strong>
		</a>
	</li>
	<li class="ad"><span>Advertisement</span></li>
</ul>
</body></html>`

const readerHTML = `
<html><body>
<div id="chapter-reader">
	<img src="data:image/gif;base64,R0lGOD" data-src="https://cdn.mgeko.cc/ch1/001.jpg">
	<img src="/lazy.gif" data-src="https://cdn.mgeko.cc/ch1/002.jpg">
	<img src="https://cdn.mgeko.cc/ch1/003.jpg">
	<img data-lazy-src="https://cdn.mgeko.cc/ch1/004.jpg" src="">
	<img src="https://cdn.mgeko.cc/ch1/002.jpg">
	<img alt="broken">
</div>
<img src="https://www.mgeko.cc/static/logo.png">
</body></html>`

func listingHTML(cards int, pagination string) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="novel-list">`)
	for i := 0; i < cards; i++ {
		id := []string{"solo-leveling", "solo-leveling-ragnarok", "solo-max-level-newbie", "omniscient-reader"}[i%4]
		if i >= 4 {
			id += "-" + strings.Repeat("x", i)
		}
		b.WriteString(`<li class="novel-item"><a href="/manga/` + id + `/" title="` + id + `">`)
		b.WriteString(`<figure><img src="data:," data-src="/media/` + id + `.jpg"></figure>`)
		b.WriteString(`<h4 class="novel-title">Title ` + id + `</h4>`)
		b.WriteString(`<div class="novel-stats"><span>Chapter 10</span></div></a></li>`)
	}
	b.WriteString(`</ul>`)
	b.WriteString(pagination)
	b.WriteString(`</body></html>`)

	return b.String()
}

const tagsHTML = `
<html><body>
<div class="genre-select-i">
	<label class="checkbox"><input type="checkbox" value="action">Action</label>
	<label class="checkbox"><input type="checkbox" value="adventure">Adventure</label>
	<label class="checkbox"><input type="checkbox" value="action">Action (again)</label>
	<label class="checkbox"><input type="checkbox">Comedy</label>
</div>
<div class="genre-select-i" data-section="demographic">
	<h3 class="filter-title">Demographic</h3>
	<label class="checkbox"><input type="checkbox" value="seinen">Seinen</label>
</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	return doc
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
