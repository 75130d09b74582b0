package mcreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierURLs(t *testing.T) {
	assert.Equal(t, "https://www.mgeko.cc/manga/solo-leveling", MangaURL(DefaultBaseURL, "solo-leveling"))
	assert.Equal(t, "https://www.mgeko.cc/manga/solo-leveling", MangaURL(DefaultBaseURL+"/", "solo-leveling"))
	assert.Equal(t, "https://www.mgeko.cc/reader/en/solo-leveling-chapter-1-eng-li", ChapterURL(DefaultBaseURL, "solo-leveling-chapter-1-eng-li"))
	assert.Equal(t, "https://www.mgeko.cc/manga/solo-leveling/all-chapters/", chapterListURL(DefaultBaseURL, "solo-leveling"))
	assert.Equal(t, "https://www.mgeko.cc/browse-comics", tagsURL(DefaultBaseURL))
}

func TestIDFromURL(t *testing.T) {
	id, ok := MangaIDFromURL("https://www.mgeko.cc/manga/solo-leveling/")
	assert.True(t, ok)
	assert.Equal(t, "solo-leveling", id)

	id, ok = ChapterIDFromURL("/reader/en/solo-leveling-chapter-3-eng-li/?page=2")
	assert.True(t, ok)
	assert.Equal(t, "solo-leveling-chapter-3-eng-li", id)

	_, ok = MangaIDFromURL("/browse-comics/")
	assert.False(t, ok)

	_, ok = ChapterIDFromURL("/reader/en/")
	assert.False(t, ok)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("solo-leveling"))
	assert.True(t, ValidIdentifier("solo_leveling.v2~x"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier(".."))
	assert.False(t, ValidIdentifier("a/b"))
	assert.False(t, ValidIdentifier("solo leveling"))
}

func TestListingURLs(t *testing.T) {
	assert.Equal(t,
		"https://www.mgeko.cc/browse-comics/?results=1&filter=Views",
		browseURL(DefaultBaseURL, "Views", 1))

	assert.Equal(t,
		"https://www.mgeko.cc/search/?search=Solo%20Leveling",
		searchURL(DefaultBaseURL, "Solo Leveling", 1))

	assert.Equal(t,
		"https://www.mgeko.cc/search/?search=a%26b%3Dc&results=3",
		searchURL(DefaultBaseURL, "a&b=c", 3))

	assert.Equal(t,
		"https://www.mgeko.cc/browse-advanced?sort_by=Views&results=1",
		advancedURL(DefaultBaseURL, "Views", "true", nil, 1))

	assert.Equal(t,
		"https://www.mgeko.cc/browse-advanced?sort_by=New&included=false&genres=action,slice%20of%20life&results=2",
		advancedURL(DefaultBaseURL, "New", "false", []string{"action", "slice of life"}, 2))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "https://www.mgeko.cc/media/a.jpg", resolve(DefaultBaseURL, "/media/a.jpg"))
	assert.Equal(t, "https://cdn.example/a.jpg", resolve(DefaultBaseURL, "https://cdn.example/a.jpg"))
	assert.Equal(t, "https://cdn.example/a.jpg", resolve(DefaultBaseURL, "//cdn.example/a.jpg"))
	assert.Equal(t, "", resolve(DefaultBaseURL, "  "))
}

func TestPageFromHref(t *testing.T) {
	n, ok := pageFromHref("/browse-comics/?results=4&filter=New", "results")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = pageFromHref("/browse-comics/?filter=New", "results")
	assert.False(t, ok)

	_, ok = pageFromHref("?results=abc", "results")
	assert.False(t, ok)
}

func TestIdentifierRoundTrip(t *testing.T) {
	for _, id := range []string{"solo-leveling", "A_Z-09.~", "~x", "a..", "x-chapter-12-5-eng-li"} {
		require.True(t, ValidIdentifier(id), id)

		got, ok := MangaIDFromURL(MangaURL(DefaultBaseURL, id))
		assert.True(t, ok, id)
		assert.Equal(t, id, got)

		got, ok = ChapterIDFromURL(ChapterURL(DefaultBaseURL, id))
		assert.True(t, ok, id)
		assert.Equal(t, id, got)

		got, ok = MangaIDFromURL(MangaURL(DefaultBaseURL, id) + "/")
		assert.True(t, ok, id)
		assert.Equal(t, id, got)
	}
}
