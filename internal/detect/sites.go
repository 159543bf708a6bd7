package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Site binds detection rules to one streaming platform's known markup.
// Either rule may be nil, in which case the generic cascade runs.
type Site struct {
	Name  string
	Hosts []string
	Title Strategy
	Genre Strategy
}

// Matches reports whether host belongs to the site. Hosts are matched by
// substring so subdomains and regional domains are covered.
func (s Site) Matches(host string) bool {
	for _, h := range s.Hosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// DefaultSites lists the supported platforms in dispatch order.
func DefaultSites() []Site {
	return []Site{
		{
			Name:  "netflix",
			Hosts: []string{"netflix.com"},
			Title: FirstSuccess(
				textOf(".video-title"),
				attrOf(".title-logo", "alt"),
				textOrAttrOf("h1, .previewModal--player-titleTreatment-logo", "alt"),
			),
			Genre: FirstSuccess(
				joinedTexts(`.genre, [class*="genre"]`),
				firstStructuredGenre,
			),
		},
		{
			Name:  "youtube",
			Hosts: []string{"youtube.com"},
			Title: FirstSuccess(
				textOf("h1.ytd-watch-metadata yt-formatted-string, h1.title.ytd-video-primary-info-renderer"),
				metaContent("name", "title"),
			),
		},
		{
			Name:  "prime-video",
			Hosts: []string{"primevideo.com", "amazon.com"},
			Title: FirstSuccess(textOf(`.title, h1[data-automation-id="title"]`), ogTitle()),
			Genre: FirstSuccess(
				textOf(`[data-automation-id="genre"], .genre`),
				metaContent("property", "og:video:tag"),
			),
		},
		{
			Name:  "disney-plus",
			Hosts: []string{"disneyplus.com", "hotstar.com"},
			Title: FirstSuccess(textOf(".title-field, h1.title"), ogTitle()),
			Genre: textOf(`.genre-field, [class*="genre"]`),
		},
		{
			Name:  "hulu",
			Hosts: []string{"hulu.com"},
			Title: FirstSuccess(textOf(".Masthead__title, h1"), ogTitle()),
			Genre: textOf(`.Masthead__genre, [class*="genre"]`),
		},
		{
			Name:  "hbo-max",
			Hosts: []string{"hbo.com", "max.com"},
			Title: FirstSuccess(textOf(`[data-testid="title"], h1`), ogTitle()),
			Genre: textOf(`[data-testid="genre"], [class*="genre"]`),
		},
		{
			Name:  "apple-tv",
			Hosts: []string{"apple.com"},
			Title: FirstSuccess(textOf(".product-header__title, h1"), ogTitle()),
			Genre: textOf(`.product-header__genre, [class*="genre"]`),
		},
		{
			Name:  "vimeo",
			Hosts: []string{"vimeo.com"},
			Title: FirstSuccess(textOf(".clip-title, h1"), ogTitle()),
		},
		{
			Name:  "dailymotion",
			Hosts: []string{"dailymotion.com"},
			Title: FirstSuccess(textOf(".VideoTitle, h1"), ogTitle()),
		},
		{
			Name:  "twitch",
			Hosts: []string{"twitch.tv"},
			Title: FirstSuccess(textOf(`h1[data-a-target="stream-title"]`), ogTitle()),
		},
		{
			Name:  "imdb",
			Hosts: []string{"imdb.com"},
			Genre: imdbGenres,
		},
	}
}

// imdbGenres reads IMDb's genre chips, keeping at most three short labels.
func imdbGenres(p *Page) string {
	var genres []string
	p.Find(`a[href*="/search/title/?genres="], .ipc-chip__text`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" && len([]rune(text)) < 20 {
			genres = append(genres, text)
		}
		return len(genres) < maxExtractGenres
	})
	return strings.Join(genres, ", ")
}

// firstStructuredGenre only looks at the first JSON-LD block's top-level
// genre, the way Netflix publishes it.
func firstStructuredGenre(p *Page) string {
	blocks := p.StructuredData()
	if len(blocks) == 0 {
		return ""
	}
	obj, ok := blocks[0].(map[string]any)
	if !ok {
		return ""
	}
	return genreValue(obj["genre"])
}
