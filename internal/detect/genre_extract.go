package detect

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// genreSelector is one entry of the generic selector scan. Entries with a
// needle match class attributes case-insensitively, which CSS attribute
// selectors cannot express portably.
type genreSelector struct {
	css    string
	tag    string
	needle string
}

func (g genreSelector) find(p *Page) *goquery.Selection {
	if g.needle != "" {
		return classContainsFold(p, g.tag, g.needle)
	}
	return p.Find(g.css)
}

var commonGenreSelectors = []genreSelector{
	{css: ".genre"},
	{css: ".genres"},
	{needle: "genre"},
	{needle: "category"},
	{css: `[data-testid="genre"]`},
	{css: `[data-testid="genres"]`},
	{css: "[data-genre]"},
	{css: ".movie-genre"},
	{css: ".video-genre"},
	{css: ".content-genre"},
	{css: ".film-genre"},
	{css: ".movie-category"},
	{css: ".video-category"},
	{css: ".info-genre"},
	{css: ".meta-genre"},
	{tag: "span", needle: "genre"},
	{tag: "div", needle: "genre"},
	{tag: "p", needle: "genre"},
	{tag: "a", needle: "genre"},
	{css: ".tags"},
	{css: ".tag"},
	{needle: "tag"},
}

var genreTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Genres?:\s*([A-Z][a-zA-Z\s,&-]+?)(?:\n|$|\|)`),
	regexp.MustCompile(`(?i)Categor(?:y|ies):\s*([A-Z][a-zA-Z\s,&-]+?)(?:\n|$|\|)`),
	regexp.MustCompile(`(?i)Type:\s*([A-Z][a-zA-Z\s,&-]+?)(?:\n|$|\|)`),
	regexp.MustCompile(`\|\s*([A-Z][a-zA-Z]+(?:\s*,\s*[A-Z][a-zA-Z]+){1,3})\s*\|`),
}

var genreLabelLine = regexp.MustCompile(`(?i)genre|category|type`)

const maxMetaGenreParts = 5

// genericGenre is the ten-step cascade used when no site rule applies or a
// site rule finds nothing.
var genericGenre = FirstSuccess(
	structuredDataGenre,
	openGraphGenre,
	namedMetaGenre,
	keywordsMetaGenre,
	commonSelectorGenre,
	genreLinks,
	bodyPatternGenre,
	breadcrumbGenre,
	func(p *Page) string { return ExtractGenresFromText(p.Title()) },
	labelledLineGenre,
)

// structuredDataGenre reads "genre" from JSON-LD objects, their @graph
// members, or top-level arrays of objects.
func structuredDataGenre(p *Page) string {
	for _, block := range p.StructuredData() {
		if genre := genreFromLD(block); genre != "" {
			return genre
		}
	}
	return ""
}

func genreFromLD(block any) string {
	switch v := block.(type) {
	case map[string]any:
		if genre := genreValue(v["genre"]); genre != "" {
			return genre
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]any); ok {
					if genre := genreValue(obj["genre"]); genre != "" {
						return genre
					}
				}
			}
		}
	case []any:
		for _, item := range v {
			if genre := genreFromLD(item); genre != "" {
				return genre
			}
		}
	}
	return ""
}

// genreValue renders a JSON-LD genre that is either a string or a list.
func genreValue(v any) string {
	switch g := v.(type) {
	case string:
		return g
	case []any:
		parts := make([]string, 0, len(g))
		for _, item := range g {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func openGraphGenre(p *Page) string {
	v, _ := p.First(`meta[property="og:video:tag"], meta[property="video:tag"], meta[property="og:genre"]`).Attr("content")
	return v
}

// namedMetaGenre ignores values listing more than five entries; those are
// keyword dumps rather than genres.
func namedMetaGenre(p *Page) string {
	content, _ := p.First(`meta[name="genre"], meta[name="genres"], meta[name="category"]`).Attr("content")
	if content == "" || len(strings.Split(content, ",")) > maxMetaGenreParts {
		return ""
	}
	return content
}

func keywordsMetaGenre(p *Page) string {
	keywords, _ := p.Meta("name", "keywords")
	return ExtractGenresFromText(keywords)
}

func commonSelectorGenre(p *Page) string {
	for _, sel := range commonGenreSelectors {
		var found string
		sel.find(p).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			n := utf8.RuneCountInString(text)
			if n <= 2 || n >= 60 || strings.Contains(text, "\n") {
				return true
			}
			if cleaned := CleanGenre(text); cleaned != "" && IsLikelyGenre(cleaned) {
				found = cleaned
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// genreLinks collects up to three genre-looking anchors that point at
// genre or category listings.
func genreLinks(p *Page) string {
	var found []string
	p.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !attrContains(s, "href", "genre") && !attrContains(s, "href", "category") &&
			!hasClassFold(s, "genre") && !hasClassFold(s, "category") {
			return true
		}
		if text := strings.TrimSpace(s.Text()); isShortGenre(text) {
			found = append(found, text)
		}
		return len(found) < maxExtractGenres
	})
	return strings.Join(found, ", ")
}

func bodyPatternGenre(p *Page) string {
	text := p.VisibleText()
	for _, pattern := range genreTextPatterns {
		m := pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		extracted := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(extracted) < 60 && IsLikelyGenre(extracted) {
			return extracted
		}
	}
	return ""
}

func breadcrumbGenre(p *Page) string {
	var found string
	p.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !inBreadcrumb(s) {
			return true
		}
		if text := strings.TrimSpace(s.Text()); isShortGenre(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

// inBreadcrumb reports whether a link sits inside a <nav> or an element
// whose class mentions "bread" (which covers "breadcrumb").
func inBreadcrumb(s *goquery.Selection) bool {
	if s.ParentsFiltered("nav").Length() > 0 {
		return true
	}
	return s.Parents().FilterFunction(func(_ int, parent *goquery.Selection) bool {
		return hasClassFold(parent, "bread")
	}).Length() > 0
}

// labelledLineGenre finds a line mentioning genre/category/type and accepts
// the following line if it looks like a genre.
func labelledLineGenre(p *Page) string {
	lines := strings.Split(p.VisibleText(), "\n")
	for i := 0; i+1 < len(lines); i++ {
		if !genreLabelLine.MatchString(lines[i]) {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		n := utf8.RuneCountInString(next)
		if n > 2 && n < 60 && IsLikelyGenre(next) {
			return next
		}
	}
	return ""
}

func isShortGenre(text string) bool {
	n := utf8.RuneCountInString(text)
	return n > 2 && n < 25 && IsLikelyGenre(text)
}
