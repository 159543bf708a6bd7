package detect

import (
	"strings"
)

// commonTitleSelectors are tried in order by the generic title cascade.
var commonTitleSelectors = []string{
	"h1.video-title",
	"h1.movie-title",
	".video-title",
	".movie-title",
	`[data-testid="video-title"]`,
	`[data-testid="movie-title"]`,
	".player-title",
	".content-title",
	`h1[class*="title"]`,
	`h2[class*="title"]`,
}

// genericTitle is the cascade used when no site rule applies or a site rule
// finds nothing.
var genericTitle = FirstSuccess(
	videoElementTitle,
	openGraphTitle,
	metaContent("name", "twitter:title"),
	commonSelectorTitle,
	documentTitlePrefix,
)

// videoElementTitle looks at the first <video>: its title, its aria-label,
// then a heading inside the closest container.
func videoElementTitle(p *Page) string {
	video := p.First("video")
	if video.Length() == 0 {
		return ""
	}
	if v, _ := video.Attr("title"); strings.TrimSpace(v) != "" {
		return v
	}
	if v, _ := video.Attr("aria-label"); strings.TrimSpace(v) != "" {
		return v
	}

	container := video.Closest("div, section, article")
	if container.Length() == 0 {
		return ""
	}
	return container.Find(`h1, h2, .title, [class*="title"]`).First().Text()
}

// openGraphTitle rejects og:title values that read like landing pages.
func openGraphTitle(p *Page) string {
	content, ok := p.Meta("property", "og:title")
	if !ok {
		return ""
	}
	lower := strings.ToLower(content)
	if strings.Contains(lower, "watch") || strings.Contains(lower, "home") {
		return ""
	}
	return content
}

func commonSelectorTitle(p *Page) string {
	for _, selector := range commonTitleSelectors {
		if text := p.First(selector).Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// documentTitlePrefix keeps the part of document.title before the first
// "|", "-" or em dash separator.
func documentTitlePrefix(p *Page) string {
	title := p.Title()
	if i := strings.IndexAny(title, "|-—"); i >= 0 {
		title = title[:i]
	}
	return title
}
