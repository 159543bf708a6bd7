package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy extracts one candidate string from a page. An empty or
// whitespace-only result is a miss.
type Strategy func(p *Page) string

// FirstSuccess runs strategies in priority order and returns the first hit.
func FirstSuccess(strategies ...Strategy) Strategy {
	return func(p *Page) string {
		for _, s := range strategies {
			if s == nil {
				continue
			}
			if v := s(p); strings.TrimSpace(v) != "" {
				return v
			}
		}
		return ""
	}
}

// textOf reads the text content of the first element matching selector.
func textOf(selector string) Strategy {
	return func(p *Page) string {
		return p.First(selector).Text()
	}
}

// attrOf reads attr from the first element matching selector.
func attrOf(selector, attr string) Strategy {
	return func(p *Page) string {
		v, _ := p.First(selector).Attr(attr)
		return v
	}
}

// textOrAttrOf reads the first match's text, falling back to attr on the
// same element (logos carry the title in alt).
func textOrAttrOf(selector, attr string) Strategy {
	return func(p *Page) string {
		s := p.First(selector)
		if text := s.Text(); strings.TrimSpace(text) != "" {
			return text
		}
		v, _ := s.Attr(attr)
		return v
	}
}

func metaContent(attr, value string) Strategy {
	return func(p *Page) string {
		v, _ := p.Meta(attr, value)
		return v
	}
}

func ogTitle() Strategy {
	return metaContent("property", "og:title")
}

// joinedTexts joins the trimmed, non-empty texts of every match.
func joinedTexts(selector string) Strategy {
	return func(p *Page) string {
		var parts []string
		p.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		return strings.Join(parts, ", ")
	}
}

// classContainsFold matches elements of tag (or any tag when tag is "")
// whose class attribute contains needle, ignoring case.
func classContainsFold(p *Page, tag, needle string) *goquery.Selection {
	if tag == "" {
		tag = "*"
	}
	return p.Find(tag + "[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasClassFold(s, needle)
	})
}

func hasClassFold(s *goquery.Selection, needle string) bool {
	class, _ := s.Attr("class")
	return strings.Contains(strings.ToLower(class), needle)
}

func attrContains(s *goquery.Selection, attr, needle string) bool {
	v, _ := s.Attr(attr)
	return strings.Contains(v, needle)
}
