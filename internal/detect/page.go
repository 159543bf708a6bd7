package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a read-only snapshot of a loaded document. Strategies only ever
// read from it: selector queries, meta tags, structured data and the
// rendered body text.
type Page struct {
	URL  *url.URL
	Host string

	doc *goquery.Document

	textOnce sync.Once
	text     string
}

// NewPage parses an HTML document fetched from rawURL.
func NewPage(rawURL string, r io.Reader) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	return &Page{
		URL:  u,
		Host: strings.ToLower(u.Hostname()),
		doc:  doc,
	}, nil
}

// NewPageFromString is NewPage for an in-memory document.
func NewPageFromString(rawURL, markup string) (*Page, error) {
	return NewPage(rawURL, strings.NewReader(markup))
}

// Document exposes the parsed tree for callers that need raw goquery access.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Find returns every element matching selector in document order.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// First returns the first element matching selector, like querySelector.
func (p *Page) First(selector string) *goquery.Selection {
	return p.doc.Find(selector).First()
}

// Meta reads the content attribute of the first meta[attr="value"] tag.
func (p *Page) Meta(attr, value string) (string, bool) {
	return p.First(fmt.Sprintf(`meta[%s=%q]`, attr, value)).Attr("content")
}

// Title returns document.title: the first <title>, whitespace collapsed.
func (p *Page) Title() string {
	return collapseSpaces(p.First("title").Text())
}

// StructuredData decodes every JSON-LD script block. Malformed blocks are
// skipped silently.
func (p *Page) StructuredData() []any {
	var blocks []any
	p.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		blocks = append(blocks, data)
	})
	return blocks
}

// VisibleText approximates body.innerText: script/style content is dropped,
// block elements break lines, runs of inline whitespace collapse to one
// space and blank lines are removed.
func (p *Page) VisibleText() string {
	p.textOnce.Do(func() {
		root := p.doc.Find("body")
		if root.Length() == 0 {
			root = p.doc.Selection
		}
		var b strings.Builder
		for _, n := range root.Nodes {
			writeVisibleText(&b, n)
		}
		p.text = tidyLines(b.String())
	})
	return p.text
}

var whitespaceRun = regexp.MustCompile(`\s+`)

var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Summary: true, atom.Table: true,
	atom.Tr: true, atom.Ul: true, atom.Body: true,
}

func writeVisibleText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// Source formatting newlines are not line breaks in rendered text.
		b.WriteString(whitespaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] || hasAttr(n, "hidden") {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeVisibleText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func tidyLines(raw string) string {
	lines := strings.Split(raw, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = collapseSpaces(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
