package detect

import (
	"strings"
)

// Options gates the optional detection capabilities.
type Options struct {
	GenreDetection bool
}

// Result is what one detection pass found on a page. Empty fields are
// misses, never errors.
type Result struct {
	Title string `json:"title"`
	Genre string `json:"genre,omitempty"`
}

// Detector runs the site-specific rules and falls back to the generic
// cascades.
type Detector struct {
	sites []Site
	opts  Options
}

// NewDetector builds a detector. A nil sites slice selects DefaultSites.
func NewDetector(sites []Site, opts Options) *Detector {
	if sites == nil {
		sites = DefaultSites()
	}
	return &Detector{sites: sites, opts: opts}
}

// GenreEnabled reports whether genre detection is switched on.
func (d *Detector) GenreEnabled() bool {
	return d.opts.GenreDetection
}

func (d *Detector) siteFor(p *Page) (Site, bool) {
	host := strings.ToLower(p.Host)
	for _, s := range d.sites {
		if s.Matches(host) {
			return s, true
		}
	}
	return Site{}, false
}

// DetectTitle returns the cleaned title of p, or "" when nothing matched.
func (d *Detector) DetectTitle(p *Page) string {
	if p == nil {
		return ""
	}
	var siteRule Strategy
	if site, ok := d.siteFor(p); ok {
		siteRule = site.Title
	}
	raw := FirstSuccess(siteRule, genericTitle)(p)
	return CleanTitle(raw)
}

// DetectGenre returns the cleaned genre of p. It always returns "" when
// genre detection is disabled.
func (d *Detector) DetectGenre(p *Page) string {
	if p == nil || !d.opts.GenreDetection {
		return ""
	}
	var siteRule Strategy
	if site, ok := d.siteFor(p); ok {
		siteRule = site.Genre
	}
	raw := FirstSuccess(siteRule, genericGenre)(p)
	return CleanGenre(raw)
}

// Detect runs both extractors.
func (d *Detector) Detect(p *Page) Result {
	return Result{
		Title: d.DetectTitle(p),
		Genre: d.DetectGenre(p),
	}
}
