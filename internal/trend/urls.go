package trend

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[.*?\]\((.*?)\)`)
	hrefAttrRe     = regexp.MustCompile(`(?i)href=["']([^"']+)["']`)
	urlLikeRe      = regexp.MustCompile(`(?i)(https?://[^\s)]+|(?:www\.)?[^\s/$.?#]+\.[^\s/$.?#]+)`)
	schemeRe       = regexp.MustCompile(`(?i)^https?://`)
)

// NormalizeURL extracts a link from a raw cell. Markdown [text](url) and HTML
// href wrappers are unwrapped, the first URL-like substring is kept, and
// https:// is added when no scheme is present. Text without anything
// URL-like normalizes to "".
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := markdownLinkRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if strings.Contains(strings.ToLower(s), "href") {
		if href, ok := extractHref(s); ok {
			s = href
		}
	}

	u := urlLikeRe.FindString(s)
	if u == "" {
		return ""
	}
	if schemeRe.MatchString(u) {
		return u
	}
	return "https://" + u
}

// extractHref returns the first anchor href in an HTML fragment. Fragments
// that are not a well-formed anchor fall back to a plain attribute match.
func extractHref(fragment string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err == nil {
		if href, ok := doc.Find("a[href]").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href), true
		}
	}
	if m := hrefAttrRe.FindStringSubmatch(fragment); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}
