// Package goquery extracts hyperlinks from HTML documents using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/spider"
	"golang.org/x/net/html"
)

// Ensure LinkExtractor implements spider.LinkExtractor at compile time.
var _ spider.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor returns the targets of all anchor elements in a document.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the unique absolute URLs of <a href> elements in
// document order, resolved against baseURL. Empty hrefs are skipped;
// hrefs that are not valid URLs are skipped and reported in the error.
// When the document cannot be parsed into a tree, a token scan recovers
// the links and the parse failure is returned alongside them.
func (e *LinkExtractor) ExtractLinks(htmlContent string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, spider.Errorf(spider.EINVALID, "invalid base URL: %v", err)
	}

	c := newCollector(base)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		scanLinks(htmlContent, c)
		return c.links, spider.Errorf(spider.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		c.add(href)
	})

	return c.links, c.err()
}

// scanLinks tokenizes the document without building a tree. It stops at
// the end of input or the first tokenizer error.
func scanLinks(htmlContent string, c *collector) {
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					c.add(string(val))
					break
				}
			}
		}
	}
}

// collector accumulates resolved links in first-seen order.
type collector struct {
	base  *url.URL
	seen  map[string]struct{}
	links []string
	bad   []string
}

func newCollector(base *url.URL) *collector {
	return &collector{base: base, seen: make(map[string]struct{})}
}

func (c *collector) add(href string) {
	href = strings.TrimSpace(href)
	if href == "" {
		return
	}
	resolved, ok := resolveURL(c.base, href)
	if !ok {
		c.bad = append(c.bad, href)
		return
	}
	if _, dup := c.seen[resolved]; dup {
		return
	}
	c.seen[resolved] = struct{}{}
	c.links = append(c.links, resolved)
}

func (c *collector) err() error {
	if len(c.bad) == 0 {
		return nil
	}
	return spider.Errorf(spider.EINVALID, "skipped %d invalid href(s), first %q", len(c.bad), c.bad[0])
}

// resolveURL resolves href against base.
func resolveURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
