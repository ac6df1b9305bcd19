package crawl

import (
	"net"
	"net/url"
	"strings"

	"github.com/fwojciec/spider"
	"golang.org/x/net/publicsuffix"
)

// Domain decides which URLs belong to a crawl.
// It is computed once from the seed URL and compares registrable domains
// (eTLD+1) exactly, so "notexample.com" never matches "example.com" while
// "docs.example.com" does. Hosts without a registrable domain, such as IP
// literals and single-label names, only match themselves.
type Domain struct {
	name  string
	exact bool
}

// NewDomain computes the crawl domain of seedURL.
// Returns EINVALID if the seed is not an absolute http or https URL.
func NewDomain(seedURL string) (Domain, error) {
	if err := spider.ValidateSeedURL(seedURL); err != nil {
		return Domain{}, err
	}
	u, err := url.Parse(seedURL)
	if err != nil {
		return Domain{}, spider.Errorf(spider.EINVALID, "invalid seed URL %q: %v", seedURL, err)
	}
	name, exact := registrableDomain(u.Hostname())
	return Domain{name: name, exact: exact}, nil
}

// String returns the registrable domain, or the host for exact-match domains.
func (d Domain) String() string {
	return d.name
}

// Admits reports whether rawURL is an http or https URL inside the domain.
func (d Domain) Admits(rawURL string) bool {
	if d.name == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	name, exact := registrableDomain(host)
	if exact != d.exact {
		return false
	}
	return name == d.name
}

// registrableDomain returns the eTLD+1 of host. The second result is true
// when host has no registrable domain and must be compared as-is.
func registrableDomain(host string) (string, bool) {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host, true
	}
	name, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// host is itself a public suffix (e.g. "co.uk").
		return host, true
	}
	return name, false
}

// HostOf returns the host of rawURL, or "" if it cannot be parsed.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
