// Package spider provides a resumable, single-domain web crawler.
// It discovers pages reachable by hyperlink from a seed URL, never leaves
// the seed's registrable domain, and persists its progress after every
// page so an interrupted crawl continues where it stopped.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package spider
