package crawl

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Digest returns a stable fingerprint of a URL set. Order and duplicates
// in urls do not affect the result, so two runs that visited the same
// pages report the same digest.
func Digest(urls []string) string {
	sorted := slices.Clone(urls)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	h := xxhash.New()
	for _, u := range sorted {
		_, _ = h.WriteString(u)
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
