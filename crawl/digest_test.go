package crawl_test

import (
	"testing"

	"github.com/fwojciec/spider/crawl"
	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	t.Parallel()

	t.Run("ignores order and duplicates", func(t *testing.T) {
		t.Parallel()

		a := crawl.Digest([]string{"https://example.com/b", "https://example.com/a"})
		b := crawl.Digest([]string{"https://example.com/a", "https://example.com/b", "https://example.com/a"})
		assert.Equal(t, a, b)
	})

	t.Run("differs for different sets", func(t *testing.T) {
		t.Parallel()

		a := crawl.Digest([]string{"https://example.com/a"})
		b := crawl.Digest([]string{"https://example.com/a", "https://example.com/b"})
		assert.NotEqual(t, a, b)
	})

	t.Run("is fixed width hex", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, crawl.Digest(nil), 16)
	})

	t.Run("does not reorder the caller's slice", func(t *testing.T) {
		t.Parallel()

		urls := []string{"https://example.com/z", "https://example.com/a"}
		crawl.Digest(urls)
		assert.Equal(t, []string{"https://example.com/z", "https://example.com/a"}, urls)
	})
}
