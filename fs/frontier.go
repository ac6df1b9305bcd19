// Package fs persists crawl state as plain text files.
package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/spider"
)

// File names inside a project directory.
const (
	QueueFile   = "queue.txt"
	CrawledFile = "crawled.txt"
)

// Ensure FrontierStore implements spider.FrontierStore at compile time.
var _ spider.FrontierStore = (*FrontierStore)(nil)

// FrontierStore keeps a crawl snapshot in a project directory as two
// files, queue.txt and crawled.txt, each holding one URL per line in
// sorted order. Every write replaces a file atomically by renaming a
// fully written temporary file over it.
type FrontierStore struct {
	dir string
}

// NewFrontierStore creates a store for the project directory dir.
func NewFrontierStore(dir string) *FrontierStore {
	return &FrontierStore{dir: dir}
}

// ProjectDir returns the directory of the named project under root.
func ProjectDir(root, name string) string {
	return filepath.Join(root, name)
}

// Dir returns the project directory.
func (s *FrontierStore) Dir() string {
	return s.dir
}

// Bootstrap creates the project directory and any missing files.
// queue.txt is seeded with seedURL only when it did not exist yet, so a
// drained crawl is not restarted by running it again.
func (s *FrontierStore) Bootstrap(ctx context.Context, seedURL string) (*spider.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	queuePath := filepath.Join(s.dir, QueueFile)
	if _, err := os.Stat(queuePath); errors.Is(err, os.ErrNotExist) {
		if err := writeLines(queuePath, []string{seedURL}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	crawledPath := filepath.Join(s.dir, CrawledFile)
	if _, err := os.Stat(crawledPath); errors.Is(err, os.ErrNotExist) {
		if err := writeLines(crawledPath, nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.Load(ctx)
}

// Load reads the snapshot. Blank lines and surrounding whitespace are
// ignored. Returns ENOTFOUND if queue.txt does not exist.
func (s *FrontierStore) Load(ctx context.Context) (*spider.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queue, err := readLines(filepath.Join(s.dir, QueueFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, spider.Errorf(spider.ENOTFOUND, "no crawl state in %s", s.dir)
	} else if err != nil {
		return nil, err
	}

	crawled, err := readLines(filepath.Join(s.dir, CrawledFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return &spider.Snapshot{Queue: queue, Crawled: crawled}, nil
}

// Save replaces both files. crawled.txt is written before queue.txt: if
// the process dies in between, a URL may appear in both files, and
// loading treats it as crawled.
func (s *FrontierStore) Save(ctx context.Context, snap *spider.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(s.dir, CrawledFile), snap.Crawled); err != nil {
		return err
	}
	return writeLines(filepath.Join(s.dir, QueueFile), snap.Queue)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}

// writeLines writes urls sorted, one per line, to a temporary file in the
// same directory, syncs it and renames it over path.
func writeLines(path string, urls []string) (err error) {
	if !slices.IsSorted(urls) {
		urls = slices.Sorted(slices.Values(urls))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, u := range urls {
		if _, err := w.WriteString(u); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
