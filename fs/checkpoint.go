// Package fs provides flat-file checkpoint storage for outreach progress.
package fs

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/outreach"
)

// Ensure CheckpointStore implements outreach.CheckpointStore at compile time.
var _ outreach.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore implements outreach.CheckpointStore with three UTF-8 text
// files: collected links and processed sellers are append-only with one
// entry per line; the cursor file holds a single URL and is overwritten.
//
// Writes are not fsynced. Losing the last few seconds of progress on a
// crash only causes the cursor link to be visited again.
type CheckpointStore struct {
	linksPath   string
	sellersPath string
	cursorPath  string
}

// NewCheckpointStore creates a CheckpointStore using the file names in files.
func NewCheckpointStore(files outreach.FilesConfig) *CheckpointStore {
	return &CheckpointStore{
		linksPath:   files.Path(files.Links),
		sellersPath: files.Path(files.Sellers),
		cursorPath:  files.Path(files.Cursor),
	}
}

// LoadLinks returns the collected links, creating an empty file if needed.
func (s *CheckpointStore) LoadLinks(ctx context.Context) ([]string, error) {
	return readLines(s.linksPath)
}

// AppendLinks appends links to the links file in a single write.
func (s *CheckpointStore) AppendLinks(ctx context.Context, links []string) error {
	if len(links) == 0 {
		return nil
	}
	var b strings.Builder
	for _, link := range links {
		link = sanitizeLine(link)
		if link == "" {
			continue
		}
		b.WriteString(link)
		b.WriteByte('\n')
	}
	return appendString(s.linksPath, b.String())
}

// LoadProcessedSellers returns contacted seller IDs, creating an empty file if needed.
func (s *CheckpointStore) LoadProcessedSellers(ctx context.Context) ([]string, error) {
	return readLines(s.sellersPath)
}

// MarkSellerProcessed appends id to the sellers file.
func (s *CheckpointStore) MarkSellerProcessed(ctx context.Context, id string) error {
	id = sanitizeLine(id)
	if id == "" {
		return outreach.Errorf(outreach.EINVALID, "seller ID required")
	}
	return appendString(s.sellersPath, id+"\n")
}

// SetCursor overwrites the cursor file with url.
func (s *CheckpointStore) SetCursor(ctx context.Context, url string) error {
	url = sanitizeLine(url)
	if url == "" {
		return outreach.Errorf(outreach.EINVALID, "cursor URL required")
	}
	if err := ensureDir(s.cursorPath); err != nil {
		return err
	}
	return os.WriteFile(s.cursorPath, []byte(url), 0644)
}

// Cursor returns the persisted cursor. A missing or blank file yields "".
func (s *CheckpointStore) Cursor(ctx context.Context) (string, error) {
	b, err := os.ReadFile(s.cursorPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Clear removes all three files. Missing files are ignored.
func (s *CheckpointStore) Clear(ctx context.Context) error {
	for _, path := range []string{s.linksPath, s.sellersPath, s.cursorPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// readLines returns the non-blank lines of path, creating it if absent.
func readLines(path string) ([]string, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// appendString appends s to path with O_APPEND so earlier bytes are never rewritten.
func appendString(path, s string) error {
	if s == "" {
		return nil
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// sanitizeLine keeps an entry on one line.
func sanitizeLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}
