package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/filescope/filescope/internal/shared/fstime"
)

// Scanner lists and classifies one directory's entries.
type Scanner struct {
	batchSize int
	links     LinkResolver
}

// NewScanner creates a scanner with the given stat batch size.
func NewScanner(batchSize int) *Scanner {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Scanner{
		batchSize: batchSize,
		links:     newLinkResolver(),
	}
}

// List scans a single directory. Enumeration failures are reported in the
// listing's Error field; List itself never fails.
func (s *Scanner) List(ctx context.Context, path string, opts ListOptions) *Listing {
	listing := &Listing{Path: path, Entries: []Entry{}}

	info, err := os.Stat(path)
	if err != nil {
		listing.Error = fmt.Sprintf("path not accessible: %v", err)
		return listing
	}
	if !info.IsDir() {
		listing.Error = fmt.Sprintf("not a directory: %s", path)
		return listing
	}

	dirents, err := os.ReadDir(path)
	if err != nil {
		listing.Error = fmt.Sprintf("read failed: %v", err)
		return listing
	}
	listing.TotalCount = len(dirents)

	accepted := make([]Entry, 0, len(dirents))

batches:
	for start := 0; start < len(dirents); start += s.batchSize {
		select {
		case <-ctx.Done():
			break batches
		default:
		}

		end := start + s.batchSize
		if end > len(dirents) {
			end = len(dirents)
		}
		batch := dirents[start:end]

		// Concurrent stats within a batch, sequential across batches.
		results := make([]*Entry, len(batch))
		var wg sync.WaitGroup
		for i, de := range batch {
			wg.Add(1)
			go func(i int, de os.DirEntry) {
				defer wg.Done()
				results[i] = s.examine(path, de)
			}(i, de)
		}
		wg.Wait()

		for _, e := range results {
			if e == nil {
				continue // per-item stat failure, skipped silently
			}
			if e.Hidden && !opts.IncludeHidden {
				continue
			}
			accepted = append(accepted, *e)
			if opts.MaxItems > 0 && len(accepted) >= opts.MaxItems {
				break batches
			}
		}
	}

	sortEntries(accepted, opts.SortBy, opts.SortDirection)
	listing.Entries = accepted

	if parent := filepath.Dir(path); parent != path {
		listing.ParentPath = parent
	}
	return listing
}

// Exists reports whether path exists and whether it is a directory.
func (s *Scanner) Exists(path string) (exists, isDir bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

// examine builds an Entry for one raw directory entry. A nil return means
// the entry should be skipped.
func (s *Scanner) examine(dir string, de os.DirEntry) *Entry {
	name := de.Name()
	full := filepath.Join(dir, name)

	info, forcedExt, skip := s.links.Resolve(full, de)
	if skip || info == nil {
		return nil
	}

	e := &Entry{
		Name:     name,
		Path:     full,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Created:  fstime.CreatedTime(info),
		Hidden:   strings.HasPrefix(name, ".") || platformHidden(full, info),
		System:   platformSystem(full, info),
	}

	if !e.IsDir {
		if forcedExt != "" {
			e.Extension = forcedExt
		} else {
			e.Extension = strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		}
	}

	mode := info.Mode()
	e.Permissions = Permissions{
		Read:    mode&0o400 != 0,
		Write:   mode&0o200 != 0,
		Execute: mode&0o100 != 0,
	}

	return e
}
