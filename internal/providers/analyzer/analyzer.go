// Package analyzer aggregates folder metadata: sizes, entry counts and an
// extension histogram, bounded by a fixed recursion depth.
package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/filescope/filescope/internal/shared/fstime"
)

// NoExtension is the histogram bucket for files without an extension.
const NoExtension = "<none>"

// Metadata summarises a folder subtree. The walk is bounded by the
// analyzer's depth limit; entries beyond the bound are not counted, which
// is a documented undercount rather than an error.
type Metadata struct {
	TotalSizeBytes     int64          `json:"total_size_bytes"`
	TotalFiles         int            `json:"total_files"`
	TotalFolders       int            `json:"total_folders"`
	ExtensionHistogram map[string]int `json:"extension_histogram"`
	LastModified       time.Time      `json:"last_modified"`
	Created            time.Time      `json:"created"`
	DepthLimited       bool           `json:"depth_limited"`
}

// Analyzer computes folder metadata with a bounded walk.
type Analyzer struct {
	maxDepth int
}

// New creates an analyzer with the given depth bound.
func New(maxDepth int) *Analyzer {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	return &Analyzer{maxDepth: maxDepth}
}

// Analyze walks the subtree under path and returns the aggregate. The
// result is computed fully before it is returned; callers never observe a
// partially built value. Per-item stat failures are skipped; an unreadable
// subdirectory stops recursion into that branch only.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Metadata, error) {
	rootInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		ExtensionHistogram: make(map[string]int),
		LastModified:       rootInfo.ModTime(),
		Created:            fstime.CreatedTime(rootInfo),
	}

	// fastwalk runs the callback concurrently.
	var mu sync.Mutex
	conf := fastwalk.Config{Follow: false}

	walkErr := fastwalk.Walk(&conf, path, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == path {
			return nil
		}

		rel, relErr := filepath.Rel(path, p)
		if relErr != nil {
			return nil
		}
		depth := len(strings.Split(rel, string(os.PathSeparator)))
		if depth > a.maxDepth {
			mu.Lock()
			meta.DepthLimited = true
			mu.Unlock()
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()

		if info.ModTime().After(meta.LastModified) {
			meta.LastModified = info.ModTime()
		}

		if d.IsDir() {
			meta.TotalFolders++
			return nil
		}

		meta.TotalFiles++
		meta.TotalSizeBytes += info.Size()

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Name()), "."))
		if ext == "" {
			ext = NoExtension
		}
		meta.ExtensionHistogram[ext]++
		return nil
	})
	// fastwalk may wrap the context error it got back from the callback.
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		return nil, walkErr
	}

	return meta, nil
}
