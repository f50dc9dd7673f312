package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/filescope/filescope/internal/shared/types"
)

const defaultSearchCap = 500

// search walks the subtree under a root and matches relative paths against
// a doublestar glob. Per-entry errors are skipped; the walk stops once the
// result cap is reached.
func (p *Provider) search(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := params["path"].(string)
	if !ok || root == "" {
		return failure("path parameter required")
	}
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return failure("pattern parameter required")
	}
	if !doublestar.ValidatePattern(pattern) {
		return failure(fmt.Sprintf("invalid pattern: %s", pattern))
	}

	maxResults := defaultSearchCap
	if v, ok := params["max_results"].(float64); ok && v > 0 {
		maxResults = int(v)
	}

	// fastwalk invokes the callback from multiple goroutines.
	var mu sync.Mutex
	matches := []string{}
	truncated := false
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		matched, _ := doublestar.Match(pattern, rel)
		if !matched {
			// Also try the bare name so "*.go" works at any depth.
			matched, _ = doublestar.Match(pattern, filepath.Base(path))
		}
		if !matched || strings.HasPrefix(filepath.Base(path), ".") {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		if len(matches) >= maxResults {
			truncated = true
			return filepath.SkipAll
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil && err != context.Canceled {
		return failure(fmt.Sprintf("search failed: %v", err))
	}

	return success(map[string]interface{}{
		"path":      root,
		"pattern":   pattern,
		"matches":   matches,
		"count":     len(matches),
		"truncated": truncated,
	})
}
