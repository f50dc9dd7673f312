package scanner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/filescope/filescope/internal/cache"
	"github.com/filescope/filescope/internal/logging"
	"github.com/filescope/filescope/internal/shared/fstime"
	"github.com/filescope/filescope/internal/shared/types"
)

// Provider exposes directory scanning as a registered service.
type Provider struct {
	scanner  *Scanner
	cache    *cache.Cache[*Listing]
	maxItems int
	log      *logging.Logger
}

// Options configures the scanner provider. MaxResults caps fs.list: it
// is the default when the caller sends no max_items and the ceiling when
// it does. Observer receives listing-cache hit/miss counts.
type Options struct {
	BatchSize  int
	CacheTTL   time.Duration
	CacheSize  int
	MaxResults int
	Observer   cache.Observer
}

// NewProvider creates a scanner provider with its own listing cache.
func NewProvider(opts Options, log *logging.Logger) *Provider {
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Second
	}
	return &Provider{
		scanner:  NewScanner(opts.BatchSize),
		cache:    cache.New[*Listing](ttl, opts.CacheSize).Observe("listing", opts.Observer),
		maxItems: opts.MaxResults,
		log:      log,
	}
}

// Scanner returns the underlying scan engine for composition by other
// services.
func (p *Provider) Scanner() *Scanner {
	return p.scanner
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "fs",
		Name:        "Directory Scanner",
		Description: "Batched, filtered, sorted directory listings",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"list",
			"sort",
			"hidden_filter",
			"search",
			"mime_detection",
		},
		Tools: []types.Tool{
			{
				ID:          "fs.list",
				Name:        "List Directory",
				Description: "List one directory's entries with sorting and filtering",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path", Required: true},
					{Name: "include_hidden", Type: "boolean", Description: "Include hidden entries", Required: false},
					{Name: "sort_by", Type: "string", Description: "Sort field (name/size/modified)", Required: false},
					{Name: "sort_direction", Type: "string", Description: "Sort direction (asc/desc)", Required: false},
					{Name: "max_items", Type: "number", Description: "Maximum entries to return", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "fs.exists",
				Name:        "Check Path Exists",
				Description: "Check whether a path exists",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path to check", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "fs.stat",
				Name:        "Stat Path",
				Description: "Get metadata for a single path",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path to stat", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "fs.mimetype",
				Name:        "Detect MIME Type",
				Description: "Detect file MIME type from content",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "fs.search",
				Name:        "Search Files",
				Description: "Recursive glob search (gitignore-style ** patterns)",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Root directory", Required: true},
					{Name: "pattern", Type: "string", Description: "Glob pattern (e.g. '**/*.go')", Required: true},
					{Name: "max_results", Type: "number", Description: "Result cap", Required: false},
				},
				Returns: "array",
			},
		},
	}
}

// Execute runs a scanner operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "fs.list":
		return p.list(ctx, params)
	case "fs.exists":
		return p.exists(params)
	case "fs.stat":
		return p.stat(params)
	case "fs.mimetype":
		return p.mime(params)
	case "fs.search":
		return p.search(ctx, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) list(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required")
	}

	opts := ListOptions{SortBy: SortByName, SortDirection: SortAsc}
	if v, ok := params["include_hidden"].(bool); ok {
		opts.IncludeHidden = v
	}
	if v, ok := params["sort_by"].(string); ok && v != "" {
		opts.SortBy = SortField(v)
	}
	if v, ok := params["sort_direction"].(string); ok && v != "" {
		opts.SortDirection = SortDirection(v)
	}
	if v, ok := params["max_items"].(float64); ok && v > 0 {
		opts.MaxItems = int(v)
	}
	if p.maxItems > 0 && (opts.MaxItems == 0 || opts.MaxItems > p.maxItems) {
		opts.MaxItems = p.maxItems
	}

	key := fmt.Sprintf("%s|%t|%s|%s|%d", path, opts.IncludeHidden, opts.SortBy, opts.SortDirection, opts.MaxItems)
	listing, ok := p.cache.Get(key)
	if !ok {
		listing = p.scanner.List(ctx, path, opts)
		if listing.Error == "" {
			p.cache.Set(key, listing)
		}
	}

	data := map[string]interface{}{
		"path":        listing.Path,
		"entries":     listing.Entries,
		"total_count": listing.TotalCount,
	}
	if listing.ParentPath != "" {
		data["parent_path"] = listing.ParentPath
	}
	if listing.Error != "" {
		data["error"] = listing.Error
	}
	return success(data)
}

func (p *Provider) exists(params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required")
	}

	exists, isDir := p.scanner.Exists(path)
	return success(map[string]interface{}{
		"path":   path,
		"exists": exists,
		"is_dir": isDir,
	})
}

func (p *Provider) stat(params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return failure(fmt.Sprintf("stat failed: %v", err))
	}

	return success(map[string]interface{}{
		"path":     path,
		"name":     info.Name(),
		"size":     info.Size(),
		"is_dir":   info.IsDir(),
		"mode":     info.Mode().String(),
		"modified": info.ModTime(),
		"created":  fstime.CreatedTime(info),
	})
}

func (p *Provider) mime(params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required")
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return failure(fmt.Sprintf("mime detection failed: %v", err))
	}

	return success(map[string]interface{}{
		"path":      path,
		"mime_type": mtype.String(),
		"extension": mtype.Extension(),
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
