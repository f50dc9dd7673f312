package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/filescope/filescope/internal/cache"
	"github.com/filescope/filescope/internal/logging"
	"github.com/filescope/filescope/internal/shared/types"
)

// Provider exposes folder analysis as a registered service. Results are
// served through a longer-lived cache than directory listings since
// aggregate metadata changes less often than a single directory.
type Provider struct {
	analyzer *Analyzer
	cache    *cache.Cache[*Metadata]
	log      *logging.Logger
}

// Options configures the analyzer provider. Observer receives
// metadata-cache hit/miss counts.
type Options struct {
	MaxDepth  int
	CacheTTL  time.Duration
	CacheSize int
	Observer  cache.Observer
}

// NewProvider creates an analyzer provider.
func NewProvider(opts Options, log *logging.Logger) *Provider {
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 60 * time.Second
	}
	return &Provider{
		analyzer: New(opts.MaxDepth),
		cache:    cache.New[*Metadata](ttl, opts.CacheSize).Observe("metadata", opts.Observer),
		log:      log,
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "folder",
		Name:        "Folder Analyzer",
		Description: "Recursive folder size, count and extension aggregation",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"size_aggregation",
			"extension_histogram",
			"depth_bounded",
		},
		Tools: []types.Tool{
			{
				ID:          "folder.analyze",
				Name:        "Analyze Folder",
				Description: "Aggregate size, counts and extension histogram for a folder",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Folder path", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs an analyzer operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "folder.analyze":
		return p.analyze(ctx, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) analyze(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required")
	}

	meta, ok := p.cache.Get(path)
	if !ok {
		var err error
		meta, err = p.analyzer.Analyze(ctx, path)
		if err != nil {
			return failure(fmt.Sprintf("analysis failed: %v", err))
		}
		p.cache.Set(path, meta)
	}

	return success(map[string]interface{}{
		"path":                path,
		"total_size_bytes":    meta.TotalSizeBytes,
		"total_files":         meta.TotalFiles,
		"total_folders":       meta.TotalFolders,
		"extension_histogram": meta.ExtensionHistogram,
		"last_modified":       meta.LastModified,
		"created":             meta.Created,
		"depth_limited":       meta.DepthLimited,
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
