package transfer

import (
	"context"
	"fmt"

	"github.com/filescope/filescope/internal/shared/id"
	"github.com/filescope/filescope/internal/shared/types"
)

// Provider exposes the engine as the "transfer" service.
type Provider struct {
	engine *Engine
}

// NewProvider creates the transfer provider.
func NewProvider(engine *Engine) *Provider {
	return &Provider{engine: engine}
}

// Engine returns the underlying engine.
func (p *Provider) Engine() *Engine {
	return p.engine
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "transfer",
		Name:         "Transfer Service",
		Description:  "Copy, move, delete, and archive files",
		Category:     types.CategoryTransfer,
		Capabilities: []string{"copy", "move", "delete", "archive"},
		Tools: []types.Tool{
			{
				ID:          "transfer.copy",
				Name:        "Copy Items",
				Description: "Copy files and directories into a destination directory",
				Parameters: []types.Parameter{
					{Name: "sources", Type: "array", Description: "Absolute source paths", Required: true},
					{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
				},
				Returns: "results",
			},
			{
				ID:          "transfer.move",
				Name:        "Move Items",
				Description: "Move files and directories into a destination directory",
				Parameters: []types.Parameter{
					{Name: "sources", Type: "array", Description: "Absolute source paths", Required: true},
					{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
				},
				Returns: "results",
			},
			{
				ID:          "transfer.delete",
				Name:        "Delete Items",
				Description: "Delete files and directories; already-gone paths succeed",
				Parameters: []types.Parameter{
					{Name: "paths", Type: "array", Description: "Absolute paths to delete", Required: true},
				},
				Returns: "results",
			},
			{
				ID:          "transfer.rename",
				Name:        "Rename Item",
				Description: "Rename a file or directory in place",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Absolute path", Required: true},
					{Name: "new_name", Type: "string", Description: "New name without separators", Required: true},
				},
				Returns: "path",
			},
			{
				ID:          "transfer.mkdir",
				Name:        "Create Directory",
				Description: "Create a directory including missing parents",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Absolute path", Required: true},
				},
				Returns: "path",
			},
			{
				ID:          "transfer.compress",
				Name:        "Compress Items",
				Description: "Pack items into a zip or tar archive",
				Parameters: []types.Parameter{
					{Name: "sources", Type: "array", Description: "Absolute source paths", Required: true},
					{Name: "output", Type: "string", Description: "Archive path (.zip, .tar, .tar.gz, .tar.zst)", Required: true},
				},
				Returns: "stats",
			},
			{
				ID:          "transfer.extract",
				Name:        "Extract Archive",
				Description: "Unpack an archive into a directory",
				Parameters: []types.Parameter{
					{Name: "archive", Type: "string", Description: "Archive path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
				},
				Returns: "stats",
			},
		},
	}
}

// Execute runs a transfer tool.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "transfer.copy":
		return p.copyOrMove(ctx, params, appCtx, false)
	case "transfer.move":
		return p.copyOrMove(ctx, params, appCtx, true)
	case "transfer.delete":
		return p.delete(ctx, params)
	case "transfer.rename":
		return p.rename(ctx, params)
	case "transfer.mkdir":
		return p.mkdir(ctx, params)
	case "transfer.compress":
		return p.compress(ctx, params)
	case "transfer.extract":
		return p.extract(ctx, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) copyOrMove(ctx context.Context, params map[string]interface{}, appCtx *types.Context, move bool) (*types.Result, error) {
	sources, err := stringSlice(params, "sources")
	if err != nil {
		return failure(err.Error()), nil
	}
	destination, ok := params["destination"].(string)
	if !ok || destination == "" {
		return failure("destination parameter required"), nil
	}

	transferID := transferID(appCtx)
	var results []ItemResult
	if move {
		results = p.engine.Move(ctx, sources, destination, transferID)
	} else {
		results = p.engine.Copy(ctx, sources, destination, transferID)
	}
	return batchResult(transferID, results), nil
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	paths, err := stringSlice(params, "paths")
	if err != nil {
		return failure(err.Error()), nil
	}
	return batchResult("", p.engine.Delete(ctx, paths)), nil
}

func (p *Provider) rename(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required"), nil
	}
	newName, ok := params["new_name"].(string)
	if !ok || newName == "" {
		return failure("new_name parameter required"), nil
	}

	newPath, err := p.engine.Rename(ctx, path, newName)
	if err != nil {
		return failure(err.Error()), nil
	}
	return success(map[string]interface{}{"path": newPath}), nil
}

func (p *Provider) mkdir(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return failure("path parameter required"), nil
	}
	if err := p.engine.Mkdir(ctx, path); err != nil {
		return failure(err.Error()), nil
	}
	return success(map[string]interface{}{"path": path, "created": true}), nil
}

func (p *Provider) compress(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	sources, err := stringSlice(params, "sources")
	if err != nil {
		return failure(err.Error()), nil
	}
	output, ok := params["output"].(string)
	if !ok || output == "" {
		return failure("output parameter required"), nil
	}

	stats, err := p.engine.Compress(ctx, sources, output)
	if err != nil {
		return failure(err.Error()), nil
	}
	return success(map[string]interface{}{
		"output": output,
		"files":  stats.Files,
		"bytes":  stats.TotalBytes,
		"format": stats.Format,
	}), nil
}

func (p *Provider) extract(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	archive, ok := params["archive"].(string)
	if !ok || archive == "" {
		return failure("archive parameter required"), nil
	}
	destination, ok := params["destination"].(string)
	if !ok || destination == "" {
		return failure("destination parameter required"), nil
	}

	stats, err := p.engine.Extract(ctx, archive, destination)
	if err != nil {
		return failure(err.Error()), nil
	}
	return success(map[string]interface{}{
		"destination": destination,
		"files":       stats.Files,
		"bytes":       stats.TotalBytes,
		"format":      stats.Format,
	}), nil
}

// transferID uses the caller's ID so progress events correlate with the
// request, minting one when the client did not supply any.
func transferID(appCtx *types.Context) string {
	if appCtx != nil && appCtx.TransferID != nil && *appCtx.TransferID != "" {
		return *appCtx.TransferID
	}
	return id.NewTransferID().String()
}

func stringSlice(params map[string]interface{}, key string) ([]string, error) {
	raw, ok := params[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%s array required", key)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("%s must contain non-empty strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func batchResult(transferID string, results []ItemResult) *types.Result {
	allOK := true
	for _, r := range results {
		if !r.Success {
			allOK = false
			break
		}
	}
	data := map[string]interface{}{"results": results, "count": len(results)}
	if transferID != "" {
		data["transfer_id"] = transferID
	}
	res := &types.Result{Success: allOK, Data: data}
	if !allOK {
		msg := "one or more items failed"
		res.Error = &msg
	}
	return res
}

func success(data map[string]interface{}) *types.Result {
	return &types.Result{Success: true, Data: data}
}

func failure(message string) *types.Result {
	return &types.Result{Success: false, Error: &message}
}
