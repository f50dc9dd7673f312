package clipboard

import (
	"context"
	"fmt"

	"github.com/filescope/filescope/internal/shared/id"
	"github.com/filescope/filescope/internal/shared/types"
)

// Provider exposes the coordinator as the "clipboard" service.
type Provider struct {
	coord *Coordinator
}

// NewProvider creates the clipboard provider.
func NewProvider(coord *Coordinator) *Provider {
	return &Provider{coord: coord}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "clipboard",
		Name:         "Clipboard Service",
		Description:  "Stage files for copy or cut and paste them elsewhere",
		Category:     types.CategoryClipboard,
		Capabilities: []string{"staging", "paste"},
		Tools: []types.Tool{
			{
				ID:          "clipboard.copy",
				Name:        "Stage Copy",
				Description: "Replace the clipboard with items to copy",
				Parameters: []types.Parameter{
					{Name: "paths", Type: "array", Description: "Absolute paths", Required: true},
				},
				Returns: "state",
			},
			{
				ID:          "clipboard.cut",
				Name:        "Stage Cut",
				Description: "Replace the clipboard with items to move",
				Parameters: []types.Parameter{
					{Name: "paths", Type: "array", Description: "Absolute paths", Required: true},
				},
				Returns: "state",
			},
			{
				ID:          "clipboard.paste",
				Name:        "Paste",
				Description: "Apply the clipboard to a destination directory",
				Parameters: []types.Parameter{
					{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
				},
				Returns: "results",
			},
			{
				ID:          "clipboard.state",
				Name:        "Clipboard State",
				Description: "Report the held items without consuming them",
				Returns:     "state",
			},
			{
				ID:          "clipboard.clear",
				Name:        "Clear Clipboard",
				Description: "Empty the clipboard",
				Returns:     "state",
			},
		},
	}
}

// Execute runs a clipboard tool.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "clipboard.copy":
		return p.stage(params, false)
	case "clipboard.cut":
		return p.stage(params, true)
	case "clipboard.paste":
		return p.paste(ctx, params, appCtx)
	case "clipboard.state":
		return p.state(), nil
	case "clipboard.clear":
		p.coord.Clear()
		return p.state(), nil
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) stage(params map[string]interface{}, cut bool) (*types.Result, error) {
	raw, ok := params["paths"].([]interface{})
	if !ok || len(raw) == 0 {
		return failure("paths array required"), nil
	}
	paths := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok || s == "" {
			return failure("paths must contain non-empty strings"), nil
		}
		paths = append(paths, s)
	}

	if cut {
		p.coord.SetCut(paths)
	} else {
		p.coord.SetCopy(paths)
	}
	return p.state(), nil
}

func (p *Provider) paste(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	destination, ok := params["destination"].(string)
	if !ok || destination == "" {
		return failure("destination parameter required"), nil
	}

	transferID := ""
	if appCtx != nil && appCtx.TransferID != nil {
		transferID = *appCtx.TransferID
	}
	if transferID == "" {
		transferID = id.NewTransferID().String()
	}

	results, err := p.coord.Paste(ctx, destination, transferID)
	if err != nil {
		return failure(err.Error()), nil
	}

	allOK := true
	for _, r := range results {
		if !r.Success {
			allOK = false
			break
		}
	}
	res := &types.Result{Success: allOK, Data: map[string]interface{}{
		"results":     results,
		"count":       len(results),
		"transfer_id": transferID,
	}}
	if !allOK {
		msg := "one or more items failed"
		res.Error = &msg
	}
	return res, nil
}

func (p *Provider) state() *types.Result {
	mode, items := p.coord.Contents()
	return &types.Result{Success: true, Data: map[string]interface{}{
		"mode":  string(mode),
		"items": items,
		"count": len(items),
	}}
}

func failure(message string) *types.Result {
	return &types.Result{Success: false, Error: &message}
}
