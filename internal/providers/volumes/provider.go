package volumes

import (
	"context"
	"errors"
	"fmt"

	"github.com/filescope/filescope/internal/shared/types"
)

// Provider exposes volume enumeration as the "volumes" service.
type Provider struct {
	enum *Enumerator
}

// NewProvider creates the volumes provider.
func NewProvider(enum *Enumerator) *Provider {
	return &Provider{enum: enum}
}

// Enumerator returns the underlying enumerator.
func (p *Provider) Enumerator() *Enumerator {
	return p.enum
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "volumes",
		Name:        "Volume Service",
		Description: "Enumerate and manage mounted volumes",
		Category:    types.CategoryVolumes,
		Capabilities: []string{"enumeration", "labeling"},
		Tools: []types.Tool{
			{
				ID:          "volumes.list",
				Name:        "List Volumes",
				Description: "List mounted volumes with capacity and device metadata",
				Returns:     "volumes",
			},
			{
				ID:          "volumes.refresh",
				Name:        "Refresh Volumes",
				Description: "Drop the cached enumeration and re-query the system",
				Returns:     "volumes",
			},
			{
				ID:          "volumes.rename",
				Name:        "Rename Volume",
				Description: "Change a volume label (requires elevation)",
				Parameters: []types.Parameter{
					{Name: "mount_path", Type: "string", Description: "Mount path of the volume", Required: true},
					{Name: "label", Type: "string", Description: "New volume label", Required: true},
				},
				Returns: "result",
			},
		},
	}
}

// Execute runs a volume tool.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "volumes.list":
		return p.list(ctx)
	case "volumes.refresh":
		p.enum.Refresh()
		return p.list(ctx)
	case "volumes.rename":
		return p.rename(ctx, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) list(ctx context.Context) (*types.Result, error) {
	vols := p.enum.List(ctx)
	return success(map[string]interface{}{"volumes": vols, "count": len(vols)}), nil
}

func (p *Provider) rename(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	mountPath, ok := params["mount_path"].(string)
	if !ok || mountPath == "" {
		return failure("mount_path parameter required"), nil
	}
	label, ok := params["label"].(string)
	if !ok || label == "" {
		return failure("label parameter required"), nil
	}

	if err := p.enum.Rename(ctx, mountPath, label); err != nil {
		if errors.Is(err, ErrNeedsElevation) {
			res := failure(err.Error())
			res.Data = map[string]interface{}{"needs_elevation": true}
			return res, nil
		}
		return failure(err.Error()), nil
	}
	return success(map[string]interface{}{"mount_path": mountPath, "label": label}), nil
}

func success(data map[string]interface{}) *types.Result {
	return &types.Result{Success: true, Data: data}
}

func failure(message string) *types.Result {
	return &types.Result{Success: false, Error: &message}
}
