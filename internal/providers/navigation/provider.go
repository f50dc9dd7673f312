package navigation

import (
	"context"
	"fmt"

	"github.com/filescope/filescope/internal/shared/types"
)

// Provider exposes the guard as the "nav" service.
type Provider struct {
	guard *Guard
}

// NewProvider creates the navigation provider.
func NewProvider(guard *Guard) *Provider {
	return &Provider{guard: guard}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "nav",
		Name:         "Navigation Service",
		Description:  "Validate navigation targets and resolve known folders",
		Category:     types.CategoryNavigation,
		Capabilities: []string{"validation", "aliases"},
		Tools: []types.Tool{
			{
				ID:          "nav.validate",
				Name:        "Validate Path",
				Description: "Check that a path is absolute and names an existing directory",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Candidate path", Required: true},
				},
				Returns: "validation",
			},
			{
				ID:          "nav.resolve",
				Name:        "Resolve Known Folder",
				Description: "Map an alias like home or downloads to its path",
				Parameters: []types.Parameter{
					{Name: "alias", Type: "string", Description: "Folder alias", Required: true},
				},
				Returns: "path",
			},
			{
				ID:          "nav.aliases",
				Name:        "List Aliases",
				Description: "List every known-folder alias with its resolution",
				Returns:     "aliases",
			},
		},
	}
}

// Execute runs a navigation tool.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "nav.validate":
		path, ok := params["path"].(string)
		if !ok {
			return failure("path parameter required"), nil
		}
		v := p.guard.Validate(path)
		return &types.Result{Success: true, Data: map[string]interface{}{
			"path":   v.Path,
			"valid":  v.Valid,
			"exists": v.Exists,
			"is_dir": v.IsDir,
			"reason": v.Reason,
		}}, nil

	case "nav.resolve":
		alias, ok := params["alias"].(string)
		if !ok || alias == "" {
			return failure("alias parameter required"), nil
		}
		path, err := p.guard.Resolve(alias)
		if err != nil {
			return failure(err.Error()), nil
		}
		return success(map[string]interface{}{"alias": alias, "path": path}), nil

	case "nav.aliases":
		return success(map[string]interface{}{"aliases": p.guard.Aliases()}), nil

	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func success(data map[string]interface{}) *types.Result {
	return &types.Result{Success: true, Data: data}
}

func failure(message string) *types.Result {
	return &types.Result{Success: false, Error: &message}
}
