package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/filescope/filescope/internal/shared/types"
)

// Provider implements settings and configuration management
type Provider struct {
	store *Store
	cache sync.Map
}

// Setting represents a configuration setting
type Setting struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"` // "string", "number", "boolean", "json"
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// NewProvider creates a settings provider backed by store.
func NewProvider(store *Store) *Provider {
	p := &Provider{store: store}
	p.initializeDefaults()

	// Persisted values override defaults.
	for key, value := range store.All() {
		p.overlay(key, value)
	}
	return p
}

// Store returns the backing store.
func (s *Provider) Store() *Store {
	return s.store
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "settings",
		Name:        "Settings Service",
		Description: "User preferences and folder overrides",
		Category:    types.CategorySettings,
		Capabilities: []string{
			"get",
			"set",
			"list",
			"reset",
		},
		Tools: []types.Tool{
			{
				ID:          "settings.get",
				Name:        "Get Setting",
				Description: "Get a configuration setting value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
				},
				Returns: "Setting",
			},
			{
				ID:          "settings.set",
				Name:        "Set Setting",
				Description: "Set a configuration setting value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
					{Name: "value", Type: "any", Description: "Setting value", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "settings.list",
				Name:        "List Settings",
				Description: "List all settings optionally filtered by category",
				Parameters: []types.Parameter{
					{Name: "category", Type: "string", Description: "Category filter (optional)", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "settings.reset",
				Name:        "Reset Setting",
				Description: "Reset a setting to its default value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a settings operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "settings.get":
		return s.get(params)
	case "settings.set":
		return s.set(params)
	case "settings.list":
		return s.list(params)
	case "settings.reset":
		return s.reset(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// initializeDefaults sets up default settings
func (s *Provider) initializeDefaults() {
	defaults := map[string]Setting{
		"browse.show_hidden": {Key: "browse.show_hidden", Value: false, Type: "boolean", Category: "browse", Description: "Show hidden files in listings", Default: false},
		"browse.sort_by":     {Key: "browse.sort_by", Value: "name", Type: "string", Category: "browse", Description: "Default sort field", Default: "name"},
		"browse.sort_dir":    {Key: "browse.sort_dir", Value: "asc", Type: "string", Category: "browse", Description: "Default sort direction", Default: "asc"},
		"browse.view_mode":   {Key: "browse.view_mode", Value: "list", Type: "string", Category: "browse", Description: "Listing view mode", Default: "list"},

		"transfer.confirm_delete": {Key: "transfer.confirm_delete", Value: true, Type: "boolean", Category: "transfer", Description: "Ask before deleting", Default: true},
		"transfer.use_external":   {Key: "transfer.use_external", Value: true, Type: "boolean", Category: "transfer", Description: "Prefer the external transfer tool when present", Default: true},
	}

	for k, v := range defaults {
		s.cache.Store(k, v)
	}
}

// overlay applies a persisted value on top of the default metadata.
func (s *Provider) overlay(key string, value interface{}) {
	if val, ok := s.cache.Load(key); ok {
		setting := val.(Setting)
		setting.Value = value
		s.cache.Store(key, setting)
		return
	}
	s.cache.Store(key, Setting{
		Key:      key,
		Value:    value,
		Type:     inferType(value),
		Category: categoryOf(key),
	})
}

func (s *Provider) get(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	if val, ok := s.cache.Load(key); ok {
		setting := val.(Setting)
		return success(map[string]interface{}{
			"key":         setting.Key,
			"value":       setting.Value,
			"type":        setting.Type,
			"category":    setting.Category,
			"description": setting.Description,
			"default":     setting.Default,
		})
	}
	return failure(fmt.Sprintf("setting not found: %s", key))
}

func (s *Provider) set(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}
	value := params["value"]
	if value == nil {
		return failure("value parameter required")
	}

	s.overlay(key, value)
	if err := s.store.Set(key, value); err != nil {
		return failure(fmt.Sprintf("failed to persist setting: %v", err))
	}
	return success(map[string]interface{}{"stored": true, "key": key})
}

func (s *Provider) list(params map[string]interface{}) (*types.Result, error) {
	category, _ := params["category"].(string)

	var settings []Setting
	s.cache.Range(func(key, value interface{}) bool {
		setting := value.(Setting)
		if category == "" || setting.Category == category {
			settings = append(settings, setting)
		}
		return true
	})

	return success(map[string]interface{}{"settings": settings, "count": len(settings)})
}

func (s *Provider) reset(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	val, ok := s.cache.Load(key)
	if !ok {
		return failure(fmt.Sprintf("setting not found: %s", key))
	}

	setting := val.(Setting)
	setting.Value = setting.Default
	s.cache.Store(key, setting)
	if err := s.store.Delete(key); err != nil {
		return failure(fmt.Sprintf("failed to persist reset: %v", err))
	}

	return success(map[string]interface{}{"reset": true, "key": key, "value": setting.Default})
}

// Helper functions
func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}

func inferType(value interface{}) string {
	switch value.(type) {
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case string:
		return "string"
	default:
		return "json"
	}
}

func categoryOf(key string) string {
	for i, r := range key {
		if r == '.' {
			return key[:i]
		}
	}
	return "custom"
}
