package service

import (
	"context"
	"errors"
	"testing"

	"github.com/filescope/filescope/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a minimal provider for routing tests.
type stubProvider struct {
	id       string
	category types.Category
	tools    int
	result   *types.Result
	err      error
	lastTool string
}

func (s *stubProvider) Definition() types.Service {
	tools := make([]types.Tool, s.tools)
	for i := range tools {
		tools[i] = types.Tool{ID: s.id + ".tool"}
	}
	return types.Service{ID: s.id, Category: s.category, Tools: tools}
}

func (s *stubProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s.lastTool = toolID
	return s.result, s.err
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &stubProvider{id: "fs", category: types.CategoryFilesystem}
	require.NoError(t, r.Register(p))

	got, ok := r.Get("fs")
	assert.True(t, ok)
	assert.Same(t, p, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsEmptyID(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(&stubProvider{id: ""}))
}

func TestListSortedAndFiltered(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubProvider{id: "transfer", category: types.CategoryTransfer}))
	require.NoError(t, r.Register(&stubProvider{id: "fs", category: types.CategoryFilesystem}))
	require.NoError(t, r.Register(&stubProvider{id: "clipboard", category: types.CategoryClipboard}))

	all := r.List(nil)
	require.Len(t, all, 3)
	assert.Equal(t, "clipboard", all[0].ID)
	assert.Equal(t, "fs", all[1].ID)
	assert.Equal(t, "transfer", all[2].ID)

	cat := types.CategoryTransfer
	filtered := r.List(&cat)
	require.Len(t, filtered, 1)
	assert.Equal(t, "transfer", filtered[0].ID)
}

func TestExecuteRoutesByPrefix(t *testing.T) {
	r := NewRegistry()
	p := &stubProvider{id: "fs", result: &types.Result{Success: true}}
	require.NoError(t, r.Register(p))

	res, err := r.Execute(context.Background(), "fs.list", map[string]interface{}{"path": "/"}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "fs.list", p.lastTool)
}

func TestExecuteUnknownService(t *testing.T) {
	r := NewRegistry()
	res, err := r.Execute(context.Background(), "ghost.list", nil, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Success)
}

func TestExecuteMalformedToolID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), "nodot", nil, nil)
	assert.Error(t, err)
}

func TestExecutePropagatesProviderError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	require.NoError(t, r.Register(&stubProvider{id: "fs", err: boom}))

	_, err := r.Execute(context.Background(), "fs.list", nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubProvider{id: "fs", category: types.CategoryFilesystem, tools: 3}))
	require.NoError(t, r.Register(&stubProvider{id: "nav", category: types.CategoryNavigation, tools: 2}))

	stats := r.Stats()
	assert.Equal(t, 2, stats["total_services"])
	assert.Equal(t, 5, stats["total_tools"])
	assert.Equal(t, map[string]int{"filesystem": 1, "navigation": 1}, stats["categories"])
}
