package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filescope/filescope/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListBasic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "bb")
	writeFile(t, dir, "a10.txt", "a")
	writeFile(t, dir, "a2.txt", "a")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	s := NewScanner(50)
	listing := s.List(context.Background(), dir, ListOptions{SortBy: SortByName, SortDirection: SortAsc})

	require.Empty(t, listing.Error)
	assert.Equal(t, 4, listing.TotalCount)
	require.Len(t, listing.Entries, 4)

	// Directory first, then natural ordering
	assert.Equal(t, []string{"sub", "a2.txt", "a10.txt", "b.txt"}, names(listing.Entries))
	assert.True(t, listing.Entries[0].IsDir)
	assert.Equal(t, "txt", listing.Entries[1].Extension)
	assert.NotEmpty(t, listing.ParentPath)
}

func TestListHiddenPolicy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "visible.txt", "v")
	writeFile(t, dir, ".hidden", "h")

	s := NewScanner(50)

	listing := s.List(context.Background(), dir, ListOptions{SortBy: SortByName})
	assert.Equal(t, []string{"visible.txt"}, names(listing.Entries))
	// Raw enumeration count includes the hidden entry
	assert.Equal(t, 2, listing.TotalCount)

	listing = s.List(context.Background(), dir, ListOptions{SortBy: SortByName, IncludeHidden: true})
	assert.Equal(t, []string{".hidden", "visible.txt"}, names(listing.Entries))
	require.Len(t, listing.Entries, 2)
	assert.True(t, listing.Entries[0].Hidden)
}

func TestListMaxItems(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		writeFile(t, dir, n, "x")
	}

	s := NewScanner(2)
	listing := s.List(context.Background(), dir, ListOptions{SortBy: SortByName, MaxItems: 3})

	assert.Len(t, listing.Entries, 3)
	assert.Equal(t, 5, listing.TotalCount)
}

func TestListMissingPathReturnsErrorField(t *testing.T) {
	s := NewScanner(50)
	listing := s.List(context.Background(), "/definitely/not/here", ListOptions{})

	assert.NotEmpty(t, listing.Error)
	assert.Empty(t, listing.Entries)
	assert.Zero(t, listing.TotalCount)
}

func TestListFileIsNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain.txt", "x")

	s := NewScanner(50)
	listing := s.List(context.Background(), file, ListOptions{})
	assert.NotEmpty(t, listing.Error)
}

func TestListRootHasNoParent(t *testing.T) {
	root := string(filepath.Separator)
	s := NewScanner(50)
	listing := s.List(context.Background(), root, ListOptions{MaxItems: 1})
	assert.Empty(t, listing.ParentPath)
}

func TestListBrokenSymlinkSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "real.txt", "x")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling")))

	s := NewScanner(50)
	listing := s.List(context.Background(), dir, ListOptions{SortBy: SortByName})

	assert.Equal(t, []string{"real.txt"}, names(listing.Entries))
	assert.Equal(t, 2, listing.TotalCount)
}

func TestListEntryFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.PDF", "content")

	s := NewScanner(50)
	listing := s.List(context.Background(), dir, ListOptions{})
	require.Len(t, listing.Entries, 1)

	e := listing.Entries[0]
	assert.Equal(t, "doc.PDF", e.Name)
	assert.Equal(t, path, e.Path)
	assert.Equal(t, "pdf", e.Extension, "extension is lowercased")
	assert.Equal(t, int64(7), e.Size)
	assert.WithinDuration(t, time.Now(), e.Modified, time.Minute)
	assert.True(t, e.Permissions.Read)
	assert.True(t, e.Permissions.Write)
	assert.False(t, e.Permissions.Execute)
}

func TestProviderListCachesResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "1")

	p := NewProvider(Options{CacheTTL: time.Minute}, logging.NewNop())

	res, err := p.Execute(context.Background(), "fs.list", map[string]interface{}{"path": dir}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Data["total_count"])

	// A new file is not visible until the TTL lapses
	writeFile(t, dir, "two.txt", "2")
	res, err = p.Execute(context.Background(), "fs.list", map[string]interface{}{"path": dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Data["total_count"])
}

func TestProviderListEnforcesConfiguredCap(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		writeFile(t, dir, n, "x")
	}

	p := NewProvider(Options{MaxResults: 2}, logging.NewNop())

	// No max_items: the configured cap is the default.
	res, err := p.Execute(context.Background(), "fs.list", map[string]interface{}{"path": dir}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Len(t, res.Data["entries"], 2)
	assert.Equal(t, 4, res.Data["total_count"])

	// A larger request is clamped to the cap.
	res, err = p.Execute(context.Background(), "fs.list", map[string]interface{}{"path": dir, "max_items": float64(10)}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Data["entries"], 2)

	// A smaller request stands.
	res, err = p.Execute(context.Background(), "fs.list", map[string]interface{}{"path": dir, "max_items": float64(1)}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Data["entries"], 1)
}

func TestProviderExists(t *testing.T) {
	dir := t.TempDir()
	p := NewProvider(Options{}, logging.NewNop())

	res, err := p.Execute(context.Background(), "fs.exists", map[string]interface{}{"path": dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, res.Data["exists"])
	assert.Equal(t, true, res.Data["is_dir"])

	res, err = p.Execute(context.Background(), "fs.exists", map[string]interface{}{"path": filepath.Join(dir, "nope")}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, res.Data["exists"])
}

func TestProviderSearch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested", "deep"), 0o755))
	writeFile(t, dir, "top.go", "x")
	writeFile(t, filepath.Join(dir, "nested"), "mid.go", "x")
	writeFile(t, filepath.Join(dir, "nested", "deep"), "leaf.txt", "x")

	p := NewProvider(Options{}, logging.NewNop())
	res, err := p.Execute(context.Background(), "fs.search", map[string]interface{}{
		"path":    dir,
		"pattern": "**/*.go",
	}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	matches := res.Data["matches"].([]string)
	assert.Len(t, matches, 2)
}

func TestProviderUnknownTool(t *testing.T) {
	p := NewProvider(Options{}, logging.NewNop())
	res, _ := p.Execute(context.Background(), "fs.bogus", nil, nil)
	assert.False(t, res.Success)
}
