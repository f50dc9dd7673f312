package clipboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/filescope/filescope/internal/providers/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newCoordinator() *Coordinator {
	return NewCoordinator(transfer.NewEngine(nil, nil, nil, nil))
}

func TestCopyPasteIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst1 := filepath.Join(dir, "one")
	dst2 := filepath.Join(dir, "two")
	write(t, src, "payload")
	require.NoError(t, os.Mkdir(dst1, 0o755))
	require.NoError(t, os.Mkdir(dst2, 0o755))

	c := newCoordinator()
	c.SetCopy([]string{src})

	results, err := c.Paste(context.Background(), dst1, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	results, err = c.Paste(context.Background(), dst2, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	assert.FileExists(t, src, "copy leaves the source alone")
	assert.FileExists(t, filepath.Join(dst1, "a.txt"))
	assert.FileExists(t, filepath.Join(dst2, "a.txt"))

	mode, items := c.Contents()
	assert.Equal(t, ModeCopy, mode)
	assert.Len(t, items, 1, "copy clipboard survives pastes")
}

func TestCutPasteConsumesClipboard(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "dest")
	write(t, src, "payload")
	require.NoError(t, os.Mkdir(dst, 0o755))

	c := newCoordinator()
	c.SetCut([]string{src})

	results, err := c.Paste(context.Background(), dst, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(dst, "a.txt"))

	mode, items := c.Contents()
	assert.Equal(t, ModeNone, mode)
	assert.Empty(t, items)

	_, err = c.Paste(context.Background(), dst, "")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCutPastePartialFailureStillConsumes(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	dst := filepath.Join(dir, "dest")
	write(t, good, "ok")
	require.NoError(t, os.Mkdir(dst, 0o755))

	c := newCoordinator()
	c.SetCut([]string{filepath.Join(dir, "vanished.txt"), good})

	results, err := c.Paste(context.Background(), dst, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)

	mode, _ := c.Contents()
	assert.Equal(t, ModeNone, mode, "cut clipboard empties even on partial failure")
}

func TestStagingReplacesContents(t *testing.T) {
	c := newCoordinator()
	c.SetCopy([]string{"/tmp/a", "/tmp/b"})
	c.SetCut([]string{"/tmp/c"})

	mode, items := c.Contents()
	assert.Equal(t, ModeCut, mode)
	assert.Equal(t, []string{"/tmp/c"}, items)

	c.Clear()
	mode, items = c.Contents()
	assert.Equal(t, ModeNone, mode)
	assert.Empty(t, items)
}

func TestPasteEmptyClipboard(t *testing.T) {
	c := newCoordinator()
	_, err := c.Paste(context.Background(), t.TempDir(), "")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestProviderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "dest")
	write(t, src, "x")
	require.NoError(t, os.Mkdir(dst, 0o755))

	p := NewProvider(newCoordinator())

	res, err := p.Execute(context.Background(), "clipboard.copy", map[string]interface{}{
		"paths": []interface{}{src},
	}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "copy", res.Data["mode"])

	res, err = p.Execute(context.Background(), "clipboard.paste", map[string]interface{}{
		"destination": dst,
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Data["transfer_id"])
	assert.FileExists(t, filepath.Join(dst, "a.txt"))

	res, err = p.Execute(context.Background(), "clipboard.state", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Data["count"])
}
