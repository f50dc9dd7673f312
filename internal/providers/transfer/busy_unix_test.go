//go:build !windows

package transfer

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyErr(path string) error {
	return &os.PathError{Op: "open", Path: path, Err: syscall.EBUSY}
}

func TestBusyRetrySucceedsWithinBudget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "locked.txt")
	writeFile(t, src, "eventually readable")

	b := NewDirectBackend(3, time.Second)
	var slept []time.Duration
	b.sleep = func(d time.Duration) { slept = append(slept, d) }

	failures := 2
	b.open = func(path string) (*os.File, error) {
		if failures > 0 {
			failures--
			return nil, busyErr(path)
		}
		return os.Open(path)
	}

	bytes, files, err := b.Copy(context.Background(), src, filepath.Join(dir, "out.txt"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(19), bytes)
	assert.Equal(t, 1, files)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, slept)
}

func TestBusyRetryExhausted(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "locked.txt")
	writeFile(t, src, "never readable")

	b := NewDirectBackend(3, time.Second)
	var slept int
	b.sleep = func(time.Duration) { slept++ }
	b.open = func(path string) (*os.File, error) {
		return nil, busyErr(path)
	}

	_, _, err := b.Copy(context.Background(), src, filepath.Join(dir, "out.txt"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy after 3 retries")
	assert.Equal(t, 3, slept)
}

func TestBusyNonBusyErrorDoesNotRetry(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gone.txt")
	writeFile(t, src, "x")

	b := NewDirectBackend(3, time.Second)
	var slept int
	b.sleep = func(time.Duration) { slept++ }
	b.open = func(path string) (*os.File, error) {
		return nil, &os.PathError{Op: "open", Path: path, Err: syscall.EACCES}
	}

	_, _, err := b.Copy(context.Background(), src, filepath.Join(dir, "out.txt"), nil)
	require.Error(t, err)
	assert.Equal(t, 0, slept)
}
