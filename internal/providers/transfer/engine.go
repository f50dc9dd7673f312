package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/filescope/filescope/internal/infrastructure/resilience"
	"github.com/filescope/filescope/internal/logging"
	"github.com/filescope/filescope/internal/shared/types"
	"go.uber.org/zap"
)

// Notifier receives progress events for streaming to clients. A nil
// notifier is valid and drops everything.
type Notifier interface {
	Publish(event types.ProgressEvent)
}

// Recorder counts moved volume per operation and method. The monitoring
// metrics collector satisfies it.
type Recorder interface {
	RecordTransfer(operation, method string, bytes int64, files int)
}

// Engine runs transfer batches. An optional external backend is tried
// first; any failure there falls back to the direct backend without
// surfacing to the caller, so a missing or broken external tool is
// invisible apart from the method recorded per item. A breaker stops
// calling an external tool that keeps failing.
type Engine struct {
	external Backend
	direct   *DirectBackend
	breaker  *resilience.Breaker
	notifier Notifier
	recorder Recorder
	log      *logging.Logger
}

// NewEngine wires the backend chain. external may be nil.
func NewEngine(external Backend, direct *DirectBackend, notifier Notifier, log *logging.Logger) *Engine {
	if direct == nil {
		direct = NewDirectBackend(0, 0)
	}
	if log == nil {
		log = logging.NewNop()
	}
	breaker := resilience.New("external-backend", resilience.Settings{
		TripAfter: 5,
		Cooldown:  30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("backend breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return &Engine{external: external, direct: direct, breaker: breaker, notifier: notifier, log: log}
}

// WithRecorder attaches transfer volume accounting. A nil recorder is
// valid and records nothing.
func (e *Engine) WithRecorder(r Recorder) *Engine {
	e.recorder = r
	return e
}

// Copy duplicates each source under destDir. One result per source;
// failures do not stop the batch.
func (e *Engine) Copy(ctx context.Context, sources []string, destDir, transferID string) []ItemResult {
	return e.batch(ctx, sources, destDir, transferID, false)
}

// Move relocates each source under destDir.
func (e *Engine) Move(ctx context.Context, sources []string, destDir, transferID string) []ItemResult {
	return e.batch(ctx, sources, destDir, transferID, true)
}

func (e *Engine) batch(ctx context.Context, sources []string, destDir, transferID string, move bool) []ItemResult {
	operation := "copy"
	if move {
		operation = "move"
	}
	results := make([]ItemResult, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			results = append(results, ItemResult{Path: src, Error: err.Error()})
			continue
		}
		res := e.transferOne(ctx, src, destDir, transferID, move)
		if res.Success && e.recorder != nil {
			e.recorder.RecordTransfer(operation, string(res.Method), res.Bytes, res.Files)
		}
		results = append(results, res)
	}
	e.publishDone(transferID, results)
	return results
}

func (e *Engine) transferOne(ctx context.Context, src, destDir, transferID string, move bool) ItemResult {
	res := ItemResult{Path: src}

	if _, err := os.Lstat(src); err != nil {
		res.Error = err.Error()
		return res
	}
	dst, err := e.destination(src, destDir)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Destination = dst

	notify := e.progressFunc(transferID, src)

	if e.external != nil && e.external.Available() {
		var bytes int64
		var files int
		err := e.breaker.Do(func() error {
			var derr error
			bytes, files, derr = e.dispatch(ctx, e.external, src, dst, notify, move)
			return derr
		})
		if err == nil {
			res.Success = true
			res.Bytes = bytes
			res.Files = files
			res.Method = MethodExternal
			return res
		}
		// A tripped breaker means the external tool was never called
		// for this item, so only a real attempt counts as a fallback.
		if !errors.Is(err, resilience.ErrOpen) {
			e.log.Debug("external backend failed, using direct",
				zap.String("path", src), zap.Error(err))
			res.FallbackUsed = true
		}
	}

	bytes, files, err := e.dispatch(ctx, e.direct, src, dst, notify, move)
	res.Bytes = bytes
	res.Files = files
	res.Method = MethodDirect
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func (e *Engine) dispatch(ctx context.Context, b Backend, src, dst string, notify ProgressFunc, move bool) (int64, int, error) {
	if move {
		return b.Move(ctx, src, dst, notify)
	}
	return b.Copy(ctx, src, dst, notify)
}

// destination resolves the target path and dedupes collisions by
// suffixing " (n)" before the extension.
func (e *Engine) destination(src, destDir string) (string, error) {
	info, err := os.Stat(destDir)
	if err != nil {
		return "", fmt.Errorf("destination: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("destination is not a directory: %s", destDir)
	}

	base := filepath.Base(src)
	dst := filepath.Join(destDir, base)
	if dst == src {
		dst = ""
	}
	if dst != "" {
		if _, err := os.Lstat(dst); os.IsNotExist(err) {
			return dst, nil
		}
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; n < 1000; n++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s in %s", base, destDir)
}

// Delete removes each path. A path that is already gone counts as
// success, so repeated deletes are harmless.
func (e *Engine) Delete(ctx context.Context, paths []string) []ItemResult {
	results := make([]ItemResult, 0, len(paths))
	for _, path := range paths {
		res := ItemResult{Path: path, Method: MethodDirect}
		if err := ctx.Err(); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			res.Success = true
			results = append(results, res)
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			res.Error = err.Error()
		} else {
			res.Success = true
			if e.recorder != nil {
				e.recorder.RecordTransfer("delete", string(MethodDirect), 0, 1)
			}
		}
		results = append(results, res)
	}
	return results
}

// Rename changes the last path element in place. newName must be a bare
// name, not a path.
func (e *Engine) Rename(ctx context.Context, path, newName string) (string, error) {
	if newName == "" || strings.ContainsAny(newName, `/\`) {
		return "", fmt.Errorf("invalid name: %q", newName)
	}
	dst := filepath.Join(filepath.Dir(path), newName)
	if dst == path {
		return dst, nil
	}
	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("target already exists: %s", dst)
	}
	if err := os.Rename(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Mkdir creates a directory and any missing parents.
func (e *Engine) Mkdir(ctx context.Context, path string) error {
	return os.MkdirAll(path, 0o755)
}

func (e *Engine) progressFunc(transferID, current string) ProgressFunc {
	if e.notifier == nil || transferID == "" {
		return nil
	}
	return func(p Progress) {
		file := p.CurrentFile
		if file == "" {
			file = current
		}
		e.notifier.Publish(types.ProgressEvent{
			Type:             "transfer.progress",
			TransferID:       transferID,
			CurrentFile:      file,
			BytesTransferred: p.BytesTransferred,
			FilesTransferred: p.FilesTransferred,
			BytesPerSecond:   p.BytesPerSecond,
			ETASeconds:       p.ETASeconds,
		})
	}
}

func (e *Engine) publishDone(transferID string, results []ItemResult) {
	if e.notifier == nil || transferID == "" {
		return
	}
	var bytes int64
	var files int
	for _, r := range results {
		bytes += r.Bytes
		files += r.Files
	}
	e.notifier.Publish(types.ProgressEvent{
		Type:             "transfer.done",
		TransferID:       transferID,
		BytesTransferred: bytes,
		FilesTransferred: files,
		Done:             true,
	})
}
