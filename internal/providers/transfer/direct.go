package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultBusyRetries is how many times a busy file is reopened
	// before the item fails.
	DefaultBusyRetries = 3

	// DefaultBusyBackoff is the pause between busy retries.
	DefaultBusyBackoff = time.Second

	copyBufferSize = 1 << 20
)

// DirectBackend transfers with plain filesystem calls. It is always
// available and serves as the fallback when no external tool is present.
type DirectBackend struct {
	busyRetries int
	busyBackoff time.Duration

	// Injectable for tests.
	sleep  func(time.Duration)
	rename func(oldpath, newpath string) error
	open   func(string) (*os.File, error)
}

// NewDirectBackend creates the fallback backend. Zero retry settings
// select the defaults.
func NewDirectBackend(retries int, backoff time.Duration) *DirectBackend {
	if retries <= 0 {
		retries = DefaultBusyRetries
	}
	if backoff <= 0 {
		backoff = DefaultBusyBackoff
	}
	return &DirectBackend{
		busyRetries: retries,
		busyBackoff: backoff,
		sleep:       time.Sleep,
		rename:      os.Rename,
		open:        os.Open,
	}
}

func (b *DirectBackend) Name() string    { return "direct" }
func (b *DirectBackend) Available() bool { return true }

// Copy duplicates src at dst. Directories copy recursively; timestamps
// and permission bits carry over best effort.
func (b *DirectBackend) Copy(ctx context.Context, src, dst string, notify ProgressFunc) (int64, int, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()
	var bytes int64
	var files int
	tick := func(current string) {
		if notify == nil {
			return
		}
		elapsed := time.Since(start).Seconds()
		var rate float64
		if elapsed > 0 {
			rate = float64(bytes) / elapsed
		}
		notify(Progress{
			CurrentFile:      current,
			BytesTransferred: bytes,
			FilesTransferred: files,
			BytesPerSecond:   rate,
		})
	}

	if info.IsDir() {
		err = b.copyDir(ctx, src, dst, &bytes, &files, tick)
	} else {
		var n int64
		n, err = b.copyFile(ctx, src, dst, info)
		bytes += n
		if err == nil {
			files++
			tick(src)
		}
	}
	return bytes, files, err
}

// Move renames when possible and falls back to copy-then-delete when the
// destination sits on another filesystem.
func (b *DirectBackend) Move(ctx context.Context, src, dst string, notify ProgressFunc) (int64, int, error) {
	err := b.rename(src, dst)
	if err == nil {
		info, statErr := os.Stat(dst)
		if statErr == nil && !info.IsDir() {
			return info.Size(), 1, nil
		}
		return 0, 1, nil
	}
	if !isCrossDevice(err) {
		return 0, 0, err
	}

	bytes, files, err := b.Copy(ctx, src, dst, notify)
	if err != nil {
		return bytes, files, fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return bytes, files, fmt.Errorf("remove source after copy: %w", err)
	}
	return bytes, files, nil
}

func (b *DirectBackend) copyDir(ctx context.Context, src, dst string, bytes *int64, files *int, tick func(string)) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := b.copyDir(ctx, srcPath, dstPath, bytes, files, tick); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			// Symlinks are recreated, sockets and pipes skipped.
			if info.Mode()&os.ModeSymlink != 0 {
				if target, err := os.Readlink(srcPath); err == nil {
					_ = os.Symlink(target, dstPath)
				}
			}
			continue
		}
		n, err := b.copyFile(ctx, srcPath, dstPath, info)
		*bytes += n
		if err != nil {
			return err
		}
		*files++
		tick(srcPath)
	}

	_ = os.Chtimes(dst, time.Now(), srcInfo.ModTime())
	return nil
}

func (b *DirectBackend) copyFile(ctx context.Context, src, dst string, info os.FileInfo) (int64, error) {
	in, err := b.openBusy(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	var written int64
	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			os.Remove(dst)
			return written, err
		}
		n, rerr := in.Read(buf)
		if n > 0 {
			wn, werr := out.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				out.Close()
				os.Remove(dst)
				return written, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			os.Remove(dst)
			return written, rerr
		}
	}
	if err := out.Close(); err != nil {
		return written, err
	}

	_ = os.Chtimes(dst, time.Now(), info.ModTime())
	return written, nil
}

// openBusy opens a source file, retrying when another process holds a
// transient lock on it.
func (b *DirectBackend) openBusy(path string) (*os.File, error) {
	var lastErr error
	for attempt := 0; attempt <= b.busyRetries; attempt++ {
		if attempt > 0 {
			b.sleep(b.busyBackoff)
		}
		f, err := b.open(path)
		if err == nil {
			return f, nil
		}
		if !isBusy(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("file busy after %d retries: %w", b.busyRetries, lastErr)
}
