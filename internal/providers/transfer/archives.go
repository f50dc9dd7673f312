package transfer

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ArchiveStats summarizes a compress or extract run.
type ArchiveStats struct {
	Files      int    `json:"files"`
	TotalBytes int64  `json:"total_bytes"`
	Format     string `json:"format"`
}

// Compress packs sources into output. The format comes from the output
// extension: .zip, .tar, .tar.gz/.tgz, .tar.zst.
func (e *Engine) Compress(ctx context.Context, sources []string, output string) (*ArchiveStats, error) {
	format := archiveFormat(output)
	switch format {
	case "zip":
		return e.compressZip(ctx, sources, output)
	case "tar", "tar.gz", "tar.zst":
		return e.compressTar(ctx, sources, output, format)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(output))
	}
}

// Extract unpacks archive into destination, picking the reader from the
// archive extension. Entries that would escape the destination are
// dropped.
func (e *Engine) Extract(ctx context.Context, archive, destination string) (*ArchiveStats, error) {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, err
	}
	format := archiveFormat(archive)
	switch format {
	case "zip":
		return extractZip(ctx, archive, destination)
	case "tar", "tar.gz", "tar.zst":
		return extractTar(ctx, archive, destination, format)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archive))
	}
}

func archiveFormat(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return "zip"
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return "tar.gz"
	case strings.HasSuffix(lower, ".tar.zst"):
		return "tar.zst"
	case strings.HasSuffix(lower, ".tar"):
		return "tar"
	}
	return ""
}

func (e *Engine) compressZip(ctx context.Context, sources []string, output string) (*ArchiveStats, error) {
	out, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	stats := &ArchiveStats{Format: "zip"}

	err = eachArchiveEntry(ctx, sources, func(path, name string, info os.FileInfo) error {
		if info.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()

		n, err := io.Copy(w, f)
		stats.TotalBytes += n
		if err == nil {
			stats.Files++
		}
		return err
	})
	if err != nil {
		zw.Close()
		os.Remove(output)
		return nil, err
	}
	if err := zw.Close(); err != nil {
		os.Remove(output)
		return nil, err
	}
	return stats, nil
}

func (e *Engine) compressTar(ctx context.Context, sources []string, output, format string) (*ArchiveStats, error) {
	out, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	var tw *tar.Writer
	var closers []io.Closer
	switch format {
	case "tar.gz":
		gz := gzip.NewWriter(out)
		closers = append(closers, gz)
		tw = tar.NewWriter(gz)
	case "tar.zst":
		zw, err := zstd.NewWriter(out)
		if err != nil {
			return nil, err
		}
		closers = append(closers, zw)
		tw = tar.NewWriter(zw)
	default:
		tw = tar.NewWriter(out)
	}

	stats := &ArchiveStats{Format: format}
	err = eachArchiveEntry(ctx, sources, func(path, name string, info os.FileInfo) error {
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return nil
		}
		header.Name = name
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()

		n, err := io.Copy(tw, f)
		stats.TotalBytes += n
		if err == nil {
			stats.Files++
		}
		return err
	})
	if err == nil {
		err = tw.Close()
	} else {
		tw.Close()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if cerr := closers[i].Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Remove(output)
		return nil, err
	}
	return stats, nil
}

// eachArchiveEntry walks every source, invoking fn with the archive-relative
// name for each file and directory. Single files archive under their base
// name; directories keep their name as the top-level entry.
func eachArchiveEntry(ctx context.Context, sources []string, fn func(path, name string, info os.FileInfo) error) error {
	conf := fastwalk.Config{Follow: false}
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := fn(src, filepath.Base(src), info); err != nil {
				return err
			}
			continue
		}

		root := filepath.Dir(src)
		err = fastwalk.Walk(&conf, src, func(path string, d os.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			return fn(path, filepath.ToSlash(rel), info)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func extractZip(ctx context.Context, archive, destination string) (*ArchiveStats, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	stats := &ArchiveStats{Format: "zip"}
	for _, file := range reader.File {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		destPath, ok := containedPath(destination, file.Name)
		if !ok {
			continue
		}
		if file.FileInfo().IsDir() {
			os.MkdirAll(destPath, 0o755)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			continue
		}

		src, err := file.Open()
		if err != nil {
			continue
		}
		dst, err := os.Create(destPath)
		if err != nil {
			src.Close()
			continue
		}
		n, err := io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err == nil {
			stats.Files++
			stats.TotalBytes += n
		}
	}
	return stats, nil
}

func extractTar(ctx context.Context, archive, destination, format string) (*ArchiveStats, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tr *tar.Reader
	switch format {
	case "tar.gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		tr = tar.NewReader(gz)
	case "tar.zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		tr = tar.NewReader(zr)
	default:
		tr = tar.NewReader(f)
	}

	stats := &ArchiveStats{Format: format}
	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}

		destPath, ok := containedPath(destination, header.Name)
		if !ok {
			continue
		}
		switch header.Typeflag {
		case tar.TypeDir:
			os.MkdirAll(destPath, 0o755)
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
				continue
			}
			out, err := os.Create(destPath)
			if err != nil {
				continue
			}
			n, err := io.Copy(out, tr)
			out.Close()
			if err == nil {
				stats.Files++
				stats.TotalBytes += n
			}
		}
	}
	return stats, nil
}

// containedPath joins name under root and rejects entries that would
// escape it.
func containedPath(root, name string) (string, bool) {
	dest := filepath.Join(root, filepath.FromSlash(name))
	if !strings.HasPrefix(dest, filepath.Clean(root)+string(os.PathSeparator)) {
		return "", false
	}
	return dest, true
}
