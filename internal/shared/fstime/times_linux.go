//go:build linux

package fstime

import (
	"os"
	"syscall"
	"time"
)

// Linux exposes no birth time through os.Stat; the inode change time is
// the closest stable approximation.
func CreatedTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
