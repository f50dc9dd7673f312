//go:build windows

package fstime

import (
	"os"
	"syscall"
	"time"
)

func CreatedTime(info os.FileInfo) time.Time {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, sys.CreationTime.Nanoseconds())
}
