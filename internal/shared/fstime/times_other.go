//go:build !darwin && !linux && !windows

package fstime

import (
	"os"
	"time"
)

func CreatedTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
