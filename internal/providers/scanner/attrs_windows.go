//go:build windows

package scanner

import (
	"os"
	"syscall"
)

func platformHidden(path string, info os.FileInfo) bool {
	return hasAttribute(info, syscall.FILE_ATTRIBUTE_HIDDEN)
}

func platformSystem(path string, info os.FileInfo) bool {
	return hasAttribute(info, syscall.FILE_ATTRIBUTE_SYSTEM)
}

func hasAttribute(info os.FileInfo, attr uint32) bool {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return sys.FileAttributes&attr != 0
}
