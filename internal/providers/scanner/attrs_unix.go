//go:build !windows

package scanner

import "os"

// Dotfile convention is handled by the scanner itself; Unix has no
// separate hidden attribute.
func platformHidden(path string, info os.FileInfo) bool {
	return false
}

func platformSystem(path string, info os.FileInfo) bool {
	return false
}
