//go:build !windows

package scanner

import "os"

// posixResolver follows symlinks. Entries whose link target is unreadable
// for any reason other than permission are skipped; permission-denied
// targets are presented as the link itself.
type posixResolver struct{}

func newLinkResolver() LinkResolver {
	return posixResolver{}
}

func (posixResolver) Resolve(path string, de os.DirEntry) (os.FileInfo, string, bool) {
	if de.Type()&os.ModeSymlink == 0 {
		info, err := de.Info()
		if err != nil {
			return nil, "", true
		}
		return info, "", false
	}

	info, err := os.Stat(path)
	if err == nil {
		return info, "", false
	}
	if os.IsPermission(err) {
		linkInfo, lerr := de.Info()
		if lerr != nil {
			return nil, "", true
		}
		return linkInfo, "", false
	}
	// Broken link target, skip silently.
	return nil, "", true
}
