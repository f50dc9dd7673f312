//go:build windows

package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

// shortcutResolver treats .lnk shortcut files as plain files with a forced
// "lnk" extension, even when the shortcut target cannot be read. Symlinks
// and junctions are followed; entries with unreadable targets are skipped.
type shortcutResolver struct{}

func newLinkResolver() LinkResolver {
	return shortcutResolver{}
}

func (shortcutResolver) Resolve(path string, de os.DirEntry) (os.FileInfo, string, bool) {
	if strings.EqualFold(filepath.Ext(de.Name()), ".lnk") {
		info, err := de.Info()
		if err != nil {
			return nil, "", true
		}
		return info, "lnk", false
	}

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
	return nil, "", true
}
